package testutils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"runtime"

	"github.com/maslahah/nlpviz/config"
)

const (
	NERModel       = "id_maslahah_ner"
	SentimentModel = "id_maslahah_sentiment"
)

// NewTestConfig returns the default configuration pointed at the pipelines
// bundled with the repository.
func NewTestConfig() (*config.Config, error) {
	modelDir, err := ModelDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}
	cfg.Models.Dir = modelDir
	cfg.Models.Names = []string{NERModel, SentimentModel}
	cfg.Cache.Backend = "memory"
	cfg.Telemetry.Enabled = false
	return cfg, nil
}

// ModelDir returns the absolute path of the bundled model directory.
func ModelDir() (string, error) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %v", err)
	}
	return filepath.Join(projectRoot, "model"), nil
}

// FindProjectRoot returns the absolute path to the project root directory.
func FindProjectRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("could not get current file path")
	}

	dir := filepath.Dir(currentFilePath)

	for {
		// go.mod marks the project root.
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		// If we've reached the top-level directory, the project root is not found.
		if dir == filepath.Dir(dir) {
			return "", fmt.Errorf("project root not found")
		}

		// Move up one directory level.
		dir = filepath.Dir(dir)
	}
}

const charset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		bigInt, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		b[i] = charset[bigInt.Int64()]
	}
	return string(b)
}

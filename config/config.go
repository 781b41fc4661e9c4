package config

import (
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/maslahah/nlpviz/internal"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

const EnvPrefix = "NLPVIZ"

// DefaultSampleTexts are the texts pre-filled in the text box for the bundled
// pipelines. They are sample data only; config can add or replace entries.
var DefaultSampleTexts = map[string]string{
	"id_maslahah_ner": "Joko Widodo adalah presiden dari Partai PDI-Perjuangan. Beliau beristana di Jakarta.",
	"id_maslahah_sentiment": "Aku suka banget sama ini. Cuma ini cleanser yang cocok buat aku. " +
		"Aku udah sering banget gonta-ganti cleanser karena wajahku yang penuh jerawat. " +
		"Aku udah coba yang low-end dan high-end sekalipun tapi tetep gak ada yang sebagus ini. " +
		"Karena produknya gentle jadi gak bikin iritasi diwajah, kebanyakan produk cleanser lain " +
		"yang harsh untuk wajah justru dapat menyebabkan iritasi sehingga munculah jerawat. Very recommended!",
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8501)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("models.dir", "model")
	v.SetDefault("models.names", []string{"id_maslahah_ner", "id_maslahah_sentiment"})
	v.SetDefault("cache.policy", "unbounded")
	v.SetDefault("cache.max_entries", 0)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.ttl", 0)
	v.SetDefault("cache.redis.prefix", "nlpviz:doc:")
	v.SetDefault("ui.title", "Maslahah-Interactive NER&Sentiment Visualizer")
	v.SetDefault(
		"ui.description",
		"Proses teks menggunakan model NLP untuk memvisualisasikan NER dan klasifikasi teks.",
	)
	v.SetDefault("ui.sample_texts", map[string]string{})
	v.SetDefault("ui.colors", map[string]string{})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "nlpviz")
	v.SetDefault("telemetry.insecure", true)
}

// LoadConfig loads the config file and ENV variables into a Config struct.
// An empty configFile looks for an optional config.yaml in the working
// directory; an explicit path must exist.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment variables take precedence over config file
	loadDotEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Debug("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills the sample-text map with the bundled texts without
// overriding texts from the config.
func applyDefaults(cfg *Config) error {
	if cfg.UI.SampleTexts == nil {
		cfg.UI.SampleTexts = map[string]string{}
	}
	if err := mergo.Merge(&cfg.UI.SampleTexts, DefaultSampleTexts); err != nil {
		return fmt.Errorf("failed to merge sample texts: %w", err)
	}
	if cfg.UI.Colors == nil {
		cfg.UI.Colors = map[string]string{}
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level and format based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	if cfg.Log.Format == "json" {
		internal.SetJSONFormat()
	}
	internal.GetLogger().Info("Log level set to: ", level)
}

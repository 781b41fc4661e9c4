package internal

import (
	"os"
	"path/filepath"
)

// AppDir returns the directory holding the running executable. It falls back
// to the working directory when the executable path is unavailable.
func AppDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ResolveDir resolves a possibly relative directory against base. When the
// result does not exist the path relative to the working directory is
// returned instead, so running from a source checkout finds bundled data.
func ResolveDir(dir, base string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	candidate := filepath.Join(base, dir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir() returned empty string")
	}

	if !strings.Contains(dir, "pkmgr") {
		t.Errorf("ConfigDir() should contain 'pkmgr': %s", dir)
	}

	if !strings.Contains(dir, ".config") && os.Getenv("XDG_CONFIG_HOME") == "" {
		t.Errorf("ConfigDir() should be in .config: %s", dir)
	}
}

func TestDataDir(t *testing.T) {
	dir := DataDir()

	if dir == "" {
		t.Error("DataDir() returned empty string")
	}

	if !strings.Contains(dir, "pkmgr") {
		t.Errorf("DataDir() should contain 'pkmgr': %s", dir)
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()

	if !strings.HasSuffix(path, "config.toml") {
		t.Errorf("ConfigPath() should end with 'config.toml': %s", path)
	}
}

func TestHistoryPath(t *testing.T) {
	path := HistoryPath()

	if !strings.HasSuffix(path, "history.db") {
		t.Errorf("HistoryPath() should end with 'history.db': %s", path)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	tmpDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error: %v", err)
	}

	info, err := os.Stat(ConfigDir())
	if err != nil {
		t.Fatalf("Config directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("ConfigDir is not a directory")
	}
}

func TestEnsureDataDir(t *testing.T) {
	originalXDG := os.Getenv("XDG_DATA_HOME")
	tmpDir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", tmpDir)
	defer os.Setenv("XDG_DATA_HOME", originalXDG)

	if err := EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() error: %v", err)
	}

	info, err := os.Stat(DataDir())
	if err != nil {
		t.Fatalf("Data directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("DataDir is not a directory")
	}
}

func TestXDGOverride(t *testing.T) {
	tmpDir := t.TempDir()
	customConfig := filepath.Join(tmpDir, "custom_config")
	customData := filepath.Join(tmpDir, "custom_data")

	originalConfig := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", customConfig)

	configDir := ConfigDir()
	if !strings.HasPrefix(configDir, customConfig) {
		t.Errorf("ConfigDir should use XDG_CONFIG_HOME: %s", configDir)
	}
	os.Setenv("XDG_CONFIG_HOME", originalConfig)

	originalData := os.Getenv("XDG_DATA_HOME")
	os.Setenv("XDG_DATA_HOME", customData)

	dataDir := DataDir()
	if !strings.HasPrefix(dataDir, customData) {
		t.Errorf("DataDir should use XDG_DATA_HOME: %s", dataDir)
	}
	os.Setenv("XDG_DATA_HOME", originalData)
}

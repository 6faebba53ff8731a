package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, ".basher.yaml")
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(content), "analysis:") {
		t.Fatalf("unexpected configuration content: %s", string(content))
	}
}

func TestInitializedTemplateLoads(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	workingDirectory := t.TempDir()
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loaded.Analysis.HelpTimeout != "8s" || IntOr(loaded.Analysis.FanOut, 0) != 8 {
		t.Fatalf("unexpected analysis configuration: %+v", loaded.Analysis)
	}
	if loaded.Server.Address != "127.0.0.1:8765" {
		t.Fatalf("unexpected server address %q", loaded.Server.Address)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if path != filepath.Join(homeDir, ".basher", "config.yaml") {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, ".basher.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if !errors.Is(err, ErrConfigurationExists) {
		t.Fatalf("expected ErrConfigurationExists, got %v", err)
	}
	if content, _ := os.ReadFile(path); string(content) != "existing" {
		t.Fatalf("existing configuration modified: %q", string(content))
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected overwrite with force: %v", err)
	}
	if content, _ := os.ReadFile(path); string(content) != defaultConfigurationTemplate {
		t.Fatalf("forced init did not replace the file: %q", string(content))
	}
}

func TestConfigurationPathRejectsUnknownTarget(t *testing.T) {
	if _, err := ConfigurationPath(InitTarget("system"), t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

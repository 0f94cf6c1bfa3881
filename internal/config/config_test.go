package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.NetBeans.Listen != "127.0.0.1:3219" {
		t.Errorf("listen = %s, want 127.0.0.1:3219", cfg.NetBeans.Listen)
	}
	if cfg.Signs.EnabledBg != "Cyan" || cfg.Signs.DisabledBg != "Green" || cfg.Signs.FrameBg != "Magenta" {
		t.Errorf("signs = %+v, want Cyan/Green/Magenta", cfg.Signs)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.NetBeans.Listen != Default().NetBeans.Listen {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clewn.toml")
	content := `
[netbeans]
listen = "127.0.0.1:4000"

[signs]
enabledBg = "Blue"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.NetBeans.Listen != "127.0.0.1:4000" {
		t.Errorf("listen = %s, want 127.0.0.1:4000", cfg.NetBeans.Listen)
	}
	if cfg.Signs.EnabledBg != "Blue" {
		t.Errorf("enabledBg = %s, want Blue", cfg.Signs.EnabledBg)
	}
	// Unset values keep their defaults.
	if cfg.Signs.FrameBg != "Magenta" {
		t.Errorf("frameBg = %s, want Magenta", cfg.Signs.FrameBg)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clewn.yaml")
	content := `
logging:
  level: debug
  file: /tmp/clewn.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/tmp/clewn.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clewn.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clewn.toml")
	if err := os.WriteFile(path, []byte("= not toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %v, want *ParseError", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvListen, "127.0.0.1:9000")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.NetBeans.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %s, want env override", cfg.NetBeans.Listen)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %s, want warn", cfg.Logging.Level)
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clewn.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "debug" {
			t.Errorf("reloaded level = %s, want debug", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

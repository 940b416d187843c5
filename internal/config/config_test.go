package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.Heartbeat != 15*time.Second {
		t.Fatalf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Game.SettleDelay != 500*time.Millisecond || cfg.Game.ThinkDelay != 500*time.Millisecond {
		t.Fatalf("unexpected game defaults %+v", cfg.Game)
	}
	if cfg.Log.Level != "info" || cfg.Log.Dev {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	p := writeConfig(t, "config.yaml", `
server:
  addr: ":9000"
game:
  settle_delay: 250ms
  think_delay: 1s
log:
  level: debug
`)
	t.Setenv("TICTACTOE_SERVER_ADDR", "127.0.0.1:7000")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Fatalf("expected env to win over file, got %q", cfg.Server.Addr)
	}
	if cfg.Game.SettleDelay != 250*time.Millisecond || cfg.Game.ThinkDelay != time.Second {
		t.Fatalf("unexpected delays %+v", cfg.Game)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Log.Level)
	}
	if cfg.Game.IdleTimeout != 30*time.Minute {
		t.Fatalf("expected default idle timeout, got %v", cfg.Game.IdleTimeout)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative delay", "game:\n  settle_delay: -1s\n"},
		{"zero settle delay", "game:\n  settle_delay: 0s\n"},
		{"zero think delay", "game:\n  think_delay: 0\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tc.body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := Log{Level: "debug", Dev: true}.NewLogger()
	if err != nil || log == nil {
		t.Fatalf("NewLogger: %v", err)
	}
	file := filepath.Join(t.TempDir(), "game.log")
	flog, err := Log{Level: "info", File: file}.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger with file: %v", err)
	}
	flog.Infow("hello")
	_ = flog.Sync()
	if raw, err := os.ReadFile(file); err != nil || len(raw) == 0 {
		t.Fatalf("expected log file to be written, err=%v", err)
	}
	if _, err := (Log{Level: "loud"}).NewLogger(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

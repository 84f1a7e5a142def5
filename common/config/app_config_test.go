package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_RuleSectionAndDefaults(t *testing.T) {
	path := writeConfig(t, `
serverType: game
log:
  level: debug
nats:
  url: nats://127.0.0.1:4222
rule:
  seats: 3
  roundWinds: 1
  discardTimeout: 12s
  aiSeats: [1, 2]
`)
	l, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := l.Current()
	if cfg.RuleConf.Seats != 3 || cfg.RuleConf.RoundWinds != 1 {
		t.Fatalf("rule not decoded: %+v", cfg.RuleConf)
	}
	if cfg.RuleConf.DiscardTimeout != 12*time.Second {
		t.Fatalf("discardTimeout = %v", cfg.RuleConf.DiscardTimeout)
	}
	if cfg.RuleConf.CallTimeout != 10*time.Second {
		t.Fatalf("callTimeout default = %v", cfg.RuleConf.CallTimeout)
	}
	if cfg.RuleConf.InitialPoints != 25000 || !cfg.RuleConf.UseRedFives {
		t.Fatalf("defaults missing: %+v", cfg.RuleConf)
	}
	if len(cfg.RuleConf.AISeats) != 2 || cfg.RuleConf.AISeats[0] != 1 {
		t.Fatalf("aiSeats = %v", cfg.RuleConf.AISeats)
	}
	if cfg.NatsConfig.URL != "nats://127.0.0.1:4222" || cfg.LogConf.Level != "debug" {
		t.Fatalf("sections not decoded: %+v", cfg)
	}
	if GameNodeConfig.RuleConf.Seats != 3 {
		t.Fatalf("global config not set")
	}
}

func TestLoad_NodeIDOverride(t *testing.T) {
	t.Setenv("NODE_ID", "game-42")
	path := writeConfig(t, "serverType: game\n")
	l, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := l.Current().ID; got != "game-42" {
		t.Fatalf("id = %q", got)
	}
}

func TestLoad_RejectsOtherServerType(t *testing.T) {
	path := writeConfig(t, "serverType: hall\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for non-game server type")
	}
}

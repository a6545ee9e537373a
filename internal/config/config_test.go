package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type memBackend struct {
	strings map[string]string
	ints    map[string]int
}

func newMemBackend() *memBackend {
	return &memBackend{strings: map[string]string{}, ints: map[string]int{}}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *memBackend) SetString(key, value string) error {
	m.strings[key] = value
	return nil
}

func (m *memBackend) SetInt(key string, value int) error {
	m.ints[key] = value
	return nil
}

func (m *memBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		if s.env != "" {
			t.Setenv(s.env, "")
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := loadWith(newMemBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Gemini.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("BaseURL = %q", cfg.Gemini.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKey != "" {
		t.Errorf("APIKey = %q, want empty (fallback mode)", cfg.Gemini.APIKey)
	}
	if cfg.Pipeline.AnalysisTimeout != "15s" || cfg.Pipeline.RoadmapTimeout != "20s" {
		t.Errorf("timeouts = %q/%q", cfg.Pipeline.AnalysisTimeout, cfg.Pipeline.RoadmapTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadAppliesBackendValues(t *testing.T) {
	clearEnvOverrides(t)

	b := newMemBackend()
	b.SetInt("server.port", 8123)
	b.SetString("gemini.model", "gemini-1.5-pro")
	b.SetString("log.level", "debug")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("Port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadIgnoresSecretsInBackend(t *testing.T) {
	clearEnvOverrides(t)

	b := newMemBackend()
	b.SetString("gemini.api_key", "leaked-from-file")
	b.SetString("server.token", "leaked-token")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Gemini.APIKey != "" {
		t.Error("api key read from file backend; secrets are env-only")
	}
	if cfg.Server.Token != "" {
		t.Error("server token read from file backend; secrets are env-only")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("ASTRA_SERVER_PORT", "9000")
	t.Setenv("ASTRA_GEMINI_API_KEY", "sk-test")
	t.Setenv("ASTRA_SERVER_TOKEN", "hunter2")

	b := newMemBackend()
	b.SetInt("server.port", 8123)

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want env to win over backend", cfg.Server.Port)
	}
	if cfg.Gemini.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Token != "hunter2" {
		t.Errorf("Token = %q", cfg.Server.Token)
	}
}

func TestLoadBadIntEnvKeepsDefault(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("ASTRA_SERVER_PORT", "not-a-port")

	cfg, err := loadWith(newMemBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want default after parse failure", cfg.Server.Port)
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Gemini.APIKey = "sk-secret"
	cfg.Server.Token = "token-secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "gemini.api_key" || info.Key == "server.token" {
			t.Errorf("secret key %q listed by ShowAll", info.Key)
		}
		if strings.Contains(info.Value, "secret") {
			t.Errorf("secret value leaked via %q", info.Key)
		}
	}
}

func TestSetKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := SetKey("gemini.model", "gemini-2.5-pro"); err != nil {
		t.Fatalf("SetKey string: %v", err)
	}
	if err := SetKey("server.port", "8080"); err != nil {
		t.Fatalf("SetKey int: %v", err)
	}

	b := newFileBackend()
	v, ok, err := b.GetString("gemini.model")
	if err != nil || !ok || v != "gemini-2.5-pro" {
		t.Errorf("GetString = %q ok=%t err=%v", v, ok, err)
	}
	i, ok, err := b.GetInt("server.port")
	if err != nil || !ok || i != 8080 {
		t.Errorf("GetInt = %d ok=%t err=%v", i, ok, err)
	}
}

func TestSetKeyRejectsBadInput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := SetKey("server.port", "eighty"); err == nil {
		t.Error("SetKey accepted a non-integer port")
	}
	if err := SetKey("no.such.key", "x"); err == nil {
		t.Error("SetKey accepted an unknown key")
	}
}

func TestSetKeyRefusesSecrets(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := SetKey("gemini.api_key", "sk-nope")
	if err == nil {
		t.Fatal("SetKey accepted a secret")
	}
	if !strings.Contains(err.Error(), "ASTRA_GEMINI_API_KEY") {
		t.Errorf("error %q does not point at the env var", err)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	b := newFileBackend()
	if err := b.SetString("log.level", "debug"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if err := b.SetInt("server.port", 4455); err != nil {
		t.Fatalf("SetInt: %v", err)
	}

	// Fresh backend reads the same file.
	b2 := newFileBackend()
	v, ok, _ := b2.GetString("log.level")
	if !ok || v != "debug" {
		t.Errorf("GetString = %q ok=%t", v, ok)
	}
	i, ok, _ := b2.GetInt("server.port")
	if !ok || i != 4455 {
		t.Errorf("GetInt = %d ok=%t", i, ok)
	}

	if err := b2.Delete("log.level"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := newFileBackend().GetString("log.level"); ok {
		t.Error("deleted key still present")
	}

	if fi, err := os.Stat(filepath.Join(dir, "astra", "config.json")); err != nil {
		t.Fatalf("config file missing: %v", err)
	} else if fi.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestValidKeysExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "gemini.api_key" || k == "server.token" {
			t.Errorf("secret key %q listed as settable", k)
		}
	}
}

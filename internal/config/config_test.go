package config

import (
	"strings"
	"testing"
)

type mockBackend struct {
	strings map[string]string
	ints    map[string]int
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		strings: make(map[string]string),
		ints:    make(map[string]int),
	}
}

func (m *mockBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *mockBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mockBackend) SetString(key, value string) error {
	m.strings[key] = value
	return nil
}

func (m *mockBackend) SetInt(key string, value int) error {
	m.ints[key] = value
	return nil
}

func (m *mockBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(newMockBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.APIToken != "" {
		t.Errorf("APIToken = %q, want empty", cfg.Server.APIToken)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("DataDir should default to a non-empty path")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_BackendOverridesDefaults(t *testing.T) {
	b := newMockBackend()
	b.ints["server.port"] = 8080
	b.strings["log.level"] = "debug"

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_EnvOverridesBackend(t *testing.T) {
	b := newMockBackend()
	b.ints["server.port"] = 8080

	t.Setenv("SUPPORTBOT_SERVER_PORT", "9090")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090 (env wins over file)", cfg.Server.Port)
	}
}

func TestLoad_InvalidEnvIntIgnored(t *testing.T) {
	t.Setenv("SUPPORTBOT_SERVER_PORT", "not-a-port")

	cfg, err := loadWith(newMockBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Port = %d, want default 5000", cfg.Server.Port)
	}
}

func TestLoad_SecretOnlyFromEnv(t *testing.T) {
	b := newMockBackend()
	// A token in the file backend must be ignored.
	b.strings["server.api_token"] = "from-file"

	t.Setenv("SUPPORTBOT_API_TOKEN", "from-env")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.APIToken != "from-env" {
		t.Errorf("APIToken = %q, want from-env", cfg.Server.APIToken)
	}
}

func TestShowAll_SkipsSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Server.APIToken = "secret-value"

	for _, k := range ShowAll(cfg) {
		if k.Key == "server.api_token" {
			t.Error("ShowAll must not list server.api_token")
		}
		if strings.Contains(k.Value, "secret-value") {
			t.Errorf("ShowAll leaked the token via %s", k.Key)
		}
	}
}

func TestSetKey_RefusesSecret(t *testing.T) {
	err := SetKey("server.api_token", "x")
	if err == nil {
		t.Fatal("SetKey on a secret should fail")
	}
	if !strings.Contains(err.Error(), "SUPPORTBOT_API_TOKEN") {
		t.Errorf("error %q should name the environment variable", err)
	}
}

func TestSetKey_UnknownKey(t *testing.T) {
	if err := SetKey("no.such.key", "x"); err == nil {
		t.Fatal("SetKey on an unknown key should fail")
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	want := map[string]bool{"server.port": true, "storage.data_dir": true, "log.level": true}
	if len(keys) != len(want) {
		t.Fatalf("ValidKeys = %v, want %d keys", keys, len(want))
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}

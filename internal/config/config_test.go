package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "april/cli/internal/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if c != Default() {
		t.Errorf("LoadFrom() = %+v, want defaults", c)
	}
}

func TestSaveAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	want := Config{APIURL: "https://april.example.com", LintModel: "openai:gpt3", DevModel: "openai:gpt4o", LogLevel: "debug"}
	if err := SaveTo(p, want); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	got, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got != want {
		t.Errorf("LoadFrom() = %+v, want %+v", got, want)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(`{"api_url":"grpc://localhost:50051","dev_model":""}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	want := Default()
	want.APIURL = "grpc://localhost:50051"
	if got != want {
		t.Errorf("LoadFrom() = %+v, want %+v", got, want)
	}
}

func TestLoadFromInvalidJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(`{`), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFrom(p)
	if err == nil {
		t.Fatal("LoadFrom() should fail on invalid JSON")
	}
	if c != Default() {
		t.Errorf("LoadFrom() on error = %+v, want defaults", c)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{name: "nothing set", env: nil, want: Default()},
		{
			name: "all set",
			env:  map[string]string{EnvAPIURL: "https://x", EnvLintModel: "openai:gpt3", EnvDevModel: "openai:gpt4o"},
			want: Config{APIURL: "https://x", LintModel: "openai:gpt3", DevModel: "openai:gpt4o", LogLevel: DefaultLogLevel},
		},
		{
			name: "blank values ignored",
			env:  map[string]string{EnvAPIURL: "  "},
			want: Default(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default().ApplyEnv(envMap(tt.env)); got != tt.want {
				t.Errorf("ApplyEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateModel(t *testing.T) {
	if err := ValidateModel("openai:gpt4o", DevModels); err != nil {
		t.Errorf("ValidateModel(gpt4o, dev) error = %v", err)
	}
	err := ValidateModel("openai:gpt4o", LintModels)
	if apperrors.KindOf(err) != apperrors.InvalidInput {
		t.Errorf("ValidateModel(gpt4o, lint) error = %v, want InvalidInput", err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	stored := func() (string, error) { return "sk-keychain", nil }
	missing := func() (string, error) { return "", errors.New("not found") }

	tests := []struct {
		name     string
		flag     string
		env      map[string]string
		keychain func() (string, error)
		want     string
	}{
		{name: "flag wins", flag: "sk-flag", env: map[string]string{EnvAPIKey: "sk-env"}, keychain: stored, want: "sk-flag"},
		{name: "env before keychain", env: map[string]string{EnvAPIKey: "sk-env"}, keychain: stored, want: "sk-env"},
		{name: "keychain", keychain: stored, want: "sk-keychain"},
		{name: "default", keychain: missing, want: DefaultAPIKey},
		{name: "no keychain", want: DefaultAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAPIKey(tt.flag, envMap(tt.env), tt.keychain); got != tt.want {
				t.Errorf("ResolveAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{name: "api url", key: "api_url", value: "grpcs://april.example.com", want: "grpcs://april.example.com"},
		{name: "api url without scheme", key: "api_url", value: "april.example.com", wantErr: true},
		{name: "dev model", key: "dev_model", value: "openai:gpt4o", want: "openai:gpt4o"},
		{name: "lint model not accepted", key: "lint_model", value: "openai:gpt4", wantErr: true},
		{name: "log level", key: "log_level", value: "DEBUG", want: "debug"},
		{name: "empty restores default", key: "lint_model", value: " ", want: DefaultLintModel},
		{name: "unknown key", key: "token", value: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Default().Set(tt.key, tt.value)
			if tt.wantErr {
				if !errors.Is(err, apperrors.New(apperrors.InvalidInput, "")) {
					t.Fatalf("Set() error = %v, want invalid input", err)
				}
				if c != Default() {
					t.Errorf("Set() changed the config on error: %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := c.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetCoversEveryKey(t *testing.T) {
	c := Default()
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
	if _, err := c.Get("nope"); err == nil {
		t.Error("Get() should reject an unknown key")
	}
}

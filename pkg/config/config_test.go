package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LLMProvider != "openai" {
		t.Errorf("Expected LLMProvider 'openai', got %q", cfg.LLMProvider)
	}

	if cfg.OpenAI.Model != "gpt-4" {
		t.Errorf("Expected model 'gpt-4', got %q", cfg.OpenAI.Model)
	}

	if cfg.OpenAI.APIURL != "https://api.openai.com/v1" {
		t.Errorf("Expected API URL 'https://api.openai.com/v1', got %q", cfg.OpenAI.APIURL)
	}

	if cfg.Theme != ThemeDark {
		t.Errorf("Expected dark theme by default, got %q", cfg.Theme)
	}
}

func TestLoad_CreateDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".gptchat", "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAI.Model != DefaultModel {
		t.Errorf("Expected default model %q, got %q", DefaultModel, cfg.OpenAI.Model)
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected config file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLoad_ExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	initialCfg := Default()
	initialCfg.OpenAI.Organization = "org-123"
	if err := Save(configPath, initialCfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAI.Organization != "org-123" {
		t.Errorf("Expected organization 'org-123', got %q", cfg.OpenAI.Organization)
	}
}

func TestLoad_MigrationDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Missing api_url, llm_provider and theme; explicit temperature 0 should be preserved
	raw := `{
  "openai": {
    "api_key": "test-key",
    "model": "",
    "temperature": 0
  }
}`
	if err := os.WriteFile(configPath, []byte(raw), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LLMProvider != "openai" {
		t.Errorf("Expected LLMProvider 'openai', got %q", cfg.LLMProvider)
	}
	if cfg.OpenAI.APIURL != DefaultAPIURL {
		t.Errorf("Expected API URL default, got %q", cfg.OpenAI.APIURL)
	}
	if cfg.OpenAI.Model != DefaultModel {
		t.Errorf("Expected model default, got %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Temperature != 0 {
		t.Errorf("Expected temperature 0, got %f", cfg.OpenAI.Temperature)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("Expected theme default, got %q", cfg.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected migrated config to validate, got: %v", err)
	}
}

func TestLoad_CorruptedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{invalid json}"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Expected error for corrupted JSON, got nil")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "file-key"

	env := map[string]string{
		EnvAPIKey:       "env-key",
		EnvOrganization: " org-env ",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("Expected env API key, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Organization != "org-env" {
		t.Errorf("Expected trimmed env organization, got %q", cfg.OpenAI.Organization)
	}
}

func TestApplyEnv_EmptyKeepsFileValues(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "file-key"
	cfg.OpenAI.Organization = "org-file"

	cfg.ApplyEnv(func(string) string { return "" })

	if cfg.OpenAI.APIKey != "file-key" {
		t.Errorf("Expected file API key to be kept, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Organization != "org-file" {
		t.Errorf("Expected file organization to be kept, got %q", cfg.OpenAI.Organization)
	}
}

func TestValidate_Success(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test-key"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() failed on valid config: %v", err)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing API key, got nil")
	}
}

func TestValidate_DryRunWithoutAPIKey(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = ProviderDryRun

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected dryrun config without key to validate, got: %v", err)
	}
}

func TestValidate_InvalidAPIURL(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.OpenAI.APIURL = "not a url"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid API URL, got nil")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.LogLevel = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid log level, got nil")
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.LogFormat = "xml"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid log format, got nil")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.OpenAI.Model = "   "

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing model, got nil")
	}
}

func TestValidate_InvalidTemperature(t *testing.T) {
	tests := []struct {
		temp  float64
		valid bool
	}{
		{-0.1, false},
		{0.0, true},
		{0.7, true},
		{2.0, true},
		{2.1, false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.OpenAI.APIKey = "test"
		cfg.OpenAI.Temperature = tt.temp

		err := cfg.Validate()
		if tt.valid && err != nil {
			t.Errorf("Temperature %f should be valid, got error: %v", tt.temp, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("Temperature %f should be invalid, got no error", tt.temp)
		}
	}
}

func TestValidate_InvalidTimeout(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.OpenAI.APITimeoutSeconds = -1

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative timeout, got nil")
	}
}

func TestValidate_InvalidTheme(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "test"
	cfg.Theme = "solarized"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported theme, got nil")
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = "unsupported"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported provider, got nil")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Fatal("GetConfigPath() returned empty string")
	}
	if filepath.Base(filepath.Dir(path)) != ".gptchat" {
		t.Errorf("Expected path inside '.gptchat', got %q", path)
	}
}

func TestTranscriptPath(t *testing.T) {
	cfg := Default()
	if filepath.Base(cfg.TranscriptPath()) != "transcripts" {
		t.Errorf("Expected default transcripts dir, got %q", cfg.TranscriptPath())
	}

	cfg.TranscriptDir = "/tmp/chats"
	if cfg.TranscriptPath() != "/tmp/chats" {
		t.Errorf("Expected explicit transcript dir, got %q", cfg.TranscriptPath())
	}
}

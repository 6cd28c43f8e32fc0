package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/slidetrans/internal/translation"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "slidetrans [input.pptx...]" {
		t.Errorf("Expected Use to be 'slidetrans [input.pptx...]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "PowerPoint presentation translator") {
		t.Errorf("Expected Short description to contain 'PowerPoint presentation translator'")
	}

	// Test that flags are set up
	flagTests := []string{
		"config", "language", "output", "batch", "context", "list-models",
		"verify-models", "verbose", "quiet", "profile", "log-file", "provider",
		"api-key", "model", "base-url", "timeout", "delay", "breaker-threshold",
		"breaker-cooldown", "cache-dir", "cache-format", "no-cache", "archive-cache",
	}

	for _, name := range flagTests {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}

	// Test shorthands
	shorthands := map[string]string{"l": "language", "o": "output", "k": "api-key", "m": "model"}
	for short, name := range shorthands {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil || flag.Name != name {
			t.Errorf("Expected -%s to map to --%s", short, name)
		}
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"timeout":      "30s",
		"delay":        "100ms",
		"provider":     "gemini",
		"cache-format": "json",
		"context":      "PowerPoint presentation content",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %s, got %s", name, want, flag.DefValue)
		}
	}

	if err := cmd.ParseFlags([]string{"-l", "es", "--timeout", "5s", "--no-cache"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if flags.Language != "es" || flags.Timeout != 5*time.Second || !flags.NoCache {
		t.Errorf("Flags not parsed into struct: %+v", flags)
	}
}

func TestInitConfig(t *testing.T) {
	resetViper(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test-config.yaml")
	content := `api:
  key: config-key
translation:
  language: fr
  model: gemini-2.5-pro
  timeout: 45s
cache:
  format: sqlite`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)
	InitConfig(cfgPath)

	t.Setenv("SLIDETRANS_TEST_VAR", "test-value")
	if viper.GetString("test_var") != "test-value" {
		t.Error("Environment variable not properly loaded")
	}

	ApplyConfig(flags)

	if flags.Language != "fr" {
		t.Errorf("Expected language from config, got %q", flags.Language)
	}
	if flags.Model != "gemini-2.5-pro" {
		t.Errorf("Expected model from config, got %q", flags.Model)
	}
	if flags.Timeout != 45*time.Second {
		t.Errorf("Expected timeout from config, got %v", flags.Timeout)
	}
	if flags.CacheFormat != "sqlite" {
		t.Errorf("Expected cache format from config, got %q", flags.CacheFormat)
	}
	if flags.Delay != 100*time.Millisecond {
		t.Errorf("Expected default delay to survive, got %v", flags.Delay)
	}
}

func TestApplyConfigFlagWins(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	viper.Set("translation.language", "fr")
	viper.SetDefault("translation.model", "from-config")
	if err := cmd.ParseFlags([]string{"-m", "from-flag"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	ApplyConfig(flags)

	if flags.Model != "from-flag" {
		t.Errorf("Expected command line model to win, got %q", flags.Model)
	}
	if flags.Language != "fr" {
		t.Errorf("Expected language from config, got %q", flags.Language)
	}
}

func TestGetAPIKey(t *testing.T) {
	tests := []struct {
		name      string
		provider  translation.Provider
		flagKey   string
		envVar    string
		envKey    string
		configKey string
		expected  string
	}{
		{"flag wins", translation.ProviderGemini, "flag-key", "GEMINI_API_KEY", "env-key", "config-key", "flag-key"},
		{"gemini environment", translation.ProviderGemini, "", "GEMINI_API_KEY", "env-key", "config-key", "env-key"},
		{"openai environment", translation.ProviderOpenAI, "", "OPENAI_API_KEY", "openai-key", "", "openai-key"},
		{"other provider variable ignored", translation.ProviderOpenAI, "", "GEMINI_API_KEY", "gemini-key", "config-key", "config-key"},
		{"from config when no env", translation.ProviderGemini, "", "", "", "config-key", "config-key"},
		{"empty when nothing set", translation.ProviderGemini, "", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("OPENAI_API_KEY", "")
			if tt.envVar != "" {
				t.Setenv(tt.envVar, tt.envKey)
			}
			if tt.configKey != "" {
				viper.Set("api.key", tt.configKey)
			}

			if got := GetAPIKey(tt.provider, tt.flagKey); got != tt.expected {
				t.Errorf("GetAPIKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"es", "es", false},
		{"zh-CN", "zh-CN", false},
		{" EN ", "EN", false},
		{"pt-br", "pt-br", false},
		{"zh-cn", "zh-cn", false},
		{"Spanish", "Spanish", false},
		{"Brazilian Portuguese", "Brazilian Portuguese", false},
		{"../es", "", true},
		{"", "", true},
		{"not a language!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateLanguage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ValidateLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"codeberg.org/snonux/slidetrans/internal"
	"codeberg.org/snonux/slidetrans/internal/translation"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slidetrans [input.pptx...]",
		Short: "PowerPoint presentation translator",
		Long: `slidetrans translates the text of PowerPoint presentations with a
large language model and writes a translated copy next to the original.

Translations are cached per presentation and language, so running the
same deck again only sends text that changed.

Examples:
  slidetrans presentation.pptx -l en
  slidetrans presentation.pptx -l zh-CN -o translated.pptx
  slidetrans presentation.pptx -l es -m gemini-2.5-pro
  slidetrans -l fr                     # Translate all .pptx files in the current directory
  slidetrans --batch decks.txt -l de   # Translate every deck listed in decks.txt`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.slidetrans.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Language, "language", "l", "", "Target language code (e.g., en, zh-CN, es, fr)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file path, or directory for translated decks")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate decks listed in file (one path per line)")
	cmd.Flags().StringVar(&flags.Context, "context", flags.Context, "Context hint passed to the model")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models and exit")
	cmd.Flags().BoolVar(&flags.VerifyModels, "verify-models", false, "Check which known models answer with the current API key and exit")
	cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Show detailed translation progress")
	cmd.Flags().BoolVar(&flags.Quiet, "quiet", false, "Minimize output (only errors and final result)")
	cmd.Flags().BoolVar(&flags.Profile, "profile", false, "Log processing time per deck and in total")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", flags.LogFile, "Log file (empty disables file logging)")

	// Provider flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Model provider: gemini or openai")
	cmd.Flags().StringVarP(&flags.APIKey, "api-key", "k", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().StringVarP(&flags.Model, "model", "m", "", "Model to use (default: gemini-2.5-flash, gpt-4o-mini for openai)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "Override the provider API endpoint")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Deadline for a single translation request")
	cmd.Flags().DurationVar(&flags.Delay, "delay", flags.Delay, "Pause between consecutive translation requests")
	cmd.Flags().UintVar(&flags.BreakerThreshold, "breaker-threshold", flags.BreakerThreshold, "Consecutive failures before requests are suspended (0 disables)")
	cmd.Flags().DurationVar(&flags.BreakerCooldown, "breaker-cooldown", flags.BreakerCooldown, "How long requests stay suspended after the breaker opens")

	// Cache flags
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "", "Directory for translation cache files (default: next to each deck)")
	cmd.Flags().StringVar(&flags.CacheFormat, "cache-format", flags.CacheFormat, "Cache file format: json or sqlite")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Neither read nor write translation cache files")
	cmd.Flags().BoolVar(&flags.ArchiveCache, "archive-cache", false, "Move existing cache files into the archive directory and exit")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translation.language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("translation.context", cmd.Flags().Lookup("context"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("translation.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("translation.delay", cmd.Flags().Lookup("delay"))
	viper.BindPFlag("translation.breaker_threshold", cmd.Flags().Lookup("breaker-threshold"))
	viper.BindPFlag("translation.breaker_cooldown", cmd.Flags().Lookup("breaker-cooldown"))
	viper.BindPFlag("cache.directory", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("cache.format", cmd.Flags().Lookup("cache-format"))
	viper.BindPFlag("cache.disabled", cmd.Flags().Lookup("no-cache"))
	viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	viper.BindPFlag("log.file", cmd.Flags().Lookup("log-file"))
}

// InitConfig loads .env, then the config file and SLIDETRANS_* environment
// variables into viper
func InitConfig(cfgFile string) {
	// .env is optional; variables already set win
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".slidetrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".slidetrans")
	}

	// Environment variables
	viper.SetEnvPrefix("SLIDETRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies values from viper into flags. A flag given on the
// command line wins over the config file, which wins over the defaults.
func ApplyConfig(flags *Flags) {
	flags.Language = viper.GetString("translation.language")
	flags.Context = viper.GetString("translation.context")
	flags.Provider = viper.GetString("translation.provider")
	flags.Model = viper.GetString("translation.model")
	flags.BaseURL = viper.GetString("translation.base_url")
	flags.Timeout = viper.GetDuration("translation.timeout")
	flags.Delay = viper.GetDuration("translation.delay")
	flags.BreakerThreshold = viper.GetUint("translation.breaker_threshold")
	flags.BreakerCooldown = viper.GetDuration("translation.breaker_cooldown")
	flags.CacheDir = viper.GetString("cache.directory")
	flags.CacheFormat = viper.GetString("cache.format")
	flags.NoCache = viper.GetBool("cache.disabled")
	flags.Output = viper.GetString("output.path")
	flags.LogFile = viper.GetString("log.file")
}

// GetAPIKey returns the API key for provider. Lookup order: the key given
// on the command line, the provider's environment variable, then api.key
// from the config file.
func GetAPIKey(provider translation.Provider, flagKey string) string {
	if flagKey != "" {
		return flagKey
	}

	envVar := "GEMINI_API_KEY"
	if provider == translation.ProviderOpenAI {
		envVar = "OPENAI_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("api.key")
}

// ValidateLanguage checks that lang is a BCP 47 language tag or a plain
// language name such as "Spanish" and returns it trimmed. The value is kept
// as given since it names the cache and output files.
func ValidateLanguage(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", fmt.Errorf("target language is required (use -l, e.g. -l es)")
	}

	_, err := language.Parse(lang)
	if err != nil && !isLanguageName(lang) {
		return "", fmt.Errorf("invalid target language %q: %w", lang, err)
	}
	return lang, nil
}

// isLanguageName reports whether s consists of letters, spaces and hyphens
func isLanguageName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

package cli

import (
	"time"

	"codeberg.org/snonux/slidetrans/internal/logging"
	"codeberg.org/snonux/slidetrans/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	Language     string
	Output       string
	BatchFile    string
	Context      string
	ListModels   bool
	VerifyModels bool
	Verbose      bool
	Quiet        bool
	Profile      bool
	LogFile      string

	// Provider flags
	Provider         string
	APIKey           string
	Model            string
	BaseURL          string
	Timeout          time.Duration
	Delay            time.Duration
	BreakerThreshold uint
	BreakerCooldown  time.Duration

	// Cache flags
	CacheDir     string
	CacheFormat  string
	NoCache      bool
	ArchiveCache bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Context:          translation.DefaultContext,
		LogFile:          logging.DefaultLogFile,
		Provider:         string(translation.ProviderGemini),
		Timeout:          translation.DefaultTimeout,
		Delay:            translation.DefaultDelay,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
		CacheFormat:      "json",
	}
}

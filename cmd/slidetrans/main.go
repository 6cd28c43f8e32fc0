package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/slidetrans/internal/archive"
	"codeberg.org/snonux/slidetrans/internal/batch"
	"codeberg.org/snonux/slidetrans/internal/cli"
	"codeberg.org/snonux/slidetrans/internal/logging"
	"codeberg.org/snonux/slidetrans/internal/models"
	"codeberg.org/snonux/slidetrans/internal/processor"
	"codeberg.org/snonux/slidetrans/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	rootCmd.SilenceUsage = true

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.ApplyConfig(flags)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(args []string, flags *cli.Flags) error {
	logger, err := logging.New(logging.Options{
		File:    flags.LogFile,
		Quiet:   flags.Quiet,
		Verbose: flags.Verbose,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --archive-cache
	if flags.ArchiveCache {
		return runArchive(flags, logger)
	}

	// Handle --list-models and --verify-models
	if flags.ListModels || flags.VerifyModels {
		return runModels(ctx, flags)
	}

	lang, err := cli.ValidateLanguage(flags.Language)
	if err != nil {
		return err
	}
	flags.Language = lang

	proc, err := processor.NewProcessor(ctx, flags, logger)
	if err != nil {
		if errors.Is(err, processor.ErrNoAPIKey) {
			logger.Error("API key not provided. Set GEMINI_API_KEY environment variable or use -k option.")
		}
		return err
	}

	if flags.Provider == string(translation.ProviderGemini) && !models.IsKnown(flags.Model) {
		logger.Warn(fmt.Sprintf("Model %s not in known models, see --list-models", flags.Model))
	}

	inputs, err := batch.ResolveInputs(args, flags.BatchFile, ".")
	if err != nil {
		logger.Error("No presentations to translate", zap.Error(err))
		return err
	}

	_, err = proc.ProcessFiles(ctx, inputs)
	return err
}

func runArchive(flags *cli.Flags, logger *zap.Logger) error {
	dir := flags.CacheDir
	if dir == "" {
		dir = "."
	}

	archivePath, moved, err := archive.ArchiveCaches(dir)
	if err != nil {
		return fmt.Errorf("failed to archive caches: %w", err)
	}
	if moved == 0 {
		logger.Info(fmt.Sprintf("No cache files found in %s", dir))
		return nil
	}

	fmt.Printf("Archived %d cache files to: %s\n", moved, archivePath)
	return nil
}

func runModels(ctx context.Context, flags *cli.Flags) error {
	provider, err := translation.ParseProvider(flags.Provider)
	if err != nil {
		return err
	}

	var generator translation.Generator
	if apiKey := cli.GetAPIKey(provider, flags.APIKey); apiKey != "" {
		generator, err = translation.NewGenerator(ctx, provider, apiKey, flags.BaseURL)
		if err != nil {
			return err
		}
	}

	lister := models.NewLister(generator)
	if flags.ListModels {
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	var candidates []string
	if flags.Model != "" {
		candidates = []string{flags.Model}
	}
	_, err = lister.VerifyModels(ctx, os.Stdout, candidates)
	return err
}

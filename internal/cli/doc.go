// Package cli provides command-line interface setup and configuration
// for the slidetrans application. It handles flag parsing, command
// creation, configuration files, .env loading and API key lookup using
// cobra, viper and godotenv.
package cli

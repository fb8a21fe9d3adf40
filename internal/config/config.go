// Package config provides configuration for the server using
// command-line flags and environment variables, with an optional .env
// file for local development.
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr is the server's listening address (ip:port).
	Addr string

	// Engine selects the storage backend: sqlite, postgres or file.
	Engine string

	// StoragePath is a file path for the sqlite and file engines, or a
	// DSN for postgres.
	StoragePath string

	// SeedFile optionally points at a JSON deck imported into an empty
	// store at startup.
	SeedFile string

	// TelegramToken and TelegramChatID enable the due-card reminder
	// service when both are set.
	TelegramToken  string
	TelegramChatID int64

	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string
}

var options = &Options{}

func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8484", "listen address (ip:port)")
	flag.StringVar(&options.Engine, "engine", "sqlite", "storage engine: sqlite, postgres or file")
	flag.StringVar(&options.StoragePath, "storage", "flashdeck.db", "storage path or DSN")
	flag.StringVar(&options.SeedFile, "seed", "", "JSON deck to import into an empty store")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level")
}

// Parse parses the command-line flags and environment variables and
// returns the resulting options. Environment variables win over flags.
func Parse() *Options {
	// Best effort; missing .env is the normal case outside development.
	_ = godotenv.Load()

	flag.Parse()

	if v := os.Getenv("FLASHDECK_ADDR"); v != "" {
		options.Addr = v
	}
	if v := os.Getenv("FLASHDECK_ENGINE"); v != "" {
		options.Engine = v
	}
	if v := os.Getenv("FLASHDECK_STORAGE"); v != "" {
		options.StoragePath = v
	}
	if v := os.Getenv("FLASHDECK_SEED"); v != "" {
		options.SeedFile = v
	}
	if v := os.Getenv("FLASHDECK_LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}
	options.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			options.TelegramChatID = id
		}
	}

	return options
}

package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order. godotenv never overrides variables that are already set,
// so the process environment wins over .env, and .env wins over .env.local.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			slog.Debug("Loaded environment file", "path", f)
		}
	}
}

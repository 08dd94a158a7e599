package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings. Values come from the environment
// (optionally a .env file); the flags in main override them.
type Config struct {
	Addr      string
	ClientDir string
	DBPath    string
}

// LoadConfig reads .env when present and applies defaults. The default
// port matches what the shell's origin expects.
func LoadConfig() Config {
	godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":1337"),
		ClientDir: envOr("CLIENT_DIR", "./public"),
		DBPath:    envOr("DB_PATH", "flappy.db"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

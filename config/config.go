// Package config loads engine settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	HashMBVar       = "ENGINE_HASH_MB"
	MoveOverheadVar = "ENGINE_MOVE_OVERHEAD_MS"
	LogLevelVar     = "ENGINE_LOG_LEVEL"
	WSAddrVar       = "ENGINE_WS_ADDR"
)

type Config struct {
	HashMB       int
	MoveOverhead time.Duration
	LogLevel     slog.Level
	WSAddr       string
}

func Default() Config {
	return Config{
		HashMB:       64,
		MoveOverhead: 50 * time.Millisecond,
		LogLevel:     slog.LevelInfo,
		WSAddr:       "localhost:8080",
	}
}

// Load reads ./.env if present and then the process environment. Variables
// already set in the environment win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment alone.
func FromEnv() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv(HashMBVar); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: want a non-negative integer, got %q", HashMBVar, v)
		}
		cfg.HashMB = n
	}

	if v, ok := os.LookupEnv(MoveOverheadVar); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: want a non-negative integer, got %q", MoveOverheadVar, v)
		}
		cfg.MoveOverhead = time.Duration(n) * time.Millisecond
	}

	if v, ok := os.LookupEnv(LogLevelVar); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return Config{}, fmt.Errorf("%s: %w", LogLevelVar, err)
		}
	}

	if v, ok := os.LookupEnv(WSAddrVar); ok && v != "" {
		cfg.WSAddr = v
	}
	return cfg, nil
}

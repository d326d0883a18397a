package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds server and board configuration loaded from environment variables.
type Config struct {
	// Table service.
	Port             string `env:"PORT,default=8080"`
	StoreDriver      string `env:"STORE_DRIVER,default=sqlite" validate:"oneof=sqlite badger"`
	DBPath           string `env:"DB_PATH,default=msgboard.db"`
	BadgerPath       string `env:"BADGER_PATH,default=msgboard.badger"`
	MaxSubscriptions int    `env:"MAX_SUBSCRIPTIONS,default=100" validate:"min=1"`
	MaxTextLength    int    `env:"MAX_TEXT_LENGTH,default=1000" validate:"min=1"`

	// Board client.
	ServerURL       string        `env:"SERVER_URL,default=http://localhost:8080" validate:"url"`
	Table           string        `env:"TABLE,default=Message"`
	DraftOnFailure  string        `env:"DRAFT_ON_FAILURE,default=discard" validate:"oneof=discard preserve"`
	RefreshSchedule string        `env:"REFRESH_SCHEDULE"`
	LiveUpdates     bool          `env:"LIVE_UPDATES,default=true"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s" validate:"gt=0"`

	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

// Load reads an optional .env file, then the environment. Explicit files must exist;
// a missing default .env is ignored.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

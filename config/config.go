package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	StorageDriver      string   `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"mongo" validate:"oneof=mongo memory"`
	NotesUniqueIndex   bool     `yaml:"notes_unique_index" env:"NOTES_UNIQUE_INDEX" env-default:"false"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`

	HTTP   HTTPConfig     `yaml:"http" env-prefix:"HTTP_"`
	Mongo  DatabaseConfig `yaml:"mongo" env-prefix:"MONGO_"`
	Redis  RedisConfig    `yaml:"redis" env-prefix:"REDIS_"`
	JWT    JWTConfig      `yaml:"jwt" env-prefix:"JWT_"`
	Log    LogConfig      `yaml:"log" env-prefix:"LOG_"`
	Memory MemoryConfig   `yaml:"memory" env-prefix:"MEMORY_"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR" env-default:":8080" validate:"required"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"1048576" validate:"min=1"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	// Empty URL disables the username cache.
	URL         string        `yaml:"url" env:"URL"`
	UsernameTTL time.Duration `yaml:"username_ttl" env:"USERNAME_TTL" env-default:"5m"`
}

type JWTConfig struct {
	// Empty secret leaves /notes unauthenticated.
	SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Pretty bool   `yaml:"pretty" env:"PRETTY" env-default:"false"`
}

type MemoryConfig struct {
	// Usernames created in the in-memory users collection at startup.
	SeedUsers []string `yaml:"seed_users" env:"SEED_USERS" env-separator:","`
}

// Parse loads an optional .env file and reads the configuration from the
// environment. When path is not empty the YAML file is read first and the
// environment overrides it.
func Parse(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

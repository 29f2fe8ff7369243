package config

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

type DatabaseConfig struct {
	URI              string        `yaml:"uri" env:"URI" env-default:"mongodb://localhost:27017" validate:"required"`
	DatabaseName     string        `yaml:"db" env:"DB" env-default:"tonotes" validate:"required"`
	NotesCollection  string        `yaml:"notes_collection" env:"NOTES_COLLECTION" env-default:"notes" validate:"required"`
	UsersCollection  string        `yaml:"users_collection" env:"USERS_COLLECTION" env-default:"users" validate:"required"`
	MaxPoolSize      uint64        `yaml:"max_pool_size" env:"MAX_POOL_SIZE" env-default:"100"`
	MinPoolSize      uint64        `yaml:"min_pool_size" env:"MIN_POOL_SIZE" env-default:"10"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time" env:"MAX_CONN_IDLE_TIME" env-default:"60s"`
	RetryWrites      bool          `yaml:"retry_writes" env:"RETRY_WRITES" env-default:"true"`
	ConnectAttempts  uint          `yaml:"connect_attempts" env:"CONNECT_ATTEMPTS" env-default:"5" validate:"min=1,max=20"`
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"OPERATION_TIMEOUT" env-default:"10s"`
}

// ClientOptions builds the driver options for the configured pool.
func (c DatabaseConfig) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxConnIdleTime).
		SetRetryWrites(c.RetryWrites).
		SetTimeout(c.OperationTimeout)
}

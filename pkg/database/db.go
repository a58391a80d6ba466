package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describes the postgres connection.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	Debug    bool
}

var (
	DB      *gorm.DB
	once    sync.Once
	connErr error
)

// DSN renders the key/value connection string understood by the pgx driver.
func (o Options) DSN() string {
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		o.Host, o.User, o.Password, o.Name, o.Port, sslMode,
	)
}

// Connect opens the shared connection. Later calls return the first result.
func Connect(opts Options) (*gorm.DB, error) {
	once.Do(func() {
		cfg := &gorm.Config{}
		if !opts.Debug {
			cfg.Logger = logger.Default.LogMode(logger.Warn)
		}

		db, err := gorm.Open(postgres.Open(opts.DSN()), cfg)
		if err != nil {
			connErr = fmt.Errorf("failed to connect database: %w", err)
			return
		}

		DB = db
	})

	return DB, connErr
}

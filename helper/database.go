package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection settings for PostgreSQL.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from STORYGRAPH_DB_* environment variables.
// Call godotenv.Load before to pick up a .env file.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	config := &DatabaseConfiguration{
		Host:     os.Getenv("STORYGRAPH_DB_HOST"),
		Port:     os.Getenv("STORYGRAPH_DB_PORT"),
		Database: os.Getenv("STORYGRAPH_DB_DATABASE"),
		Username: os.Getenv("STORYGRAPH_DB_USERNAME"),
		Password: os.Getenv("STORYGRAPH_DB_PASSWORD"),
		Schema:   os.Getenv("STORYGRAPH_DB_SCHEMA"),
		SSLMode:  os.Getenv("STORYGRAPH_DB_SSLMODE"),
	}
	if len(strings.TrimSpace(config.Host)) == 0 ||
		len(strings.TrimSpace(config.Port)) == 0 ||
		len(strings.TrimSpace(config.Database)) == 0 ||
		len(strings.TrimSpace(config.Username)) == 0 ||
		len(strings.TrimSpace(config.Password)) == 0 {
		return nil, fmt.Errorf("STORYGRAPH_DB_HOST, STORYGRAPH_DB_PORT, STORYGRAPH_DB_DATABASE, STORYGRAPH_DB_USERNAME and STORYGRAPH_DB_PASSWORD environment variables must be set")
	}
	if len(strings.TrimSpace(config.Schema)) == 0 {
		config.Schema = "public"
	}
	if len(strings.TrimSpace(config.SSLMode)) == 0 {
		config.SSLMode = "disable"
	}
	return config, nil
}

// ConnectionString returns the lib/pq connection string.
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
		c.Schema,
	)
}

// Database bundles the connection with its name and logger.
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// NewDatabase opens and pings the database. It panics if no connection can be
// established, as the handlers cannot work without one.
func NewDatabase(name string, dbConfig *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}

	instance, err := connectToDatabase(dbConfig)
	if err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", dbConfig.Host))

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: instance,
	}
}

// NewTestDatabase creates a database with a logger writing to stdout.
func NewTestDatabase(dbConfig *DatabaseConfiguration) *Database {
	return NewDatabase("test_db", dbConfig, NewLogger(os.Stdout, false))
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	if d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}

func connectToDatabase(dbConfig *DatabaseConfiguration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbConfig.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

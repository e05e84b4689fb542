package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fftpeg/config"
	L "fftpeg/logger"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	D             *sql.DB
	connectionUri string
}

func NewDB(dbPath string) (*DB, error) {
	d, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", dbPath, err)
	}
	// one connection keeps :memory: databases and connection pragmas stable
	d.SetMaxOpenConns(1)
	return &DB{
		D:             d,
		connectionUri: dbPath,
	}, nil
}

// Init enables foreign keys and applies the embedded schema migrations.
func (db *DB) Init(ctx context.Context) error {
	_, err := db.D.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("could not enable foreign keys: %w", err)
	}
	_, err = db.D.ExecContext(ctx, "PRAGMA busy_timeout = 5000")
	if err != nil {
		return fmt.Errorf("could not set busy timeout: %w", err)
	}
	return db.migrate()
}

func (db *DB) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not read migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.D, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not initialize migrations: %w", err)
	}
	// m.Close would close db.D as well
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	L.Debug(fmt.Sprintf("db: schema version %d (dirty: %t) at %s", version, dirty, db.connectionUri))
	return nil
}

func (db *DB) Close() error {
	return db.D.Close()
}

func GetDBFilePath() (string, error) {
	configDir, err := config.GetDefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fftpeg.db"), nil
}

package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Dialect identifies the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// DB is a connection pool bound to the dialect it was opened with.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

type target struct {
	driver  string
	dsn     string
	dialect Dialect
	memory  bool
}

// Open connects to the database named by databaseURL and runs migrations.
//
// Accepted forms: postgresql:// and postgres:// URLs, sqlite:// URLs
// (sqlite:///relative.db, sqlite:////absolute.db, sqlite:// for memory),
// ":memory:" and bare sqlite file paths.
func Open(databaseURL string) (*DB, error) {
	t, err := parseTarget(databaseURL)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(t.driver, t.dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if t.memory {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db := &DB{DB: conn, Dialect: t.dialect}
	if err := runMigrations(db); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// CheckURL reports whether Open would accept databaseURL, without connecting.
func CheckURL(databaseURL string) error {
	_, err := parseTarget(databaseURL)
	return err
}

func parseTarget(raw string) (target, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return target{}, errors.New("database url is empty")
	case raw == ":memory:", raw == "sqlite://", raw == "sqlite:///:memory:":
		return sqliteTarget(":memory:"), nil
	case strings.HasPrefix(raw, "sqlite:///"):
		return sqliteTarget(strings.TrimPrefix(raw, "sqlite:///")), nil
	case strings.HasPrefix(raw, "postgresql://"), strings.HasPrefix(raw, "postgres://"):
		return target{driver: "postgres", dsn: raw, dialect: DialectPostgres}, nil
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	default:
		return sqliteTarget(raw), nil
	}
}

func sqliteTarget(path string) target {
	if path == ":memory:" {
		return target{
			driver:  "sqlite",
			dsn:     ":memory:?_pragma=foreign_keys(1)",
			dialect: DialectSQLite,
			memory:  true,
		}
	}
	// Writers take the lock at BEGIN so busy_timeout covers them; a deferred
	// read-then-write transaction would fail with SQLITE_BUSY on upgrade.
	return target{
		driver:  "sqlite",
		dsn:     path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		dialect: DialectSQLite,
	}
}

func migrationDir(d Dialect) string {
	return "migrations/" + string(d)
}

func gooseDialect(d Dialect) string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func prepareGoose(db *DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialect(db.Dialect)); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}

func runMigrations(db *DB) error {
	if err := prepareGoose(db); err != nil {
		return err
	}
	if err := goose.Up(db.DB.DB, migrationDir(db.Dialect)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Reset rolls every migration back and applies them again, leaving an
// empty schema.
func Reset(db *DB) error {
	if err := prepareGoose(db); err != nil {
		return err
	}
	if err := goose.Reset(db.DB.DB, migrationDir(db.Dialect)); err != nil {
		return fmt.Errorf("goose reset: %w", err)
	}
	if err := goose.Up(db.DB.DB, migrationDir(db.Dialect)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version returns the currently applied schema version.
func Version(db *DB) (int64, error) {
	if err := prepareGoose(db); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db.DB.DB)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

// Wrap adopts an already-open *sql.DB without running migrations.
func Wrap(conn *sql.DB, dialect Dialect) *DB {
	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "postgres"
	}
	return &DB{DB: sqlx.NewDb(conn, driver), Dialect: dialect}
}

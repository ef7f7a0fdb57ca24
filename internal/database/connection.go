package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver (sqlite by default, postgres with DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "wordbox.db")
		db, err = sqlx.Connect("sqlite3", dbPath+"?_loc=UTC")
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scopes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			source_lang TEXT NOT NULL,
			target_lang TEXT NOT NULL,
			active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, source_lang, target_lang)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope_id INTEGER NOT NULL,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			examples TEXT DEFAULT '',
			category TEXT DEFAULT '',
			mnemonic TEXT DEFAULT '',
			box INTEGER DEFAULT 1,
			next_review_at TIMESTAMP NOT NULL,
			times_reviewed INTEGER DEFAULT 0,
			times_correct INTEGER DEFAULT 0,
			times_incorrect INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_reviewed_at TIMESTAMP,
			FOREIGN KEY (scope_id) REFERENCES scopes(id),
			UNIQUE(scope_id, source_text)
		)`,
		`CREATE TABLE IF NOT EXISTS user_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope_id INTEGER NOT NULL UNIQUE,
			total_words INTEGER DEFAULT 0,
			learned_words INTEGER DEFAULT 0,
			total_reviews INTEGER DEFAULT 0,
			streak INTEGER DEFAULT 0,
			today_reviewed INTEGER DEFAULT 0,
			today_correct INTEGER DEFAULT 0,
			last_active_date TEXT DEFAULT '',
			xp INTEGER DEFAULT 0,
			level INTEGER DEFAULT 1,
			daily_goal INTEGER DEFAULT 20,
			achievements TEXT DEFAULT '',
			version INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (scope_id) REFERENCES scopes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			words_reviewed INTEGER DEFAULT 0,
			words_correct INTEGER DEFAULT 0,
			xp_earned INTEGER DEFAULT 0,
			FOREIGN KEY (scope_id) REFERENCES scopes(id),
			UNIQUE(scope_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS review_log (
			id TEXT PRIMARY KEY,
			scope_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range stmts {
		if DB.DriverName() == "postgres" {
			stmt = postgresSchema(stmt)
		}
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}

// postgresSchema rewrites the sqlite DDL for postgres.
func postgresSchema(stmt string) string {
	return strings.Replace(stmt, "INTEGER PRIMARY KEY AUTOINCREMENT", "BIGSERIAL PRIMARY KEY", -1)
}

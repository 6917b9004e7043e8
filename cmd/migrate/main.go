package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// Applies the .sql files under migrations/ in filename order, one
// transaction each, recording them in schema_migrations. Files ending in
// _rollback.sql are skipped on apply and used by -rollback.
func main() {
	rollback := flag.Bool("rollback", false, "roll back the last applied migration")
	dir := flag.String("dir", "migrations", "directory containing migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := ensureMigrationsTable(db); err != nil {
		log.Fatalf("failed to prepare schema_migrations: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, *dir); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		return
	}

	if err := applyAll(db, *dir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func applyAll(db *sql.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	for _, file := range files {
		version := strings.SplitN(file, "_", 2)[0]

		var applied bool
		err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			fmt.Printf("already applied: %s\n", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		fmt.Printf("applied: %s\n", file)
	}

	fmt.Println("all migrations applied")
	return nil
}

func rollbackLast(db *sql.DB, dir string) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC
		LIMIT 1
	`).Scan(&version, &name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return err
	}

	rollbackFile := strings.TrimSuffix(name, ".sql") + "_rollback.sql"
	content, err := os.ReadFile(filepath.Join(dir, rollbackFile))
	if err != nil {
		return fmt.Errorf("read rollback file %s: %w", rollbackFile, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply rollback %s: %w", rollbackFile, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	fmt.Printf("rolled back: %s\n", name)
	return nil
}

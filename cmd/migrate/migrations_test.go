package main

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"testing"

	"booklibrary/db"

	"github.com/pressly/goose/v3"
)

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	dir := filepath.Join(repoRoot, "db", "migrations")

	if _, err := goose.CollectMigrations(dir, 0, goose.MaxVersion); err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
}

func TestEmbeddedMigrations_MatchDisk(t *testing.T) {
	embedded, err := fs.Glob(db.Migrations, db.MigrationsDir+"/*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}

	_, thisFile, _, _ := runtime.Caller(0)
	onDisk, err := filepath.Glob(filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}

	if len(embedded) == 0 || len(embedded) != len(onDisk) {
		t.Fatalf("expected embedded migrations to match disk, got %d embedded and %d on disk", len(embedded), len(onDisk))
	}
}

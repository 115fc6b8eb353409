package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	crmsync "github.com/goliatone/go-crm-sync"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}

	var postgresFound bool
	var sqliteFound bool
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		switch entry.Dialect {
		case DialectPostgres:
			postgresFound = true
		case DialectSQLite:
			sqliteFound = true
		}
	}

	if !postgresFound {
		t.Fatalf("expected postgres filesystem")
	}
	if !sqliteFound {
		t.Fatalf("expected sqlite filesystem")
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	_, err := Register(context.Background(), func(_ context.Context, dialect string, _ string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	}, WithValidationTargets(DialectSQLite))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 registration call, got %d", len(calls))
	}
	if calls[0] != DialectSQLite {
		t.Fatalf("expected sqlite registration, got %q", calls[0])
	}
}

func TestRegister_RequiresRegisterFunc(t *testing.T) {
	if _, err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil register function")
	}
}

func TestCRMCoreMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := crmsync.GetCoreMigrationsFS()
	paths := []string{
		"data/sql/migrations/20240101000000_create_crm_core.up.sql",
		"data/sql/migrations/20240101000000_create_crm_core.down.sql",
		"data/sql/migrations/sqlite/20240101000000_create_crm_core.up.sql",
		"data/sql/migrations/sqlite/20240101000000_create_crm_core.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteCRMCoreMigration_EnforcesUniqueness(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-crm-core-uniqueness?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	root := crmsync.GetCoreMigrationsFS()
	sqliteMigrations, err := fs.Sub(root, "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "20240101000000_create_crm_core.up.sql"); err != nil {
		t.Fatalf("apply core migration: %v", err)
	}

	ctx := context.Background()
	insertContact := `
		INSERT INTO contacts (id, external_id, name, phone, normalized_phone, email, company_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, insertContact, "c-1", 100, "Ana", "+7 900", "7900", "ana@example.com", "Acme"); err != nil {
		t.Fatalf("insert contact: %v", err)
	}
	if _, err := db.ExecContext(ctx, insertContact, "c-2", 100, "Dup", "", "", "", ""); err == nil {
		t.Fatalf("expected duplicate external_id insert to fail")
	}

	insertDeal := `INSERT INTO deals (id, external_id, title, status) VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, insertDeal, "d-1", 500, "Order", "142"); err != nil {
		t.Fatalf("insert deal: %v", err)
	}

	insertLink := `INSERT INTO contact_deal (contact_id, deal_id) VALUES (?, ?)`
	if _, err := db.ExecContext(ctx, insertLink, "c-1", "d-1"); err != nil {
		t.Fatalf("insert link: %v", err)
	}
	if _, err := db.ExecContext(ctx, insertLink, "c-1", "d-1"); err == nil {
		t.Fatalf("expected duplicate contact/deal link insert to fail")
	}
}

func TestSQLiteCRMCoreMigration_Rollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-crm-core-rollback?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	root := crmsync.GetCoreMigrationsFS()
	sqliteMigrations, err := fs.Sub(root, "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "20240101000000_create_crm_core.up.sql"); err != nil {
		t.Fatalf("apply core migration: %v", err)
	}
	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "20240101000000_create_crm_core.down.sql"); err != nil {
		t.Fatalf("roll back core migration: %v", err)
	}

	var tableCount int
	if err := db.QueryRowContext(
		context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('contacts', 'deals', 'contact_deal')",
	).Scan(&tableCount); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tableCount != 0 {
		t.Fatalf("expected no crm tables after rollback, got %d", tableCount)
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}

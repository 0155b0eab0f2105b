package database

import (
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test_database.db")

	db, err := New("sqlite://" + tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}
	if db.Dialect != DialectSQLite {
		t.Errorf("Expected sqlite dialect, got %s", db.Dialect)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
}

func TestNew_UnsupportedScheme(t *testing.T) {
	_, err := New("postgres://user:pw@localhost/db")
	if err == nil {
		t.Fatal("Expected error for unsupported scheme, got nil")
	}
}

func TestInitialize(t *testing.T) {
	db, err := New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	// Running twice must be harmless
	if err := db.Initialize(); err != nil {
		t.Fatalf("Second initialize failed: %v", err)
	}

	tables := []string{
		"perfumes",
		"brand_info",
		"contact_info",
		"user_queries",
	}

	for _, table := range tables {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		err := db.QueryRow(query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mysql://root:pw@127.0.0.1:3306/fgperfume?parseTime=true", "root:pw@tcp(127.0.0.1:3306)/fgperfume?parseTime=true"},
		{"mysql://root@db:3306/fgperfume", "root@tcp(db:3306)/fgperfume"},
		{"mysql://admin:p@ss@w0rd@db:3306/fgperfume", "admin:p@ss@w0rd@tcp(db:3306)/fgperfume"},
	}

	for _, tt := range tests {
		if got := mysqlDSN(tt.in); got != tt.want {
			t.Errorf("mysqlDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	got := redact("mysql://root:secret@db:3306/fgperfume")
	if got != "mysql://***@db:3306/fgperfume" {
		t.Errorf("unexpected redaction: %s", got)
	}
}

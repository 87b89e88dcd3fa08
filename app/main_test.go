package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestDatabase assembles a minimal on-disk database file: a schema
// page 1 (built over makeDatabaseHeaderBytes) plus one data page for
// "apples", and returns its path.
func writeTestDatabase(t *testing.T) string {
	t.Helper()

	schemaRows := [][]byte{
		buildSchemaRowPayload("table", "apples", "apples", 2,
			`CREATE TABLE apples (id INTEGER PRIMARY KEY, name TEXT)`),
	}
	page1 := buildSchemaPage1(512, schemaRows)

	cells := [][]byte{
		buildTableLeafCellBytes(1, buildRecordPayload([]uint64{0, 13 + 2*4}, [][]byte{nil, []byte("Fuji")})),
		buildTableLeafCellBytes(2, buildRecordPayload([]uint64{0, 13 + 2*10}, [][]byte{nil, []byte("Honeycrisp")})),
	}
	applesPage := pageFromCells(512, pageKindLeafTable, cells, 0)

	data := assemblePages(512, map[int][]byte{1: page1, 2: applesPage})

	path := filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	return path
}

func TestOpenEngineDBInfo(t *testing.T) {
	path := writeTestDatabase(t)
	engine, err := OpenEngine(path)
	if err != nil {
		t.Fatalf("OpenEngine() error = %v", err)
	}
	defer engine.Close()

	var out strings.Builder
	if err := engine.ExecuteCommand(context.Background(), ".dbinfo", &out); err != nil {
		t.Fatalf("ExecuteCommand(.dbinfo) error = %v", err)
	}
	if got := out.String(); got != "number of tables: 1\n" {
		t.Errorf(".dbinfo output = %q, want %q", got, "number of tables: 1\n")
	}
}

func TestEngineTables(t *testing.T) {
	path := writeTestDatabase(t)
	engine, err := OpenEngine(path)
	if err != nil {
		t.Fatalf("OpenEngine() error = %v", err)
	}
	defer engine.Close()

	var out strings.Builder
	if err := engine.ExecuteCommand(context.Background(), ".tables", &out); err != nil {
		t.Fatalf("ExecuteCommand(.tables) error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "apples" {
		t.Errorf(".tables output = %q, want %q", got, "apples")
	}
}

func TestEngineSelect(t *testing.T) {
	path := writeTestDatabase(t)
	engine, err := OpenEngine(path)
	if err != nil {
		t.Fatalf("OpenEngine() error = %v", err)
	}
	defer engine.Close()

	var out strings.Builder
	if err := engine.ExecuteCommand(context.Background(), "SELECT name FROM apples", &out); err != nil {
		t.Fatalf("ExecuteCommand(SELECT) error = %v", err)
	}
	want := "Fuji\nHoneycrisp\n"
	if got := out.String(); got != want {
		t.Errorf("SELECT output = %q, want %q", got, want)
	}
}

func TestEngineCountStar(t *testing.T) {
	path := writeTestDatabase(t)
	engine, err := OpenEngine(path)
	if err != nil {
		t.Fatalf("OpenEngine() error = %v", err)
	}
	defer engine.Close()

	var out strings.Builder
	if err := engine.ExecuteCommand(context.Background(), "SELECT COUNT(*) FROM apples", &out); err != nil {
		t.Fatalf("ExecuteCommand(COUNT) error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "2" {
		t.Errorf("COUNT(*) output = %q, want %q", got, "2")
	}
}

func TestEngineSelectUnknownTable(t *testing.T) {
	path := writeTestDatabase(t)
	engine, err := OpenEngine(path)
	if err != nil {
		t.Fatalf("OpenEngine() error = %v", err)
	}
	defer engine.Close()

	var out strings.Builder
	if err := engine.ExecuteCommand(context.Background(), "SELECT name FROM missing", &out); err == nil {
		t.Error("ExecuteCommand() with an unknown table should error")
	}
}

func TestOpenEngineMissingFile(t *testing.T) {
	if _, err := OpenEngine(filepath.Join(t.TempDir(), "does-not-exist.db")); err == nil {
		t.Error("OpenEngine() with a missing file should error")
	}
}

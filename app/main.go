package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Engine wires a Reader and its Catalog to the CLI command dispatch.
type Engine struct {
	reader  *Reader
	catalog *Catalog
}

// OpenEngine opens dbPath, parses its header and schema catalog, and
// returns an Engine ready to execute commands.
func OpenEngine(dbPath string, opts ...DatabaseOption) (*Engine, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Open(dbPath)
	if err != nil {
		return nil, NewDatabaseError("open_database", err, map[string]interface{}{"path": dbPath})
	}

	headerBytes := make([]byte, databaseHeaderSize)
	if _, err := file.ReadAt(headerBytes, 0); err != nil {
		file.Close()
		return nil, NewDatabaseError("read_header", err, map[string]interface{}{"path": dbPath})
	}
	header, err := parseDatabaseHeader(headerBytes)
	if err != nil {
		file.Close()
		return nil, err
	}

	reader := newReader(file, file, header.PageSize, cfg)
	catalog, err := LoadCatalog(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}

	return &Engine{reader: reader, catalog: catalog}, nil
}

func (e *Engine) Close() error {
	return e.reader.Close()
}

// ExecuteCommand dispatches a CLI command to its handler (§6).
func (e *Engine) ExecuteCommand(ctx context.Context, command string, w *strings.Builder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch command {
	case ".dbinfo":
		printDBInfo(w, e.catalog.RowCount)
		return nil
	case ".tables":
		printTablesLine(w, e.catalog.Tables())
		return nil
	default:
		return e.executeSQL(command, w)
	}
}

func (e *Engine) executeSQL(sqlText string, w *strings.Builder) error {
	if isCountStarStatement(sqlText) {
		table, err := countStarTable(sqlText)
		if err != nil {
			return err
		}
		def, ok := e.catalog.Table(table)
		if !ok {
			return fmt.Errorf("%w: %s", ErrTableNotFound, table)
		}
		n, err := CountRows(e.reader, def)
		if err != nil {
			return err
		}
		printCount(w, n)
		return nil
	}

	stmt, err := parseSelect(sqlText)
	if err != nil {
		return err
	}
	rows, err := Execute(e.reader, e.catalog, stmt)
	if err != nil {
		return err
	}
	printRows(w, rows)
	return nil
}

// isCountStarStatement recognizes `SELECT COUNT(*) FROM t` ahead of the
// general parser (§4.8: "recognized specially by the executor").
func isCountStarStatement(sqlText string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sqlText))
	return strings.HasPrefix(upper, "SELECT COUNT(*)") || strings.HasPrefix(upper, "SELECT COUNT (*)")
}

// countStarTable pulls the table name out of the FROM clause directly,
// since COUNT(*) isn't part of the general Select descriptor's projection
// grammar (§3 "Select") and doesn't need to be.
func countStarTable(sqlText string) (string, error) {
	upper := strings.ToUpper(sqlText)
	idx := strings.Index(upper, "FROM")
	if idx == -1 {
		return "", fmt.Errorf("%w: no FROM clause in %q", ErrInvalidDatabase, sqlText)
	}
	rest := strings.TrimSpace(sqlText[idx+len("FROM"):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: no table name in %q", ErrInvalidDatabase, sqlText)
	}
	return fields[0], nil
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: program <db_path> <command>")
		os.Exit(1)
	}
	dbPath := os.Args[1]
	command := os.Args[2]

	engine, err := OpenEngine(dbPath, WithReadTimeout(30*time.Second))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx := context.Background()
	if engine.reader.cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, engine.reader.cfg.ReadTimeout)
		defer cancel()
	}

	var out strings.Builder
	if err := engine.ExecuteCommand(ctx, command, &out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(out.String())
}

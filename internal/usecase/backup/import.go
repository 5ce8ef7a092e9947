package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type ImportOption func(*importConfig)

type importConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithImportTables skips records of tables not listed.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

// WithImportProgress reports imported rows against the counts of the meta record.
func WithImportProgress(reporter ProgressReporter) ImportOption {
	return func(cfg *importConfig) {
		cfg.reporter = reporter
	}
}

// Import reads a backup and upserts every row in a single transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{reporter: noopProgress{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = noopProgress{}
	}
	selected, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	imp := &importer{
		svc:      s,
		tx:       tx,
		wanted:   lo.Associate(selected, func(t Table) (string, bool) { return t.Name, true }),
		stmts:    map[string]*sql.Stmt{},
		reporter: cfg.reporter,
	}
	err = imp.run(ctx, r)
	imp.close()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

type importer struct {
	svc      *Service
	tx       *sql.Tx
	wanted   map[string]bool
	stmts    map[string]*sql.Stmt
	reporter ProgressReporter

	meta    *envelope
	current string
	rows    map[string]int
}

func (imp *importer) run(ctx context.Context, r io.Reader) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	imp.rows = map[string]int{}

	for line := 1; ; line++ {
		var rec envelope
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("record %d: %w", line, err)
		}
		if err := imp.handle(ctx, rec); err != nil {
			return fmt.Errorf("record %d: %w", line, err)
		}
	}
	if imp.meta == nil {
		return errMissingMeta
	}
	imp.finishTable()
	imp.svc.logger.WithField("rows", imp.rows).Info("backup imported")
	return nil
}

func (imp *importer) handle(ctx context.Context, rec envelope) error {
	if rec.Type == metaType {
		if imp.meta != nil {
			return errors.New("duplicate meta record")
		}
		if rec.Version != formatVersion {
			return fmt.Errorf("unsupported backup version %d", rec.Version)
		}
		if rec.SchemaHash != "" && rec.SchemaHash != imp.svc.schemaHash {
			imp.svc.logger.WithFields(logrus.Fields{
				"backup": rec.SchemaHash,
				"local":  imp.svc.schemaHash,
			}).Warn("backup schema differs, importing known columns only")
		}
		imp.meta = &rec
		return nil
	}
	if imp.meta == nil {
		return errMissingMeta
	}

	table, ok := imp.svc.byName[rec.Type]
	if !ok {
		return fmt.Errorf("unknown record type %q", rec.Type)
	}
	if !imp.wanted[table.Name] {
		return nil
	}
	if table.Name != imp.current {
		imp.finishTable()
		imp.current = table.Name
		imp.reporter.StartTable(table.Name, imp.meta.RowCounts[table.Name])
	}

	args := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		v, err := decodeValue(col, rec.Payload[col.Name])
		if err != nil {
			return fmt.Errorf("%s: %w", table.Name, err)
		}
		args[i] = v
	}
	stmt, err := imp.statement(ctx, table)
	if err != nil {
		return err
	}
	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table.Name, err)
	}
	imp.rows[table.Name]++
	imp.reporter.Increment(table.Name, 1)
	return nil
}

func (imp *importer) finishTable() {
	if imp.current != "" {
		imp.reporter.FinishTable(imp.current)
		imp.current = ""
	}
}

func (imp *importer) statement(ctx context.Context, t Table) (*sql.Stmt, error) {
	if stmt, ok := imp.stmts[t.Name]; ok {
		return stmt, nil
	}
	stmt, err := imp.tx.PrepareContext(ctx, upsertQuery(imp.svc.driver, t))
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", t.Name, err)
	}
	imp.stmts[t.Name] = stmt
	return stmt, nil
}

func (imp *importer) close() {
	for _, stmt := range imp.stmts {
		_ = stmt.Close()
	}
}

// upsertQuery builds an INSERT that overwrites the non key columns of an existing row.
// Both sqlite and postgres accept ON CONFLICT ... DO UPDATE with excluded.
func upsertQuery(driver string, t Table) string {
	names := t.columnNames()
	holders := make([]string, len(names))
	for i := range holders {
		holders[i] = bindVar(driver, i+1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		t.Name, strings.Join(names, ", "), strings.Join(holders, ", "), strings.Join(t.Key, ", "))

	rest, _ := lo.Difference(names, t.Key)
	if len(rest) == 0 {
		b.WriteString("DO NOTHING")
		return b.String()
	}
	b.WriteString("DO UPDATE SET ")
	b.WriteString(strings.Join(lo.Map(rest, func(c string, _ int) string {
		return c + " = excluded." + c
	}), ", "))
	return b.String()
}

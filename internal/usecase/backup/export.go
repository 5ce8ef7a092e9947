package backup

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the named tables.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

// Export writes the meta record and then every row of the selected tables.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{reporter: noopProgress{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = noopProgress{}
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name).Scan(&n); err != nil {
			return fmt.Errorf("count table %s: %w", t.Name, err)
		}
		counts[t.Name] = n
	}

	out := bufio.NewWriter(w)
	now := time.Now().UTC()
	if err := writeRecord(out, envelope{
		Type:       metaType,
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     lo.Map(tables, func(t Table, _ int) string { return t.Name }),
		RowCounts:  counts,
	}); err != nil {
		return err
	}

	for _, t := range tables {
		cfg.reporter.StartTable(t.Name, counts[t.Name])
		n, err := s.exportTable(ctx, db, t, out, cfg.reporter)
		if err != nil {
			return err
		}
		cfg.reporter.FinishTable(t.Name)
		s.logger.WithFields(logrus.Fields{"table": t.Name, "rows": n}).Debug("table exported")
	}
	return out.Flush()
}

// exportTable pages through t in key order. Each page starts after the key
// of the last row of the previous one.
func (s *Service) exportTable(ctx context.Context, db *sql.DB, t Table, w io.Writer, reporter ProgressReporter) (int, error) {
	var (
		after []any
		total int
	)
	for {
		query, args := s.pageQuery(t, after)
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("query %s: %w", t.Name, err)
		}
		n, last, err := s.writeRows(rows, t, w)
		rows.Close()
		if err != nil {
			return total, err
		}
		total += n
		reporter.Increment(t.Name, n)
		if n < s.batchSize {
			return total, nil
		}
		after = last
	}
}

func (s *Service) pageQuery(t Table, after []any) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(t.columnNames(), ", "), t.Name)
	if after != nil {
		holders := make([]string, len(t.Key))
		for i := range holders {
			holders[i] = bindVar(s.driver, i+1)
		}
		fmt.Fprintf(&b, " WHERE (%s) > (%s)", strings.Join(t.Key, ", "), strings.Join(holders, ", "))
	}
	fmt.Fprintf(&b, " ORDER BY %s LIMIT %d", strings.Join(t.Key, ", "), s.batchSize)
	return b.String(), after
}

// writeRows encodes rows and returns how many were written plus the raw key of the last one.
func (s *Service) writeRows(rows *sql.Rows, t Table, w io.Writer) (int, []any, error) {
	keyIdx := t.keyIndexes()
	var (
		n    int
		last []any
	)
	for rows.Next() {
		values := make([]any, len(t.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return n, nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}

		payload := make(map[string]any, len(values))
		for i, col := range t.Columns {
			v, err := encodeValue(col, values[i])
			if err != nil {
				return n, nil, fmt.Errorf("convert %s.%s: %w", t.Name, col.Name, err)
			}
			payload[col.Name] = v
		}
		if err := writeRecord(w, envelope{Type: t.Name, Payload: payload}); err != nil {
			return n, nil, err
		}
		last = lo.Map(keyIdx, func(i int, _ int) any {
			if b, ok := values[i].([]byte); ok {
				return string(b)
			}
			return values[i]
		})
		n++
	}
	if err := rows.Err(); err != nil {
		return n, nil, fmt.Errorf("iterate %s: %w", t.Name, err)
	}
	return n, last, nil
}

// Package backup streams the relational data of lingvo to and from NDJSON.
//
// A backup starts with a meta record and continues with one record per row:
//
//	{"type":"meta","version":1,"exported_at":"...","schema_hash":"...","tables":[...],"row_counts":{...}}
//	{"type":"users","payload":{"id":"...","username":"ana",...}}
//
// Tables are written in foreign key order so an import can insert rows as
// they arrive.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	_ "github.com/lib/pq"              // registers the postgres driver
	_ "github.com/mattn/go-sqlite3"    // registers the sqlite3 driver
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
	metaType         = "meta"
)

var (
	errNoTablesSelected = errors.New("backup: no tables selected")
	errMissingMeta      = errors.New("backup: missing meta record")
)

// ProgressReporter receives export progress per table.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service exports and imports the tables listed in Tables.
type Service struct {
	driver    string
	dsn       string
	batchSize int
	logger    logrus.FieldLogger

	tables     []Table
	byName     map[string]Table
	schemaHash string
}

type Option func(*Service)

// WithBatchSize sets how many rows an export query fetches at once.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService binds a service to a database/sql driver (sqlite3, pgx or postgres) and DSN.
func NewService(driver, dsn string, opts ...Option) (*Service, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if bindVar(driver, 1) == "" {
		return nil, fmt.Errorf("backup: unsupported driver %q", driver)
	}
	if dsn = strings.TrimSpace(dsn); dsn == "" {
		return nil, errors.New("backup: DSN is required")
	}

	s := &Service{
		driver:     driver,
		dsn:        dsn,
		batchSize:  defaultBatchSize,
		logger:     logrus.StandardLogger(),
		tables:     Tables,
		byName:     lo.KeyBy(Tables, func(t Table) string { return t.Name }),
		schemaHash: schemaHash(Tables),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// selectTables resolves names to tables, keeping foreign key order.
func (s *Service) selectTables(names []string) ([]Table, error) {
	if len(names) == 0 {
		return s.tables, nil
	}
	wanted := map[string]bool{}
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, ok := s.byName[n]; !ok {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		wanted[n] = true
	}
	if len(wanted) == 0 {
		return nil, errNoTablesSelected
	}
	return lo.Filter(s.tables, func(t Table, _ int) bool { return wanted[t.Name] }), nil
}

func (s *Service) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if s.driver == "sqlite3" {
		// PRAGMAs are per connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return db, nil
}

// bindVar returns the n-th positional parameter of driver, or "" when unsupported.
func bindVar(driver string, n int) string {
	switch driver {
	case "pgx", "postgres", "postgresql":
		return "$" + strconv.Itoa(n)
	case "sqlite3":
		return "?"
	}
	return ""
}

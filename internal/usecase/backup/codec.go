package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// envelope is one NDJSON line. Only the meta record uses the header fields.
type envelope struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	SchemaHash string         `json:"schema_hash,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func writeRecord(w io.Writer, rec envelope) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", rec.Type, err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s record: %w", rec.Type, err)
	}
	return nil
}

func (t Table) columnNames() []string {
	return lo.Map(t.Columns, func(c Column, _ int) string { return c.Name })
}

func (t Table) keyIndexes() []int {
	names := t.columnNames()
	return lo.Map(t.Key, func(k string, _ int) int { return lo.IndexOf(names, k) })
}

// schemaHash fingerprints table and column layout so mismatched backups show up in the meta record.
func schemaHash(tables []Table) string {
	h := sha256.New()
	for _, t := range tables {
		fmt.Fprintf(h, "%s(", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(h, "%s:%d:%t,", c.Name, c.Type, c.Nullable)
		}
		fmt.Fprintf(h, ")key=%s;", strings.Join(t.Key, ","))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// encodeValue turns a scanned driver value into its JSON form.
func encodeValue(col Column, v any) (any, error) {
	if v == nil {
		if col.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected NULL")
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch col.Type {
	case TypeString:
		return fmt.Sprint(v), nil
	case TypeInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case string:
			return strconv.ParseInt(n, 10, 64)
		}
	case TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		case string:
			return strconv.ParseBool(b)
		}
	case TypeTime:
		switch tm := v.(type) {
		case time.Time:
			return tm.UTC().Format(time.RFC3339Nano), nil
		case string:
			parsed, err := parseStoredTime(tm)
			if err != nil {
				return nil, err
			}
			return parsed.UTC().Format(time.RFC3339Nano), nil
		}
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// decodeValue turns a JSON payload value into a driver argument.
func decodeValue(col Column, v any) (any, error) {
	if v == nil {
		if col.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%s must not be null", col.Name)
	}

	switch col.Type {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeInt:
		if n, ok := v.(json.Number); ok {
			return n.Int64()
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeTime:
		if s, ok := v.(string); ok {
			tm, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", col.Name, err)
			}
			return tm.UTC(), nil
		}
	}
	return nil, fmt.Errorf("%s: unexpected %T", col.Name, v)
}

var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range storedTimeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

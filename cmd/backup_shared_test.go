package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTables(t *testing.T) {
	got := normalizeTables([]string{" users,words ", "", "translations", "words"})
	want := []string{"users", "words", "translations"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if normalizeTables(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestGzipByName(t *testing.T) {
	cases := []struct {
		path    string
		enabled bool
		want    bool
	}{
		{"backup.jsonl", false, false},
		{"backup.jsonl.gz", false, true},
		{"BACKUP.JSONL.GZ", false, true},
		{"-", false, false},
		{"-", true, true},
		{"backup.jsonl", true, true},
	}
	for _, tc := range cases {
		if got := gzipByName(tc.path, tc.enabled); got != tc.want {
			t.Fatalf("gzipByName(%q, %v) = %v, want %v", tc.path, tc.enabled, got, tc.want)
		}
	}
}

func TestBackupWriterReaderGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backup.jsonl.gz")
	payload := "{\"type\":\"meta\"}\n{\"type\":\"row\"}\n"

	w, closeW, err := openBackupWriter(path, gzipByName(path, false), io.Discard)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if _, err := io.WriteString(w, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := closeW(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, closeR, err := openBackupReader(path, true, nil)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer closeR()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("expected %q, got %q", payload, data)
	}
}

func TestBackupWriterStdout(t *testing.T) {
	var buf bytes.Buffer
	w, closeW, err := openBackupWriter("-", false, &buf)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	_, _ = io.WriteString(w, "line\n")
	if err := closeW(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "line\n" {
		t.Fatalf("unexpected stdout %q", buf.String())
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := newCLIProgress(&buf, "export")
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	p.now = func() time.Time { return clock }

	p.StartTable("words", 40)
	for i := 0; i < 40; i++ {
		p.Increment("words", 1)
	}
	clock = start.Add(1500 * time.Millisecond)
	p.FinishTable("words")

	out := buf.String()
	for _, want := range []string{
		"export words: 40 rows\n",
		"  words  10% (4/40)\n",
		"  words 100% (40/40)\n",
		"export words: done, 40 rows in 1.5s\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 12 {
		t.Fatalf("expected 12 lines, got %d: %q", lines, out)
	}
}

func TestProgressReporterUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := newCLIProgress(&buf, "import")
	p.StartTable("tags", 0)
	p.Increment("tags", 3)
	p.Increment("missing", 1)
	p.FinishTable("tags")
	p.FinishTable("tags")

	out := buf.String()
	if strings.Count(out, "\n") != 2 || !strings.Contains(out, "import tags: done, 3 rows") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDefaultExportFilename(t *testing.T) {
	if name := defaultExportFilename(true); !strings.HasPrefix(name, "lingvo-backup-") || !strings.HasSuffix(name, ".jsonl.gz") {
		t.Fatalf("unexpected name %q", name)
	}
	if name := defaultExportFilename(false); !strings.HasSuffix(name, ".jsonl") {
		t.Fatalf("unexpected name %q", name)
	}
}

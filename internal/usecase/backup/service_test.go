package backup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/infrastructure/database/dbtest"
	"github.com/eslsoft/lingvo/internal/usecase/backup"
)

type seeded struct {
	user        *entity.User
	word        *entity.Word
	translation *entity.Translation
}

func seedData(t *testing.T, db *bun.DB) seeded {
	t.Helper()
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	exercised := createdAt.Add(48 * time.Hour)

	user, err := repository.NewUserRepository(db).Create(ctx, &entity.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	})
	require.NoError(t, err)

	word, err := repository.NewWordRepository(db).Create(ctx, &entity.Word{
		ID:              uuid.New(),
		AuthorID:        user.ID,
		Language:        "es",
		Text:            "casa",
		Note:            "house",
		ActivityStatus:  entity.ActivityActive,
		IsProblematic:   true,
		LastExercisedAt: &exercised,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt.Add(time.Hour),
	})
	require.NoError(t, err)

	translation, err := repository.NewTranslationRepository(db).Create(ctx, &entity.Translation{
		ID:        uuid.New(),
		AuthorID:  user.ID,
		Language:  "en",
		Text:      "house",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, repository.NewLinkRepository(db).Add(ctx, entity.KindTranslation, word.ID, []uuid.UUID{translation.ID}))

	return seeded{user: user, word: word, translation: translation}
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcDB, srcDSN := dbtest.OpenWithDSN(t)
	src := seedData(t, srcDB)

	exporter, err := backup.NewService("sqlite3", srcDSN)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(ctx, &buf))

	dstDB, dstDSN := dbtest.OpenWithDSN(t)
	importer, err := backup.NewService("sqlite3", dstDSN)
	require.NoError(t, err)
	require.NoError(t, importer.Import(ctx, bytes.NewReader(buf.Bytes())))

	word, err := repository.NewWordRepository(dstDB).GetByID(ctx, src.user.ID, src.word.ID)
	require.NoError(t, err)
	assert.Equal(t, "casa", word.Text)
	assert.Equal(t, "house", word.Note)
	assert.Equal(t, entity.ActivityActive, word.ActivityStatus)
	assert.True(t, word.IsProblematic)
	require.NotNil(t, word.LastExercisedAt)
	assert.True(t, src.word.LastExercisedAt.Equal(*word.LastExercisedAt))
	assert.True(t, src.word.UpdatedAt.Equal(word.UpdatedAt))

	translations, err := repository.NewTranslationRepository(dstDB).ListByWord(ctx, src.word.ID)
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, src.translation.ID, translations[0].ID)

	// importing twice upserts instead of failing on the primary keys
	require.NoError(t, importer.Import(ctx, bytes.NewReader(buf.Bytes())))
	count, err := repository.NewWordRepository(dstDB).Count(ctx, src.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_ExportTablesFilter(t *testing.T) {
	ctx := context.Background()
	srcDB, srcDSN := dbtest.OpenWithDSN(t)
	seedData(t, srcDB)

	exporter, err := backup.NewService("sqlite3", srcDSN)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(ctx, &buf, backup.WithTables([]string{"words", "users"})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var meta struct {
		Type      string         `json:"type"`
		Tables    []string       `json:"tables"`
		RowCounts map[string]int `json:"row_counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &meta))
	assert.Equal(t, "meta", meta.Type)
	assert.Equal(t, []string{"users", "words"}, meta.Tables)
	assert.Equal(t, map[string]int{"users": 1, "words": 1}, meta.RowCounts)
	assert.Contains(t, lines[1], `"type":"users"`)
	assert.Contains(t, lines[2], `"type":"words"`)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	_, dsn := dbtest.OpenWithDSN(t)

	_, err := backup.NewService("mysql", dsn)
	assert.Error(t, err)
	_, err = backup.NewService("sqlite3", " ")
	assert.Error(t, err)

	svc, err := backup.NewService("sqlite3", dsn)
	require.NoError(t, err)
	assert.Error(t, svc.Export(ctx, &bytes.Buffer{}, backup.WithTables([]string{"lexemes"})))
	assert.Error(t, svc.Import(ctx, strings.NewReader(`{"type":"words","payload":{}}`+"\n")))
	assert.Error(t, svc.Import(ctx, strings.NewReader(`{"type":"meta","version":99}`+"\n")))
}

type recordingProgress struct {
	started  map[string]int
	counted  map[string]int
	finished []string
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{started: map[string]int{}, counted: map[string]int{}}
}

func (p *recordingProgress) StartTable(table string, total int) { p.started[table] = total }
func (p *recordingProgress) Increment(table string, delta int)  { p.counted[table] += delta }
func (p *recordingProgress) FinishTable(table string)           { p.finished = append(p.finished, table) }

func TestService_ExportPagesByKey(t *testing.T) {
	ctx := context.Background()
	db, dsn := dbtest.OpenWithDSN(t)
	src := seedData(t, db)

	words := repository.NewWordRepository(db)
	for _, text := range []string{"perro", "gato", "mesa", "silla"} {
		_, err := words.Create(ctx, &entity.Word{
			ID:             uuid.New(),
			AuthorID:       src.user.ID,
			Language:       "es",
			Text:           text,
			ActivityStatus: entity.ActivityInactive,
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	svc, err := backup.NewService("sqlite3", dsn, backup.WithBatchSize(1))
	require.NoError(t, err)

	progress := newRecordingProgress()
	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf,
		backup.WithTables([]string{"words"}),
		backup.WithProgressReporter(progress),
	))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	seen := map[string]bool{}
	for _, line := range lines[1:] {
		var rec struct {
			Payload map[string]any `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		id := rec.Payload["id"].(string)
		assert.False(t, seen[id], "row %s exported twice", id)
		seen[id] = true
	}
	assert.Equal(t, 5, progress.started["words"])
	assert.Equal(t, 5, progress.counted["words"])
	assert.Equal(t, []string{"words"}, progress.finished)
}

func TestService_ImportTablesAndProgress(t *testing.T) {
	ctx := context.Background()
	srcDB, srcDSN := dbtest.OpenWithDSN(t)
	src := seedData(t, srcDB)

	exporter, err := backup.NewService("sqlite3", srcDSN)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, exporter.Export(ctx, &buf))

	dstDB, dstDSN := dbtest.OpenWithDSN(t)
	importer, err := backup.NewService("sqlite3", dstDSN)
	require.NoError(t, err)

	progress := newRecordingProgress()
	require.NoError(t, importer.Import(ctx, bytes.NewReader(buf.Bytes()),
		backup.WithImportTables([]string{"users"}),
		backup.WithImportProgress(progress),
	))

	user, err := repository.NewUserRepository(dstDB).GetByID(ctx, src.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	count, err := repository.NewWordRepository(dstDB).Count(ctx, src.user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Equal(t, 1, progress.counted["users"])
	assert.Equal(t, []string{"users"}, progress.finished)
}

func TestService_ImportRollsBackOnBadRow(t *testing.T) {
	ctx := context.Background()
	db, dsn := dbtest.OpenWithDSN(t)
	svc, err := backup.NewService("sqlite3", dsn)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"type":"meta","version":1}`,
		`{"type":"word_types","payload":{"name":"backup-check","sort_order":99}}`,
		`{"type":"word_types","payload":{"name":"broken","sort_order":"x"}}`,
	}, "\n")
	assert.Error(t, svc.Import(ctx, strings.NewReader(input)))

	var n int
	require.NoError(t, db.NewRaw("SELECT COUNT(*) FROM word_types WHERE name = ?", "backup-check").Scan(ctx, &n))
	assert.Zero(t, n)
}

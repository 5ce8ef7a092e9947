package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lingvo/internal/entity"
)

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestConflictBody_Root(t *testing.T) {
	word := &entity.Word{ID: uuid.New(), Text: "casa", Language: "es", Counts: entity.WordCounts{
		Items: map[entity.Kind]int{entity.KindTranslation: 2},
	}}
	body := decode(t, ConflictBody(&entity.ConflictError{
		Kind:     entity.KindWord,
		Detail:   "This word is already in your vocabulary.",
		Existing: word,
		New:      map[string]string{"text": "Casa"},
	}))

	assert.Equal(t, "already_exist", body["exception_code"])
	assert.Equal(t, "This word is already in your vocabulary.", body["detail"])
	existing := body["existing_object"].(map[string]any)
	assert.Equal(t, word.ID.String(), existing["id"])
	assert.EqualValues(t, 2, existing["translations_count"])
	assert.Equal(t, []any{}, existing["translations"])
	assert.Equal(t, "Casa", body["new_object"].(map[string]any)["text"])
	assert.NotContains(t, body, "conflict_nested_field")
	assert.NotContains(t, body, "conflict_object_index")
	assert.NotContains(t, body, "conflict_field")
}

func TestConflictBody_Nested(t *testing.T) {
	tr := &entity.Translation{ID: uuid.New(), Text: "house", Language: "en", WordsCount: 1}
	body := decode(t, ConflictBody(&entity.ConflictError{
		Kind:        entity.KindTranslation,
		Detail:      "This translation already exists.",
		Existing:    tr,
		New:         map[string]string{"text": "house"},
		NestedField: "translations",
		Index:       0,
		Field:       "text",
	}))

	assert.Equal(t, "translation_already_exist", body["exception_code"])
	assert.Equal(t, "translations", body["conflict_nested_field"])
	assert.EqualValues(t, 0, body["conflict_object_index"])
	assert.Equal(t, "text", body["conflict_field"])
	assert.EqualValues(t, 1, body["existing_object"].(map[string]any)["words_count"])
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: validation.Errors{"text": errors.New("cannot be blank")}, status: http.StatusBadRequest},
		{name: "unauthenticated", err: entity.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("get word: %w", entity.ErrWordNotFound), status: http.StatusNotFound},
		{name: "conflict", err: &entity.ConflictError{Kind: entity.KindWord}, status: http.StatusConflict, code: "already_exist"},
		{name: "amount limit", err: &entity.AmountLimitError{Field: "tags", Limit: 10}, status: http.StatusConflict, code: "amount_limit_exceeded"},
		{name: "duplicate race", err: fmt.Errorf("create: %w", entity.ErrDuplicate), status: http.StatusConflict, code: "already_exist"},
		{name: "unavailable", err: entity.ErrUnavailable, status: http.StatusServiceUnavailable, code: "service_unavailable"},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ToHTTPError(tc.err)
			assert.Equal(t, tc.status, status)
			if tc.code != "" {
				assert.Equal(t, tc.code, decode(t, body)["exception_code"])
			}
		})
	}
}

func TestValidationBody_NestedIndexes(t *testing.T) {
	body := decode(t, ValidationBody(validation.Errors{
		"translations": validation.Errors{
			"1": validation.Errors{"text": errors.New("the length must be between 1 and 256")},
		},
		"language": errors.New("unknown language"),
	}))

	assert.Equal(t, []any{"unknown language"}, body["language"])
	nested := body["translations"].(map[string]any)["1"].(map[string]any)
	assert.Equal(t, []any{"the length must be between 1 and 256"}, nested["text"])
}

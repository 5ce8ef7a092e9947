package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_LoginSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["username"] != "ana" || body["password"] != "secret" {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = w.Write([]byte(`{"key":"tok"}`))
	}))
	defer srv.Close()

	token, err := NewClient(srv.URL+"/api/v1/", srv.Client()).Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected tok, got %q", token)
	}
}

func TestClient_ListWordsQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token tok" {
			t.Errorf("unexpected authorization %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("page_size") != "5" || q.Get("search") != "ca" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(`{"count":6,"page":2,"page_size":5,"results":[{"text":"casa","language":"es"}]}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, nil).ListWords(context.Background(), "tok", 2, 5, "ca")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Count != 6 || len(page.Results) != 1 || page.Results[0].Text != "casa" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestClient_DecodesConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{
			"exception_code":"already_exist",
			"detail":"This word already exists.",
			"existing_object":{"id":"w1","text":"casa","language":"es","translations":[{"text":"house"}]},
			"new_object":{"text":"casa"}
		}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).CreateWord(context.Background(), "tok", &WordDraft{Text: "casa", Language: "es"})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != codeAlreadyExist {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if apiErr.Existing == nil || apiErr.Existing.ID != "w1" || len(apiErr.Existing.Translations) != 1 {
		t.Fatalf("expected existing word, got %+v", apiErr.Existing)
	}
}

func TestClient_DecodesValidationAndLimit(t *testing.T) {
	responses := []struct {
		status int
		body   string
	}{
		{http.StatusBadRequest, `{"text":["cannot be blank"],"translations":{"0":{"language":["must be one of your native or learning languages"]}}}`},
		{http.StatusConflict, `{"exception_code":"amount_limit_exceeded","detail":"Too many types.","amount_limit":3}`},
	}
	i := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(responses[i].status)
		_, _ = w.Write([]byte(responses[i].body))
		i++
	}))
	defer srv.Close()
	client := NewClient(srv.URL, nil)

	_, err := client.CreateWord(context.Background(), "tok", &WordDraft{})
	apiErr := err.(*APIError)
	lines := flattenFields("", apiErr.Fields)
	if len(lines) != 2 || lines[0] != "text: cannot be blank" || lines[1] != "translations.0.language: must be one of your native or learning languages" {
		t.Fatalf("unexpected fields %v", lines)
	}

	_, err = client.CreateWord(context.Background(), "tok", &WordDraft{})
	apiErr = err.(*APIError)
	if apiErr.Code != codeAmountLimit || apiErr.AmountLimit != 3 {
		t.Fatalf("unexpected limit error %+v", apiErr)
	}
}

func TestWordDraftPayload(t *testing.T) {
	d := &WordDraft{Language: "es", Text: "casa", Translations: []string{"house", "home"}, TranslationLanguage: "en"}
	p := d.payload()
	if p.Text != "casa" || len(p.Translations) != 2 || p.Translations[1].Language != "en" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestClient_GetWord(t *testing.T) {
	const wordID = "0b7e6c1a-2f0e-4c4e-9a57-1d2f3a4b5c6d"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/vocabulary/"+wordID {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"`+wordID+`","text":"casa","language":"es","translations":[{"text":"house","language":"en"}]}`))
	}))
	defer srv.Close()

	word, err := NewClient(srv.URL, nil).GetWord(context.Background(), "tok", wordID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if word.ID.String() != wordID || word.Text != "casa" || len(word.Translations) != 1 || word.Translations[0].Text != "house" {
		t.Fatalf("unexpected word %+v", word)
	}
}

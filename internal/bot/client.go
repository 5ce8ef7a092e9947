package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
)

const (
	codeAlreadyExist = "already_exist"
	codeAmountLimit  = "amount_limit_exceeded"
)

// APIError is a non-2xx answer of the REST API.
type APIError struct {
	Status      int
	Code        string
	Detail      string
	AmountLimit int
	Existing    *ExistingWord
	// Fields holds field validation messages of a 400.
	Fields map[string]any
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// ExistingWord is the existing_object of a root conflict.
type ExistingWord struct {
	ID           string                `json:"id"`
	Text         string                `json:"text"`
	Language     string                `json:"language"`
	Translations []mapping.Translation `json:"translations"`
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Page is the list envelope of the API.
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

// WordDraft is the payload the bot collects before creating a word.
type WordDraft struct {
	Language            string   `json:"language"`
	Text                string   `json:"text"`
	Translations        []string `json:"translations"`
	TranslationLanguage string   `json:"translation_language"`
}

type translationPayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type wordPayload struct {
	Text         string               `json:"text"`
	Language     string               `json:"language"`
	Translations []translationPayload `json:"translations,omitempty"`
}

func (d *WordDraft) payload() wordPayload {
	p := wordPayload{Text: d.Text, Language: d.Language}
	for _, t := range d.Translations {
		p.Translations = append(p.Translations, translationPayload{Text: t, Language: d.TranslationLanguage})
	}
	return p
}

// Client talks to the lingvo REST API. Requests are issued one at a time by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL, e.g. http://localhost:8080/api/v1.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var token mapping.Token
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, body, &token); err != nil {
		return "", err
	}
	return token.Key, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
}

func (c *Client) Profile(ctx context.Context, token string) (*mapping.Profile, error) {
	var p mapping.Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListWords returns one page of the vocabulary, optionally filtered by search.
func (c *Client) ListWords(ctx context.Context, token string, page, pageSize int, search string) (*Page[mapping.Word], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if search != "" {
		q.Set("search", search)
	}
	var out Page[mapping.Word]
	if err := c.do(ctx, http.MethodGet, "/vocabulary", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWord(ctx context.Context, token string, draft *WordDraft) (*mapping.WordDetail, error) {
	var out mapping.WordDetail
	if err := c.do(ctx, http.MethodPost, "/vocabulary", token, nil, draft.payload(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWord resubmits draft against an existing word.
func (c *Client) UpdateWord(ctx context.Context, token, id string, draft *WordDraft) (*mapping.WordDetail, error) {
	var out mapping.WordDetail
	if err := c.do(ctx, http.MethodPatch, "/vocabulary/"+url.PathEscape(id), token, nil, draft.payload(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWord(ctx context.Context, token, id string) (*mapping.WordDetail, error) {
	var out mapping.WordDetail
	if err := c.do(ctx, http.MethodGet, "/vocabulary/"+url.PathEscape(id), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status, Body: data}
	var envelope struct {
		ExceptionCode  string          `json:"exception_code"`
		Detail         string          `json:"detail"`
		AmountLimit    int             `json:"amount_limit"`
		ExistingObject json.RawMessage `json:"existing_object"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		apiErr.Detail = http.StatusText(status)
		return apiErr
	}
	apiErr.Code = envelope.ExceptionCode
	apiErr.Detail = envelope.Detail
	apiErr.AmountLimit = envelope.AmountLimit
	if len(envelope.ExistingObject) > 0 && string(envelope.ExistingObject) != "null" {
		var existing ExistingWord
		if json.Unmarshal(envelope.ExistingObject, &existing) == nil && existing.ID != "" {
			apiErr.Existing = &existing
		}
	}
	if status == http.StatusBadRequest && apiErr.Detail == "" {
		var fields map[string]any
		if json.Unmarshal(data, &fields) == nil {
			apiErr.Fields = fields
		}
	}
	return apiErr
}

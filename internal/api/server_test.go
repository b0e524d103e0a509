package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/samcharles93/furigana/internal/furigana"
	"github.com/samcharles93/furigana/internal/logger"
	"github.com/samcharles93/furigana/internal/tagger"
)

// testTagger splits on runes from a fixed lexicon of surface → reading.
type testTagger struct {
	lexicon map[string]string
	err     error
	closed  *atomic.Int32
}

func (t testTagger) Parse(ctx context.Context, text string) ([]tagger.Node, error) {
	if t.err != nil {
		return nil, t.err
	}
	nodes := []tagger.Node{{Class: tagger.ClassBOS}}
	rest := text
	for rest != "" {
		matched := false
		for surface, reading := range t.lexicon {
			if strings.HasPrefix(rest, surface) {
				nodes = append(nodes, tagger.Node{
					Surface:  surface,
					Features: []string{"名詞", "普通名詞", "一般", "*", "*", "*", reading},
					Class:    tagger.ClassKnown,
				})
				rest = rest[len(surface):]
				matched = true
				break
			}
		}
		if !matched {
			r := []rune(rest)[0]
			nodes = append(nodes, tagger.Node{Surface: string(r), Class: tagger.ClassUnknown})
			rest = rest[len(string(r)):]
		}
	}
	return append(nodes, tagger.Node{Class: tagger.ClassEOS}), nil
}

func (t testTagger) Close() error {
	if t.closed != nil {
		t.closed.Add(1)
	}
	return nil
}

var testLexicon = map[string]string{
	"猫":   "ネコ",
	"日本":  "ニホン",
	"食べる": "タベル",
	"が":   "ガ",
}

func newTestEcho(tg testTagger) *echo.Echo {
	provider := tagger.NewScopedProvider(func() (tagger.Tagger, error) { return tg, nil })
	server := NewServer(provider, furigana.Options{})
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeTokens(t *testing.T, rec *httptest.ResponseRecorder) []furigana.Token {
	t.Helper()
	var resp TokensResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return resp.Data
}

func TestWordEndpointSingleKanji(t *testing.T) {
	t.Parallel()

	e := newTestEcho(testTagger{lexicon: testLexicon})
	rec := doJSON(t, e, http.MethodPost, "/api/furigana", `{"text":"猫"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"data":[{"Word":"猫","Furigana":"ねこ"}]}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestWordEndpointMixedText(t *testing.T) {
	t.Parallel()

	e := newTestEcho(testTagger{lexicon: testLexicon})
	rec := doJSON(t, e, http.MethodPost, "/api/furigana", `{"text":"猫が食べる!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	want := []furigana.Token{
		{Word: "猫", Furigana: "ねこ"},
		{Word: "が", Furigana: ""},
		{Word: "食べる", Furigana: "たべる"},
		{Word: "!", Furigana: ""},
	}
	if got := decodeTokens(t, rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestCharEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(testTagger{lexicon: testLexicon})
	rec := doJSON(t, e, http.MethodPost, "/api/furigana/single", `{"text":"日本の猫"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	want := []furigana.Token{
		{Word: "日", Furigana: "に"},
		{Word: "本", Furigana: "ほ"},
		{Word: "の", Furigana: ""},
		{Word: "猫", Furigana: "ね"},
	}
	if got := decodeTokens(t, rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestEmptyTextReturnsEmptyArray(t *testing.T) {
	t.Parallel()

	e := newTestEcho(testTagger{lexicon: testLexicon})
	for _, path := range []string{"/api/furigana", "/api/furigana/single"} {
		rec := doJSON(t, e, http.MethodPost, path, `{"text":""}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d body=%s", path, rec.Code, rec.Body.String())
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"data":[]}` {
			t.Fatalf("%s: unexpected body: %s", path, got)
		}
	}
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()

	e := newTestEcho(testTagger{lexicon: testLexicon})
	bodies := []string{`{"text":`, `{"text":42}`, `{}`, `{"text":null}`, `not json`}
	for _, body := range bodies {
		rec := doJSON(t, e, http.MethodPost, "/api/furigana", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d body=%s", body, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "invalid_request_error") {
			t.Fatalf("body %q: unexpected error body: %s", body, rec.Body.String())
		}
	}
}

func TestTaggerFailureClosesTagger(t *testing.T) {
	t.Parallel()

	var closed atomic.Int32
	e := newTestEcho(testTagger{err: errors.New("dictionary unreadable"), closed: &closed})
	rec := doJSON(t, e, http.MethodPost, "/api/furigana/single", `{"text":"猫"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "server_error") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
	if closed.Load() != 1 {
		t.Fatalf("expected tagger to be closed once, got %d", closed.Load())
	}
}

func TestTaggerClosedPerRequest(t *testing.T) {
	t.Parallel()

	var closed atomic.Int32
	e := newTestEcho(testTagger{lexicon: testLexicon, closed: &closed})
	for range 3 {
		rec := doJSON(t, e, http.MethodPost, "/api/furigana", `{"text":"猫"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
	if closed.Load() != 3 {
		t.Fatalf("expected 3 closes, got %d", closed.Load())
	}
}

func TestFactoryFailure(t *testing.T) {
	t.Parallel()

	provider := tagger.NewScopedProvider(func() (tagger.Tagger, error) {
		return nil, errors.New("load dictionary: no such file")
	})
	e := echo.New()
	NewServer(provider, furigana.Options{}).Register(e)
	rec := doJSON(t, e, http.MethodPost, "/api/furigana", `{"text":"猫"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(CORS(nil))
	NewServer(tagger.NewScopedProvider(func() (tagger.Tagger, error) {
		return testTagger{lexicon: testLexicon}, nil
	}), furigana.Options{}).Register(e)

	req := httptest.NewRequest(http.MethodPost, "/api/furigana", strings.NewReader(`{"text":"猫"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:56595")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:56595" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/furigana", strings.NewReader(`{"text":"猫"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("expected no allow-origin header for foreign origin, got %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(RequestID(logger.Default()))
	var seen string
	e.GET("/ping", func(c *echo.Context) error {
		seen = c.Response().Header().Get(echo.HeaderXRequestID)
		return c.String(http.StatusOK, "pong")
	})

	rec := doJSON(t, e, http.MethodGet, "/ping", "")
	id := rec.Header().Get(echo.HeaderXRequestID)
	if id == "" || id != seen {
		t.Fatalf("expected generated request id, got %q (handler saw %q)", id, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "client-id" {
		t.Fatalf("expected client request id to be kept, got %q", got)
	}
}

func TestKagomeEndToEnd(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("dictionary load skipped in -short mode")
	}

	loader := &tagger.Loader{Dictionary: tagger.DictUni}
	e := echo.New()
	NewServer(tagger.NewScopedProvider(loader.New), furigana.Options{}).Register(e)

	rec := doJSON(t, e, http.MethodPost, "/api/furigana", `{"text":"猫"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	want := []furigana.Token{{Word: "猫", Furigana: "ねこ"}}
	if got := decodeTokens(t, rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}

	input := "日本語の文章を読みます。"
	rec = doJSON(t, e, http.MethodPost, "/api/furigana/single", `{"text":"`+input+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	tokens := decodeTokens(t, rec)
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Word)
		if tok.Furigana != "" && !furigana.ContainsKanji(tok.Word) {
			t.Fatalf("furigana on non-kanji token %v", tok)
		}
	}
	if b.String() != input || len(tokens) != len([]rune(input)) {
		t.Fatalf("char tokens do not reconstruct input: %q (%d tokens)", b.String(), len(tokens))
	}
}

func TestDecodeTextRequest(t *testing.T) {
	t.Parallel()

	text, err := decodeTextRequest(strings.NewReader(`{"Text":"猫"}`))
	if err != nil || text != "猫" {
		t.Fatalf("decodeTextRequest() = %q, %v", text, err)
	}
	if _, err := decodeTextRequest(strings.NewReader(`{}`)); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

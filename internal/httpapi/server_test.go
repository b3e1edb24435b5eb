package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/tlgate"
	"github.com/ZaguanLabs/tlgate/cache"
	"github.com/ZaguanLabs/tlgate/internal/langdetect"
	"github.com/ZaguanLabs/tlgate/processor"
	"github.com/ZaguanLabs/tlgate/provider"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	provider *provider.MockProvider
	cache    *cache.LRUCache
	limiter  *tlgate.SlidingWindowLimiter
}

func newTestEnv(t *testing.T, maxRequests int) *testEnv {
	t.Helper()

	p := provider.NewMockProvider()
	c := cache.NewLRUCache(100, time.Hour)
	l := tlgate.NewSlidingWindowLimiter(tlgate.RateLimitConfig{Window: time.Minute, MaxRequests: maxRequests})

	translator := tlgate.NewTranslator(p,
		tlgate.WithCache(c),
		tlgate.WithRateLimiter(l),
		tlgate.WithProcessor(processor.NewHTMLProcessor()),
		tlgate.WithMaxTextLength(20),
	)

	s := NewServer(Deps{
		Translator: translator,
		Cache:      c,
		Limiter:    l,
	}, zerolog.Nop(), Options{StaticDir: t.TempDir()})

	return &testEnv{server: s, handler: s.Handler(), provider: p, cache: c, limiter: l}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestTranslate_Success(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["success"] != true || body["text"] != "Hola" || body["cached"] != false {
		t.Errorf("unexpected body: %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Error("success responses should not carry an error field")
	}

	rec = env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es","source":null}`)
	body = decodeJSON(t, rec)
	if body["cached"] != true || body["text"] != "Hola" {
		t.Errorf("second request should be served from cache, got %v", body)
	}
	if env.provider.Calls() != 1 {
		t.Errorf("provider called %d times, want 1", env.provider.Calls())
	}
}

func TestTranslate_PassesSource(t *testing.T) {
	env := newTestEnv(t, 30)

	env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","source":"en","target":"fr"}`)

	last := env.provider.LastRequest()
	if last == nil || last.SourceLang != "en" || last.TargetLang != "fr" {
		t.Errorf("unexpected provider request: %+v", last)
	}
}

func TestTranslate_HTMLFormat(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"<p>Hello</p>","target":"es","format":"html"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decodeJSON(t, rec); body["text"] != "<p>Hola</p>" {
		t.Errorf("text = %v, want <p>Hola</p>", body["text"])
	}
}

func TestTranslate_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"not JSON", `{"text":`, "invalid request body"},
		{"empty body", ``, "invalid request body"},
		{"missing target", `{"text":"Hello"}`, "target"},
		{"missing text", `{"target":"es"}`, "text"},
		{"text not a string", `{"text":42,"target":"es"}`, "text"},
		{"unknown format", `{"text":"Hello","target":"es","format":"markdown"}`, "format"},
		{"array body", `["Hello"]`, "invalid request body"},
		{"trailing content", `{"text":"Hello","target":"es"} {}`, "trailing content"},
		{"empty text", `{"text":"","target":"es"}`, "text must not be empty"},
		{"text too long", `{"text":"` + strings.Repeat("a", 21) + `","target":"es"}`, "20 characters"},
		{"blank target", `{"text":"Hello","target":"   "}`, "target language must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 30)

			rec := env.do(t, http.MethodPost, "/api/translate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}

			body := decodeJSON(t, rec)
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			msg, _ := body["error"].(string)
			if !strings.Contains(msg, tt.message) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.message)
			}
			if env.provider.Calls() != 0 {
				t.Error("provider should not be called for a bad request")
			}
		})
	}
}

func TestTranslate_RateLimited(t *testing.T) {
	env := newTestEnv(t, 1)

	if rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retry < 1 || retry > 61 {
		t.Errorf("Retry-After = %q, want whole seconds within the window", rec.Header().Get("Retry-After"))
	}

	body := decodeJSON(t, rec)
	if body["success"] != false || body["error"] == "" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestTranslate_ProviderFailure(t *testing.T) {
	env := newTestEnv(t, 30)
	env.provider.Errors["Hello"] = &tlgate.ProviderError{Kind: tlgate.ProviderHTTP, StatusCode: 502, Body: "bad gateway"}

	rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeJSON(t, rec)
	msg, _ := body["error"].(string)
	if !strings.HasPrefix(msg, "translation failed: ") || !strings.Contains(msg, "502") {
		t.Errorf("error = %q", msg)
	}
	if env.cache.Len() != 0 {
		t.Error("failures must not be cached")
	}
}

func TestTranslate_UnexpectedError(t *testing.T) {
	env := newTestEnv(t, 30)
	env.provider.Errors["Hello"] = errors.New("socket closed")

	rec := env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "1"},
		{-time.Second, "1"},
		{time.Millisecond, "1"},
		{59 * time.Second, "59"},
		{59*time.Second + time.Nanosecond, "60"},
	}
	for _, tt := range tests {
		if got := retryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguages(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodGet, "/api/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body languagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || len(body.Languages) != 14 {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.Languages["zh-Hant"] == "" {
		t.Error("zh-Hant should be listed")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 30)
	env.server.now = func() time.Time { return time.Unix(1700000000, 0) }
	env.do(t, http.MethodPost, "/api/translate", `{"text":"Hello","target":"es"}`)

	rec := env.do(t, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Status  string      `json:"status"`
		Time    int64       `json:"time"`
		Version string      `json:"version"`
		Cache   cache.Stats `json:"cache"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "healthy" || body.Time != 1700000000 || body.Version != tlgate.Version {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.Cache.Size != 1 || body.Cache.Misses != 1 {
		t.Errorf("unexpected cache stats: %+v", body.Cache)
	}
}

func TestDetect(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodPost, "/api/detect", `{"text":"The quick brown fox jumps over the lazy dog."}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("without a detector status = %d, want 503", rec.Code)
	}

	detector, err := langdetect.New([]string{"en", "de"})
	if err != nil {
		t.Fatal(err)
	}
	env.server.deps.Detector = detector
	env.handler = env.server.Handler()

	rec = env.do(t, http.MethodPost, "/api/detect", `{"text":"The quick brown fox jumps over the lazy dog."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decodeJSON(t, rec); body["language"] != "en" || body["success"] != true {
		t.Errorf("unexpected body: %v", body)
	}

	rec = env.do(t, http.MethodPost, "/api/detect", `{"text":"ok"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("short sample status = %d, want 422", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/detect", `{"text":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank sample status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/detect", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing text status = %d, want 400", rec.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "libs"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"index.html":     "<h1>tlgate</h1>",
		"app.css":        "body{}",
		"libs/helper.js": "console.log(1)",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewServer(Deps{Translator: tlgate.NewTranslator(provider.NewMockProvider())}, zerolog.Nop(), Options{StaticDir: dir})
	handler := s.Handler()

	tests := []struct {
		path string
		want string
	}{
		{"/", "<h1>tlgate</h1>"},
		{"/static/app.css", "body{}"},
		{"/static/libs/helper.js", "console.log(1)"},
		{"/libs/helper.js", "console.log(1)"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
			t.Errorf("GET %s = %d %q, want 200 %q", tt.path, rec.Code, rec.Body.String(), tt.want)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", rec.Code)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodGet, "/api/nothing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeJSON(t, rec); body["success"] != false || body["error"] == "" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, 30)

	req := httptest.NewRequest(http.MethodOptions, "/api/translate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Errorf("Access-Control-Allow-Methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t, 30)

	rec := env.do(t, http.MethodGet, "/api/health", "")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("responses should carry a request id")
	}
}

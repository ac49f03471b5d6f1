package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/insight/internal/application/analysis"
	"github.com/bryanwahyu/insight/internal/config"
	"github.com/bryanwahyu/insight/internal/domain/ai"
	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

type fakeProvider struct {
	reply    string
	err      error
	calls    int
	userText string
}

func (p *fakeProvider) Complete(ctx context.Context, system, userText string, maxTokens int) ([]ai.Segment, error) {
	p.calls++
	p.userText = userText
	if p.err != nil {
		return nil, p.err
	}
	return []ai.Segment{{Type: ai.SegmentText, Text: p.reply}}, nil
}

func newTestRouter(t *testing.T, p ai.Provider) *Router {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Limits.RateCapacity = 1000
	cfg.Limits.MaxBodyBytes = 1024
	svc := appanalysis.NewService(p, "prompt", appanalysis.Options{CredentialEnv: "ANTHROPIC_API_KEY"}, nil, nil)
	r := NewRouter(svc, cfg, nil)
	t.Cleanup(r.Close)
	return r
}

func post(t *testing.T, h http.Handler, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return rec.Code, out
}

func TestAnalyzeNotConfigured(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, `not even json`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, out["error"], "ANTHROPIC_API_KEY")
}

func TestAnalyzeBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"not json", `{"input":`, domain.MsgInvalidBody},
		{"not an object", `["x"]`, domain.MsgInvalidBody},
		{"null body", `null`, domain.MsgInvalidBody},
		{"missing input", `{}`, domain.MsgInputRequired},
		{"number input", `{"input": 42}`, domain.MsgInputRequired},
		{"null input", `{"input": null}`, domain.MsgInputRequired},
		{"blank input", `{"input": "   "}`, domain.MsgInputRequired},
		{"too large", `{"input": "` + strings.Repeat("x", 2048) + `"}`, domain.MsgInvalidBody},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakeProvider{reply: `{}`}
			r := newTestRouter(t, p)

			code, out := post(t, r, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tc.msg, out["error"])
			assert.Zero(t, p.calls)
		})
	}
}

func TestAnalyzeTruncatesLargePaste(t *testing.T) {
	p := &fakeProvider{reply: `{"summary":"S"}`}
	cfg := config.DefaultConfig()
	svc := appanalysis.NewService(p, "prompt", appanalysis.Options{}, nil, nil)
	r := NewRouter(svc, cfg, nil)
	t.Cleanup(r.Close)

	// 2 MiB of text.
	input := strings.Repeat("é", 1<<20)
	body, err := json.Marshal(map[string]string{"input": input})
	require.NoError(t, err)

	code, out := post(t, r, string(body))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "S", out["summary"])
	assert.Equal(t, appanalysis.DefaultMaxInputChars, utf8.RuneCountInString(p.userText))
}

func TestAnalyzeClampsScore(t *testing.T) {
	p := &fakeProvider{reply: `Sure! {"summary":"S","findings":[{"title":"T","severity":"HIGH","detail":"D"}],"recommendations":["R"],"score":150} Thanks`}
	r := newTestRouter(t, p)

	code, out := post(t, r, `{"input":"sample log"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "S", out["summary"])
	assert.Equal(t, float64(100), out["score"])
	assert.Equal(t, []any{"R"}, out["recommendations"])
	findings := out["findings"].([]any)
	require.Len(t, findings, 1)
	assert.Equal(t, map[string]any{"title": "T", "severity": "high", "detail": "D"}, findings[0])
}

func TestAnalyzeParseFailures(t *testing.T) {
	r := newTestRouter(t, &fakeProvider{reply: "I cannot help with that."})
	code, out := post(t, r, `{"input":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, domain.MsgParseFailed, out["error"])

	r = newTestRouter(t, &fakeProvider{reply: `{"a": 1} and {"b": 2}`})
	code, out = post(t, r, `{"input":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotEmpty(t, out["error"])
	assert.NotEqual(t, domain.MsgParseFailed, out["error"])
}

func TestAnalyzeProviderError(t *testing.T) {
	r := newTestRouter(t, &fakeProvider{err: errors.New("upstream exploded")})

	code, out := post(t, r, `{"input":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "upstream exploded", out["error"])
}

func TestIndexPage(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Insight</title>")
	assert.Contains(t, body, "Parsing input...")
	assert.Contains(t, body, "/api/analyze")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthReflectsConfiguration(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter(t, &fakeProvider{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, "ok", rec.Body.String())
}

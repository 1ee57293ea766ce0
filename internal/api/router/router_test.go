package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captureclient/demo-engine/internal/demo"
	"github.com/captureclient/demo-engine/internal/llm"
	"github.com/captureclient/demo-engine/internal/ratelimit"
	"github.com/captureclient/demo-engine/internal/webchat"
)

func testRouter(t *testing.T, rateLimit func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	client := llm.NewScriptedClient(demo.ScriptedResponses(), demo.DefaultScriptedResponse)
	handler := webchat.NewHandler([]byte("// widget"), nil)
	registry := demo.NewRegistry(func(_ string, bt demo.BusinessType) *demo.Engine {
		return demo.NewEngine(client, demo.Config{
			BusinessType: bt,
			OnUpdate:     handler.PushState,
			Typewriter: demo.TypewriterConfig{
				CharDelay:        time.Microsecond,
				Granularity:      demo.GranularityWord,
				PunctuationPause: map[rune]time.Duration{},
			},
		})
	}, time.Minute, nil, nil)
	t.Cleanup(registry.Close)
	handler.AttachRegistry(registry)

	return New(&Config{
		Demo:               handler,
		RateLimit:          rateLimit,
		CORSAllowedOrigins: []string{"*"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDemoMessageRoundTrip(t *testing.T) {
	r := testRouter(t, nil)

	payload := `{"business_type":"plumbing","text":"my water heater is leaking"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/demo/message", bytes.NewBufferString(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	require.NotEmpty(t, resp["session_id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/state?session="+resp["session_id"], nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot demo.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, demo.BusinessPlumbing, snapshot.BusinessType)
	assert.Equal(t, demo.GreetingFor(demo.BusinessPlumbing), snapshot.Greeting)
}

func TestDemoMessageRejectsEmptyText(t *testing.T) {
	r := testRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/demo/message", bytes.NewBufferString(`{"text":"   "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDemoStateRequiresSession(t *testing.T) {
	r := testRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/state", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/state?session=unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDemoResetUnknownSession(t *testing.T) {
	r := testRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/demo/reset", bytes.NewBufferString(`{"session_id":"nope"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDemoWidgetJS(t *testing.T) {
	r := testRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/widget.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "widget")
}

func TestDemoRateLimitGuardsMutations(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	r := testRouter(t, limiter.Middleware)

	newMsg := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/demo/message", bytes.NewBufferString(`{"text":"hi"}`))
		req.RemoteAddr = "10.1.1.1:40000"
		return req
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, newMsg())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, newMsg())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Read paths stay open.
	rec = httptest.NewRecorder()
	state := httptest.NewRequest(http.MethodGet, "/demo/widget.js", nil)
	state.RemoteAddr = "10.1.1.1:40000"
	r.ServeHTTP(rec, state)
	assert.Equal(t, http.StatusOK, rec.Code)
}

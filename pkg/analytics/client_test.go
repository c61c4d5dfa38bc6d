package analytics

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excesoluz/pkg/config"
	"excesoluz/pkg/errors"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/ratelimit"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

// capturedRequest is what the fake Firestore saw
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   Document
}

// fakeFirestore records createDocument calls and answers with status
func fakeFirestore(t *testing.T, status int, reply string) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var doc Document
		_ = json.Unmarshal(body, &doc)

		query := map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}

		mu.Lock()
		requests = append(requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Body:   doc,
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), requests...)
	}
}

func testConfig(baseURL string) config.AnalyticsConfig {
	return config.AnalyticsConfig{
		Enabled:    true,
		ProjectID:  "exceso-de-luz",
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Collection: DefaultCollection,
		Timeout:    5 * time.Second,
		UserAgent:  "excesoluz-test",
	}
}

func TestCreateDocument(t *testing.T) {
	server, requests := fakeFirestore(t, http.StatusOK,
		`{"name":"projects/exceso-de-luz/databases/(default)/documents/eventos_fondos/abc","fields":{}}`)

	client := NewClient(testConfig(server.URL), logger.NewNopLogger())
	client.newID = func() string { return "abc" }

	doc, err := client.CreateDocument(context.Background(), DefaultCollection, map[string]Value{
		"tipo": StringValue("view"),
	})
	require.NoError(t, err)
	assert.Contains(t, doc.Name, "eventos_fondos/abc")

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPost, got[0].Method)
	assert.Equal(t, "/projects/exceso-de-luz/databases/(default)/documents/eventos_fondos", got[0].Path)
	assert.Equal(t, map[string]string{"documentId": "abc", "key": "test-key"}, got[0].Query)
	assert.Equal(t, "view", got[0].Body.Fields["tipo"].String())
}

func TestCreateDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		want    errors.ErrorType
		message string
	}{
		{
			name:    "permission denied",
			status:  http.StatusForbidden,
			reply:   `{"error":{"code":403,"message":"Missing or insufficient permissions.","status":"PERMISSION_DENIED"}}`,
			want:    errors.ErrorTypeUnknown,
			message: "PERMISSION_DENIED: Missing or insufficient permissions.",
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			want:   errors.ErrorTypeNotFound,
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			reply:  `{"error":{"code":400,"message":"Invalid JSON payload"}}`,
			want:   errors.ErrorTypeInvalidInput,
		},
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
			want:   errors.ErrorTypeServerError,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			reply:  `{invalid json`,
			want:   errors.ErrorTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := fakeFirestore(t, tt.status, tt.reply)
			client := NewClient(testConfig(server.URL), logger.NewNopLogger())

			_, err := client.CreateDocument(context.Background(), DefaultCollection, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.TypeOf(err))

			if tt.message != "" {
				var e *errors.Error
				require.True(t, errors.As(err, &e))
				assert.Equal(t, tt.message, e.Message)
				assert.Equal(t, tt.status, e.Code)
			}
		})
	}
}

func TestCreateDocumentNetworkError(t *testing.T) {
	client := NewClient(testConfig("http://firestore.invalid"), logger.NewNopLogger())
	client.httpClient = &http.Client{Transport: &mockRoundTripper{
		handler: func(*http.Request) (*http.Response, error) {
			return nil, stderrors.New("connection refused")
		},
	}}

	_, err := client.CreateDocument(context.Background(), DefaultCollection, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
}

func TestCreateDocumentRequiresProject(t *testing.T) {
	cfg := testConfig("http://firestore.invalid")
	cfg.ProjectID = ""
	client := NewClient(cfg, logger.NewNopLogger())

	_, err := client.CreateDocument(context.Background(), DefaultCollection, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidInput))
}

func TestRecordEvent(t *testing.T) {
	server, requests := fakeFirestore(t, http.StatusOK, `{"name":"x","fields":{}}`)

	when := time.Date(2026, time.October, 17, 14, 5, 0, 0, time.UTC)
	rec := NewRecorder(testConfig(server.URL),
		WithRecorderLogger(logger.NewNopLogger()),
		WithRecorderClock(func() time.Time { return when }),
	)

	assert.True(t, rec.RecordEvent(context.Background(), EventDownload, "fondo-3"))

	got := requests()
	require.Len(t, got, 1)
	fields := got[0].Body.Fields
	assert.Equal(t, "download", fields["tipo"].String())
	assert.Equal(t, "fondo-3", fields["fondoId"].String())
	assert.Equal(t, "2026-10-17T14:05:00Z", fields["fecha"].String())
	assert.NotNil(t, fields["fecha"].TimestampValue)
	assert.Equal(t, "excesoluz-test", fields["userAgent"].String())
	assert.NotEmpty(t, got[0].Query["documentId"])
}

func TestRecordEventSwallowsFailures(t *testing.T) {
	global := logger.NewTestLogger()
	logger.SetLogger(global)
	t.Cleanup(func() { logger.SetLogger(logger.NewNopLogger()) })

	tl := logger.NewTestLogger()
	server, requests := fakeFirestore(t, http.StatusInternalServerError, "")
	rec := NewRecorder(testConfig(server.URL), WithRecorderLogger(tl))

	assert.False(t, rec.RecordEvent(context.Background(), EventView, "fondo-1"))
	assert.Len(t, requests(), 1, "failed events are not retried")
	assert.True(t, tl.HasMessage("Error guardando evento"))
	assert.True(t, tl.HasError())
	assert.False(t, global.HasMessage("Error guardando evento"))
}

func TestRecordEventDisabled(t *testing.T) {
	server, requests := fakeFirestore(t, http.StatusOK, `{}`)
	cfg := testConfig(server.URL)
	cfg.Enabled = false

	rec := NewRecorder(cfg, WithRecorderLogger(logger.NewNopLogger()))
	assert.False(t, rec.Enabled())
	assert.False(t, rec.RecordEvent(context.Background(), EventView, "fondo-1"))
	assert.Empty(t, requests())
}

func TestRecordEventRateLimited(t *testing.T) {
	server, requests := fakeFirestore(t, http.StatusOK, `{"fields":{}}`)
	rec := NewRecorder(testConfig(server.URL),
		WithRecorderLogger(logger.NewNopLogger()),
		WithLimiter(ratelimit.NewSlidingWindow(2, time.Hour)),
	)

	for i := 0; i < 4; i++ {
		rec.RecordEvent(context.Background(), EventView, "fondo-1")
	}
	assert.Len(t, requests(), 2)
}

func TestParseEventKind(t *testing.T) {
	kind, ok := ParseEventKind("view")
	assert.True(t, ok)
	assert.Equal(t, EventView, kind)

	_, ok = ParseEventKind("share")
	assert.False(t, ok)
}

package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-manager-backend/internal/logging"
)

func echoBody() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		_, _ = w.Write(b)
	})
}

func TestWithRequestID_Generates(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestWithRequestID_KeepsIncoming(t *testing.T) {
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info", "logfmt")

	h := WithRequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil))

	out := buf.String()
	assert.Contains(t, out, "http_request")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "method=DELETE")
	assert.Contains(t, out, "rid="+rec.Header().Get(RequestIDHeader))
}

func TestJSONBody_DropsNonJSONBodies(t *testing.T) {
	h := JSONBody(1024)(echoBody())

	for _, ct := range []string{"", "text/plain;charset=UTF-8", "application/x-www-form-urlencoded"} {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"x"}`))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, ct)
		assert.Empty(t, rec.Body.String(), ct)
	}
}

func TestJSONBody_LimitIgnoresDroppedBodies(t *testing.T) {
	h := JSONBody(4)(echoBody())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("title=something long"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJSONBody_AcceptsJSONVariants(t *testing.T) {
	h := JSONBody(1024)(echoBody())

	for _, ct := range []string{"application/json", "application/json; charset=utf-8", "application/merge-patch+json"} {
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/1", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, ct)
		assert.Equal(t, `{"a":1}`, rec.Body.String())
	}
}

func TestJSONBody_NoBodyPassesThrough(t *testing.T) {
	h := JSONBody(1024)(echoBody())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/tasks/1/toggle", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJSONBody_Limit(t *testing.T) {
	h := JSONBody(8)(echoBody())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"way too long"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

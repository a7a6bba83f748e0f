package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahayak/internal/khata"
	"sahayak/internal/recordstore"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := khata.New(recordstore.NewInMemoryKV(), khata.WithLogger(logger))

	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r
}

func post(r chi.Router, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/khata/entries", bytes.NewReader([]byte(body))))
	return w
}

func TestHandleAddEntry(t *testing.T) {
	r := newRouter(t)

	w := post(r, `{"amount":"250.50","description":"vegetable sale"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry khata.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "vegetable sale", entry.Description)
}

func TestHandleAddEntryRejectsZeroAmount(t *testing.T) {
	r := newRouter(t)
	w := post(r, `{"amount":"0"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSummary(t *testing.T) {
	r := newRouter(t)
	require.Equal(t, http.StatusCreated, post(r, `{"amount":"100"}`).Code)
	require.Equal(t, http.StatusCreated, post(r, `{"amount":"300"}`).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/khata/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var summary khata.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.EntryCount)
	assert.Equal(t, khata.Score(2), summary.TrustScore)
	assert.False(t, summary.LoanEligible)
}

func TestHandleEntries(t *testing.T) {
	r := newRouter(t)
	require.Equal(t, http.StatusCreated, post(r, `{"amount":"100","description":"first"}`).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/khata/entries", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []khata.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 1)
}

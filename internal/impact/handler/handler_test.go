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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahayak/internal/impact"
	"sahayak/internal/recordstore"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := impact.StaticRegistry{101: decimal.NewFromInt(5000)}
	service := impact.New(recordstore.NewInMemoryKV(), registry, impact.WithLogger(logger))

	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r
}

func TestHandleSubmit(t *testing.T) {
	r := newRouter(t)
	body := `{"beneficiaryId":101,"currentIncome":"7500","photoUri":"file:///a.jpg"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusCreated, w.Code)

	var record impact.Audit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.True(t, record.IncomeChange.Equal(decimal.NewFromInt(2500)))
}

func TestHandleSubmitUnknownBeneficiary(t *testing.T) {
	r := newRouter(t)
	body := `{"beneficiaryId":999,"currentIncome":"100"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader([]byte(body))))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleList(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Audits []impact.Audit `json:"audits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Audits)
}

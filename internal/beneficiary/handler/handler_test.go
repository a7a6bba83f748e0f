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
	"github.com/stretchr/testify/suite"

	"sahayak/internal/beneficiary"
	"sahayak/internal/recordstore"
)

type BeneficiaryHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestBeneficiaryHandlerSuite(t *testing.T) {
	suite.Run(t, new(BeneficiaryHandlerSuite))
}

func (s *BeneficiaryHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := beneficiary.New(recordstore.NewInMemoryKV(), beneficiary.WithLogger(logger))

	s.router = chi.NewRouter()
	New(service, logger).Register(s.router)
}

func (s *BeneficiaryHandlerSuite) register(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/beneficiaries", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *BeneficiaryHandlerSuite) TestRegister() {
	w := s.register(`{"name":"Lakshmi Devi","aadhaar":"123456789012","photo_ref":"file:///p.jpg"}`)
	s.Require().Equal(http.StatusCreated, w.Code)

	var record beneficiary.Record
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &record))
	s.Equal(beneficiary.StatusPending, record.Status)
	s.NotZero(record.ID)
}

func (s *BeneficiaryHandlerSuite) TestRegisterValidationFailure() {
	w := s.register(`{"name":"","aadhaar":"123456789012","photo_ref":"file:///p.jpg"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BeneficiaryHandlerSuite) TestRegisterMalformedBody() {
	w := s.register(`{"name":`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BeneficiaryHandlerSuite) TestListIncludesPendingCount() {
	s.Require().Equal(http.StatusCreated,
		s.register(`{"name":"Lakshmi Devi","aadhaar":"123456789012","photo_ref":"file:///p.jpg"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/beneficiaries", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Records      []beneficiary.Record `json:"records"`
		PendingCount int                  `json:"pending_count"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Records, 1)
	s.Equal(1, resp.PendingCount)
}

func (s *BeneficiaryHandlerSuite) TestClear() {
	s.Require().Equal(http.StatusCreated,
		s.register(`{"name":"Lakshmi Devi","aadhaar":"123456789012","photo_ref":"file:///p.jpg"}`).Code)

	req := httptest.NewRequest(http.MethodDelete, "/beneficiaries", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/beneficiaries", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp struct {
		Records []beneficiary.Record `json:"records"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Empty(resp.Records)
}

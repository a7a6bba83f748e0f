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

	"sahayak/internal/application"
	"sahayak/internal/recordstore"
	"sahayak/pkg/secrets"
)

type ApplicationHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestApplicationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerSuite))
}

func (s *ApplicationHandlerSuite) SetupTest() {
	cipher, err := secrets.NewCipher(bytes.Repeat([]byte("k"), secrets.KeySize))
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := application.New(recordstore.NewInMemoryKV(), cipher, application.WithLogger(logger))

	s.router = chi.NewRouter()
	New(service, logger).Register(s.router)
}

func (s *ApplicationHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

const submitBody = `{"name":"Ramesh Kumar","aadhaar":"123456789012","phone":"9876543210"}`

func (s *ApplicationHandlerSuite) TestSubmit() {
	w := s.do(http.MethodPost, "/applications", submitBody)
	s.Require().Equal(http.StatusCreated, w.Code)

	var record application.Record
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &record))
	s.Equal("XXXX-XXXX-9012", record.MaskedAadhaar)
	s.Equal(application.StatusPendingVerification, record.Status)
}

func (s *ApplicationHandlerSuite) TestSubmitValidationFailure() {
	w := s.do(http.MethodPost, "/applications", `{"name":"","aadhaar":"123456789012","phone":"9876543210"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ApplicationHandlerSuite) TestSelfNotFound() {
	w := s.do(http.MethodGet, "/applications/self", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ApplicationHandlerSuite) TestReviewFlow() {
	w := s.do(http.MethodPost, "/applications", submitBody)
	s.Require().Equal(http.StatusCreated, w.Code)
	var record application.Record
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &record))

	w = s.do(http.MethodPost, "/applications/"+record.ID+"/review", `{"outcome":"approve"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var reviewed application.Record
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &reviewed))
	s.Equal(application.StatusApproved, reviewed.Status)

	// Second review conflicts.
	w = s.do(http.MethodPost, "/applications/"+record.ID+"/review", `{"outcome":"reject"}`)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *ApplicationHandlerSuite) TestReviewUnknownApplication() {
	w := s.do(http.MethodPost, "/applications/nope/review", `{"outcome":"approve"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

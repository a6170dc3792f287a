package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "grocery-manager/internal/errors"
	"grocery-manager/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type ErrorHandlerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.HTTPErrorHandler = CustomHTTPErrorHandler
}

func TestErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) handle(err error, traceID string) (*httptest.ResponseRecorder, apierrors.ErrorResponse) {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}

	CustomHTTPErrorHandler(err, c)

	var resp apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func (s *ErrorHandlerTestSuite) TestEchoNotFound() {
	rec, resp := s.handle(echo.ErrNotFound, "test-trace-id")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.ResourceUnknown), resp.Error.Code)
	s.Equal("test-trace-id", resp.Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestEchoMethodNotAllowed() {
	rec, resp := s.handle(echo.ErrMethodNotAllowed, "t")

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Equal(string(apierrors.ResourceUnknown), resp.Error.Code)
}

func (s *ErrorHandlerTestSuite) TestValidationErrors() {
	type payload struct {
		Name string `json:"name" validate:"notblank"`
	}
	err := validation.GetValidator().Struct(payload{Name: " "})
	s.Require().Error(err)

	rec, resp := s.handle(err, "t")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.ValidationGeneral), resp.Error.Code)
	s.Equal([]string{"name: is required"}, resp.Error.Details)
}

func (s *ErrorHandlerTestSuite) TestGenericErrorHidesDetails() {
	rec, resp := s.handle(errors.New("database is locked"), "t")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apierrors.SystemInternalError), resp.Error.Code)
	s.NotContains(rec.Body.String(), "database is locked")
}

func (s *ErrorHandlerTestSuite) TestMissingTraceID() {
	_, resp := s.handle(errors.New("boom"), "")
	s.Equal("unknown", resp.Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestCommittedResponseIsLeftAlone() {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	s.Require().NoError(c.JSON(http.StatusOK, map[string]string{"status": "ok"}))

	CustomHTTPErrorHandler(errors.New("late"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "SYSTEM_001")
}

func (s *ErrorHandlerTestSuite) TestStatusMapping() {
	cases := map[int]apierrors.ErrorCode{
		http.StatusBadRequest:           apierrors.ValidationGeneral,
		http.StatusUnsupportedMediaType: apierrors.ValidationInvalidFormat,
		http.StatusTooManyRequests:      apierrors.SystemRateLimitExceeded,
		http.StatusServiceUnavailable:   apierrors.SystemServiceUnavailable,
		http.StatusTeapot:               apierrors.SystemUnexpectedError,
	}
	for status, code := range cases {
		s.Equal(code, mapHTTPStatusToErrorCode(status), "status %d", status)
	}
}

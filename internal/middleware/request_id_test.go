package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

func (s *RequestIDTestSuite) TestGeneratesTraceID() {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var seen, fromCtx string
	handler := RequestID()(func(c echo.Context) error {
		seen = GetTraceID(c)
		fromCtx = TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	s.NotEmpty(seen)
	s.Equal(seen, fromCtx)
	s.Equal(seen, rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestReusesIncomingTraceID() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "client-trace")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		s.Equal("client-trace", GetTraceID(c))
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	s.Equal("client-trace", rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestUniquePerRequest() {
	ids := make(map[string]bool)
	handler := RequestID()(func(c echo.Context) error {
		ids[GetTraceID(c)] = true
		return nil
	})

	for i := 0; i < 10; i++ {
		c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		s.Require().NoError(handler(c))
	}

	s.Len(ids, 10)
}

func (s *RequestIDTestSuite) TestGetTraceIDWithoutMiddleware() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	s.Empty(GetTraceID(c))
	s.Empty(TraceIDFromContext(c.Request().Context()))
}

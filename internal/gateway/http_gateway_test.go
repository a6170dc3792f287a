package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"grocery-manager/internal/config"
	"grocery-manager/internal/dto"
	"grocery-manager/internal/models"

	"github.com/stretchr/testify/suite"
)

type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Accept      string
	ContentType string
	TraceID     string
	Body        string
}

type HTTPGatewayTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	mu       sync.Mutex
	requests []recordedRequest
	gw       GatewayInterface
}

func TestHTTPGatewaySuite(t *testing.T) {
	suite.Run(t, new(HTTPGatewayTestSuite))
}

func (s *HTTPGatewayTestSuite) SetupTest() {
	s.requests = nil
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			Accept:      r.Header.Get("Accept"),
			ContentType: r.Header.Get("Content-Type"),
			TraceID:     r.Header.Get("X-Trace-ID"),
			Body:        string(body),
		})
		handler := s.handler
		s.mu.Unlock()
		handler(w, r)
	}))

	s.gw = NewHTTPGateway(&config.GatewayConfig{
		BaseURL:             s.server.URL + "/",
		Timeout:             2 * time.Second,
		BreakerMaxFailures:  3,
		BreakerResetTimeout: time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *HTTPGatewayTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *HTTPGatewayTestSuite) lastRequest() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Require().NotEmpty(s.requests)
	return s.requests[len(s.requests)-1]
}

func (s *HTTPGatewayTestSuite) respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *HTTPGatewayTestSuite) TestListItems_DecodesRecordsInOrder() {
	s.respond(http.StatusOK, `[{"id":1,"name":"Apple","quantity":"3","price":"5","notes":""},{"id":"b2","name":"Pear","quantity":2,"price":1.5,"notes":"ripe"}]`)

	records, err := s.gw.ListItems(context.Background(), models.CategoryProduce, ListOptions{})

	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(dto.FlexString("1"), records[0].ID)
	s.Equal("Apple", records[0].Name)
	s.Equal(dto.FlexString("b2"), records[1].ID)
	s.Equal(dto.FlexString("1.5"), records[1].Price)

	req := s.lastRequest()
	s.Equal(http.MethodGet, req.Method)
	s.Equal("/fruitVeg", req.Path)
	s.Equal("", req.RawQuery)
	s.Equal("application/json", req.Accept)
}

func (s *HTTPGatewayTestSuite) TestListItems_SendsUserAndQuery() {
	_, err := s.gw.ListItems(context.Background(), models.CategoryMeat, ListOptions{UserID: "u 1", Query: "beef"})
	s.Require().NoError(err)

	req := s.lastRequest()
	s.Equal("/meat", req.Path)
	s.Equal("q=beef&userId=u+1", req.RawQuery)
}

func (s *HTTPGatewayTestSuite) TestListItems_EmptyCollection() {
	s.respond(http.StatusOK, `[]`)

	records, err := s.gw.ListItems(context.Background(), models.CategoryBeverages, ListOptions{})

	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *HTTPGatewayTestSuite) TestListItems_ServerError() {
	s.respond(http.StatusInternalServerError, `{"error":{"code":"SYSTEM_002","message":"A database error occurred","trace_id":"t"}}`)

	records, err := s.gw.ListItems(context.Background(), models.CategoryHousehold, ListOptions{})

	s.Nil(records)
	var terr *TransportError
	s.Require().True(errors.As(err, &terr))
	s.Equal(http.StatusInternalServerError, terr.StatusCode)
	s.Equal("SYSTEM_002", terr.Code)
	s.Equal("list", terr.Op)
	s.Equal("bathing", terr.Resource)
	s.True(terr.Temporary())
	s.Contains(err.Error(), "A database error occurred")
}

func (s *HTTPGatewayTestSuite) TestListItems_MalformedBody() {
	s.respond(http.StatusOK, `{"not":"a list"}`)

	_, err := s.gw.ListItems(context.Background(), models.CategoryProduce, ListOptions{})

	var terr *TransportError
	s.Require().True(errors.As(err, &terr))
	s.Contains(err.Error(), "decode response")
}

func (s *HTTPGatewayTestSuite) TestCreateItem_PostsRecordWithoutID() {
	s.respond(http.StatusCreated, `{"id":"new-1","name":"Steak","quantity":"1","price":"99.90","notes":"","userId":"7"}`)

	created, err := s.gw.CreateItem(context.Background(), models.CategoryMeat, dto.ItemRecord{
		ID: "ignored", Name: "Steak", Quantity: "1", Price: "99.90", UserID: "7",
	})

	s.Require().NoError(err)
	s.Equal(dto.FlexString("new-1"), created.ID)

	req := s.lastRequest()
	s.Equal(http.MethodPost, req.Method)
	s.Equal("/meat", req.Path)
	s.Equal("application/json", req.ContentType)

	var sent map[string]any
	s.Require().NoError(json.Unmarshal([]byte(req.Body), &sent))
	s.NotContains(sent, "id")
	s.Equal("Steak", sent["name"])
	s.Equal("7", sent["userId"])
}

func (s *HTTPGatewayTestSuite) TestGetItem_NotFound() {
	s.respond(http.StatusNotFound, `{"error":{"code":"ITEM_001","message":"Item not found","trace_id":"t"}}`)

	_, err := s.gw.GetItem(context.Background(), models.CategoryMeat, "missing")

	s.True(IsNotFound(err))
	s.Equal("/meat/missing", s.lastRequest().Path)
}

func (s *HTTPGatewayTestSuite) TestReplaceItem_PutsFullRecord() {
	s.respond(http.StatusOK, `{"id":"a/b","name":"Juice","quantity":"2","price":"3","notes":"cold"}`)

	replaced, err := s.gw.ReplaceItem(context.Background(), models.CategoryBeverages, "a/b", dto.ItemRecord{
		Name: "Juice", Quantity: "2", Price: "3", Notes: "cold",
	})

	s.Require().NoError(err)
	s.Equal("cold", replaced.Notes)

	req := s.lastRequest()
	s.Equal(http.MethodPut, req.Method)
	s.Equal("/beverages/a%2Fb", req.Path)
	s.Contains(req.Body, `"id":"a/b"`)
}

func (s *HTTPGatewayTestSuite) TestReplaceItem_NotFound() {
	s.respond(http.StatusNotFound, `{"error":{"code":"ITEM_001","message":"Item not found","trace_id":"t"}}`)

	_, err := s.gw.ReplaceItem(context.Background(), models.CategoryBeverages, "gone", dto.ItemRecord{Name: "x"})

	s.True(IsNotFound(err))
	var terr *TransportError
	s.Require().True(errors.As(err, &terr))
	s.Equal("ITEM_001", terr.Code)
	s.False(terr.Temporary())
}

func (s *HTTPGatewayTestSuite) TestRemoveItem_Success() {
	s.respond(http.StatusOK, `{}`)

	err := s.gw.RemoveItem(context.Background(), models.CategoryHousehold, "9")

	s.NoError(err)
	req := s.lastRequest()
	s.Equal(http.MethodDelete, req.Method)
	s.Equal("/bathing/9", req.Path)
}

func (s *HTTPGatewayTestSuite) TestRemoveItem_MissingIsIdempotent() {
	s.respond(http.StatusNotFound, `{"error":{"code":"ITEM_001","message":"Item not found","trace_id":"t"}}`)

	s.NoError(s.gw.RemoveItem(context.Background(), models.CategoryHousehold, "9"))
}

func (s *HTTPGatewayTestSuite) TestRemoveItem_BadRequestSurfaces() {
	s.respond(http.StatusBadRequest, `plain failure`)

	err := s.gw.RemoveItem(context.Background(), models.CategoryHousehold, "9")

	var terr *TransportError
	s.Require().True(errors.As(err, &terr))
	s.Equal(http.StatusBadRequest, terr.StatusCode)
	s.Equal("plain failure", terr.Message)
}

func (s *HTTPGatewayTestSuite) TestTitles_RoundTrip() {
	s.respond(http.StatusOK, `[{"id":3,"category":"meat","title":"Braai"}]`)

	titles, err := s.gw.ListTitles(context.Background(), ListOptions{UserID: "7"})
	s.Require().NoError(err)
	s.Require().Len(titles, 1)
	s.Equal(models.CategoryMeat, titles[0].Category)
	s.Equal("/titles", s.lastRequest().Path)
	s.Equal("userId=7", s.lastRequest().RawQuery)

	s.respond(http.StatusCreated, `{"id":4,"category":"fruitVeg","title":"Greens"}`)
	created, err := s.gw.CreateTitle(context.Background(), dto.TitleRecord{Category: models.CategoryProduce, Title: "Greens"})
	s.Require().NoError(err)
	s.Equal(dto.FlexString("4"), created.ID)
	s.Equal(http.MethodPost, s.lastRequest().Method)

	s.respond(http.StatusOK, `{"id":4,"category":"fruitVeg","title":"Veg"}`)
	replaced, err := s.gw.ReplaceTitle(context.Background(), "4", dto.TitleRecord{Category: models.CategoryProduce, Title: "Veg"})
	s.Require().NoError(err)
	s.Equal("Veg", replaced.Title)
	s.Equal("/titles/4", s.lastRequest().Path)
}

func (s *HTTPGatewayTestSuite) TestCircuitBreaker_FailsFastAfterRepeatedServerErrors() {
	s.respond(http.StatusServiceUnavailable, ``)

	for i := 0; i < 3; i++ {
		_, err := s.gw.ListItems(context.Background(), models.CategoryProduce, ListOptions{})
		s.Require().Error(err)
	}

	s.mu.Lock()
	sent := len(s.requests)
	s.mu.Unlock()

	_, err := s.gw.ListItems(context.Background(), models.CategoryProduce, ListOptions{})
	s.ErrorIs(err, ErrCircuitOpen)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Equal(sent, len(s.requests))
}

func (s *HTTPGatewayTestSuite) TestClientErrorsDoNotTripBreaker() {
	s.respond(http.StatusNotFound, ``)

	for i := 0; i < 5; i++ {
		_, err := s.gw.GetItem(context.Background(), models.CategoryProduce, "x")
		s.True(IsNotFound(err))
	}
}

func (s *HTTPGatewayTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.gw.ListItems(ctx, models.CategoryProduce, ListOptions{})

	var terr *TransportError
	s.Require().True(errors.As(err, &terr))
	s.ErrorIs(err, context.Canceled)
}

func (s *HTTPGatewayTestSuite) TestTraceIDForwarded() {
	ctx := context.WithValue(context.Background(), TraceIDKey{}, "trace-123")
	_, err := s.gw.ListTitles(ctx, ListOptions{})

	s.Require().NoError(err)
	s.Equal("trace-123", s.lastRequest().TraceID)
}

func TestTransportError_Messages(t *testing.T) {
	cases := []struct {
		err      *TransportError
		expected string
	}{
		{&TransportError{Op: "list", Resource: "meat", StatusCode: 500, Message: "boom"}, "list meat: status 500: boom"},
		{&TransportError{Op: "get", Resource: "meat", StatusCode: 404}, "get meat: status 404"},
		{&TransportError{Op: "create", Resource: "meat", Err: errors.New("dial failed")}, "create meat: dial failed"},
		{&TransportError{Op: "remove", Resource: "meat"}, "remove meat: transport failure"},
	}

	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.expected {
			t.Errorf("Error() = %q, want %q", got, tc.expected)
		}
	}
}

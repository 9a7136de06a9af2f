package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) TestLoggingAssignsRequestID() {
	var seen string
	h := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusTeapot, rr.Code)
	s.NotEmpty(seen)
	s.Equal(seen, rr.Header().Get(RequestIDHeader))
}

func (s *MiddlewareSuite) TestLoggingKeepsClientRequestID() {
	var seen string
	h := Logging(testutil.NopLogger())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	s.Equal("abc", seen)
}

func (s *MiddlewareSuite) TestRecoveryHandsPanicToHandler() {
	var recovered any
	h := Recovery(testutil.NopLogger(), func(w http.ResponseWriter, _ *http.Request, err any) {
		recovered = err
		DefaultPanicHandler(w, nil, err)
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal("boom", recovered)
	s.Equal(http.StatusInternalServerError, rr.Code)
}

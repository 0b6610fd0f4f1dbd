package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/session"
	"github.com/mrlokans/clippings/internal/testutil"
)

type testServer struct {
	router  *gin.Engine
	db      *database.Database
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T, defaults config.Clippings) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auditService, db := testutil.TestAudit(t)
	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	sessions, err := session.NewSessionManager(sqlDB, config.Session{})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Highlights:     services.NewHighlightsService(auditService, "web"),
		Database:       db,
		Audit:          auditService,
		SessionManager: sessions,
		Defaults:       defaults,
		Version:        "test",
	})
	return &testServer{router: router, db: db, cookies: make(map[string]*http.Cookie)}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		s.cookies[cookie.Name] = cookie
	}
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimsapp/rims-activation/pkg/session"
)

// Session validation runs without Redis here: the manager then checks the
// JWT signature and expiry only.

func newSessionRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	sessions := session.NewManager("test-secret", time.Hour, nil)
	h := NewSessionHandler(nil, sessions, nil, "localhost", false)

	e := gin.New()
	e.GET("/api/session/validate", h.Validate)
	return e, sessions
}

func TestValidate_AbsentCookie(t *testing.T) {
	e, _ := newSessionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session/validate", nil)
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidate_EmptyCookie(t *testing.T) {
	e, _ := newSessionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session/validate", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: ""})
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidate_UnsignedArtifactRejected(t *testing.T) {
	e, _ := newSessionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session/validate", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "some-opaque-junk"})
	e.ServeHTTP(w, req)

	// sessions are signed tokens, not a bare presence check
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidate_LiveSession(t *testing.T) {
	e, sessions := newSessionRouter(t)

	tok, _, err := sessions.Issue(context.Background(), "user-1", "a@b.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session/validate", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

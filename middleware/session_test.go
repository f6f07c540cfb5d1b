package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
)

func sessionRouter(store *services.SessionStore, idle time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(store, idle))
	router.GET("/gated", RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func getWithCookie(router *gin.Engine, sessionID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/gated", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	router.ServeHTTP(w, req)
	return w
}

func TestSessionMiddleware(t *testing.T) {
	store := services.NewSessionStore()
	store.Put(&model.Session{
		SessionID:      "live",
		ContactID:      "003A",
		User:           &model.SessionUser{ID: "003A"},
		CreatedAt:      time.Now(),
		LastActivityAt: time.Now(),
	})
	store.Put(&model.Session{
		SessionID:      "idle",
		ContactID:      "003B",
		User:           &model.SessionUser{ID: "003B"},
		CreatedAt:      time.Now().Add(-72 * time.Hour),
		LastActivityAt: time.Now().Add(-72 * time.Hour),
	})

	router := sessionRouter(store, 48*time.Hour)

	tests := []struct {
		name      string
		sessionID string
		wantCode  int
	}{
		{"live session passes", "live", http.StatusOK},
		{"idle session is rejected", "idle", http.StatusUnauthorized},
		{"unknown session is rejected", "ghost", http.StatusUnauthorized},
		{"no cookie is rejected", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getWithCookie(router, tt.sessionID)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}

	// The idle session was ended on sight.
	if store.Get("idle") != nil {
		t.Error("idle session should have been deleted")
	}
}

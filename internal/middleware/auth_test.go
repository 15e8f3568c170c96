package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticParser map[string]uint

func (p staticParser) ParseToken(token string) (uint, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(staticParser{"good": 7}))
	r.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header  string
		query   string
		upgrade bool
		want    int
	}{
		{"missing", "", "", false, http.StatusUnauthorized},
		{"bearer", "Bearer good", "", false, http.StatusOK},
		{"lowercase scheme", "bearer good", "", false, http.StatusOK},
		{"wrong scheme", "Basic good", "", false, http.StatusUnauthorized},
		{"invalid", "Bearer nope", "", false, http.StatusUnauthorized},
		{"query param on plain request", "", "good", false, http.StatusUnauthorized},
		{"query param on websocket upgrade", "", "good", true, http.StatusOK},
		{"invalid query param on upgrade", "", "nope", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/me"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":7}`, w.Body.String())
			}
		})
	}
}

package handler

import (
	"LittleStories/internal/api/middleware"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/service"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestPrincipalFrom(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, principalFrom(c))

	c.Set(middleware.CtxUserID, "user-1")
	c.Set(middleware.CtxRoles, []string{"AUTHOR"})
	p := principalFrom(c)
	require.NotNil(t, p)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, []string{"AUTHOR"}, p.Roles)
}

func TestSessionCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	c, w := newContext(req)

	setSessionCookie(c, &service.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, consts.SessionCookie, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestRedirectError(t *testing.T) {
	c, w := newContext(httptest.NewRequest(http.MethodPost, "/sign-in", nil))
	redirectError(c, "/sign-in", service.ErrInvalidCredentials)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusSeeOther, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", location.Path)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), location.Query().Get("error"))

	// 未登记的错误不能把内部信息带到页面上
	c, w = newContext(httptest.NewRequest(http.MethodPost, "/sign-up", nil))
	redirectError(c, "/sign-up", errors.New("pq: connection refused"))
	location, err = url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, service.UnExpectedError.Error(), location.Query().Get("error"))
}

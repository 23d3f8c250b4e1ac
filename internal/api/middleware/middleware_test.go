package middleware

import (
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/redis"
	"LittleStories/internal/pkg/security"
	"LittleStories/internal/pkg/testutils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(CtxUserID),
		"roles":   c.GetStringSlice(CtxRoles),
	})
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/required", AuthMiddleware(), whoAmI)
	r.GET("/optional", AuthOptionalMiddleware(), whoAmI)
	r.POST("/protected", ProtectedMiddleware(), whoAmI)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	testutils.SetupRedis(t)
	r := newAuthRouter()
	token, _, err := security.GenerateToken("user-1", []string{"author"})
	require.NoError(t, err)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/required", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":401`)

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"author"`)

	req = httptest.NewRequest(http.MethodGet, "/required", nil)
	req.AddCookie(&http.Cookie{Name: consts.SessionCookie, Value: token})
	w = serve(r, req)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
}

func TestAuthMiddlewareRevokedSession(t *testing.T) {
	testutils.SetupRedis(t)
	r := newAuthRouter()
	token, _, err := security.GenerateToken("user-1", nil)
	require.NoError(t, err)
	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, redis.SetWithExpiration(t.Context(), consts.SessionRevokedKey+signature, 1, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Contains(t, w.Body.String(), `"code":401`)

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestAuthMiddlewareRedisDown(t *testing.T) {
	mr := testutils.SetupRedis(t)
	r := newAuthRouter()
	token, _, err := security.GenerateToken("user-1", nil)
	require.NoError(t, err)
	mr.Close()

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Contains(t, w.Body.String(), `"code":500`)
}

func TestAuthOptionalMiddlewareGarbageToken(t *testing.T) {
	testutils.SetupRedis(t)
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := serve(newAuthRouter(), req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestProtectedMiddlewareRedirects(t *testing.T) {
	testutils.SetupRedis(t)
	w := serve(newAuthRouter(), httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/sign-in", w.Header().Get("Location"))
}

func TestRedactForm(t *testing.T) {
	assert.Equal(t, "email=a@b.com&password=***", redactForm("email=a%40b.com&password=hunter2"))
	assert.Equal(t, "claim_token=***&code=***", redactForm("code=abc&claim_token=xyz"))
	assert.Equal(t, "", redactForm(""))
}

func TestCommonMiddlewareBaseURL(t *testing.T) {
	capture := func(siteURL string, req *http.Request) string {
		var got string
		r := gin.New()
		r.Use(CommonMiddleware(siteURL))
		r.GET("/", func(c *gin.Context) { got = BaseURL(c.Request.Context()) })
		serve(r, req)
		return got
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	assert.Equal(t, "https://stories.example", capture("https://stories.example/", req))

	assert.Equal(t, "http://evil.example", capture("", req.Clone(req.Context())))

	req = httptest.NewRequest(http.MethodGet, "http://api.example/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://api.example", capture("", req))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

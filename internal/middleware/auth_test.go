package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"traubling/internal/model"
	"traubling/internal/pkg"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*model.User, *pkg.Claims, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*model.User)
	c, _ := args.Get(1).(*pkg.Claims)
	return u, c, args.Error(2)
}

func newAuthRouter(auth Authenticator, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := OptionalAuth(auth)
	if required {
		mw = RequireAuth(auth, zap.NewNop())
	}
	r.GET("/me", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "sid": SessionID(c)})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Authenticate", mock.Anything, "good").Return(&model.User{ID: 7}, &pkg.Claims{SessionID: "s1"}, nil)
	auth.On("Authenticate", mock.Anything, "revoked").Return(nil, nil, service.ErrSessionRevoked)
	auth.On("Authenticate", mock.Anything, "ghost").Return(nil, nil, service.ErrUserNotFound)
	auth.On("Authenticate", mock.Anything, "boom").Return(nil, nil, errors.New("redis down"))
	r := newAuthRouter(auth, true)

	w := doGet(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"sid":"s1"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer revoked").Code)
	assert.Equal(t, http.StatusNotFound, doGet(r, "Bearer ghost").Code)
	assert.Equal(t, http.StatusInternalServerError, doGet(r, "Bearer boom").Code)
	auth.AssertExpectations(t)
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, nil, service.ErrUnauthenticated)
	r := newAuthRouter(auth, false)

	w := doGet(r, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"sid":""}`, w.Body.String())

	w = doGet(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	auth.AssertNumberOfCalls(t, "Authenticate", 1)
}

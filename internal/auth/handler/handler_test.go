package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carins/internal/auth/handler"
	"carins/internal/auth/models"
	"carins/internal/platform/middleware"
	dErrors "carins/pkg/domainerrors"
	"carins/pkg/testutil"
)

type stubService struct {
	registerUser models.User
	registerErr  error
	loginUser    models.User
	loginErr     error
}

func (s *stubService) Register(_ context.Context, _, _, _ string) (models.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubService) Login(_ context.Context, _, _ string) (models.User, error) {
	return s.loginUser, s.loginErr
}

type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Generate(models.User) (string, error) {
	return s.token, s.err
}

func newRouter(svc *stubService, issuer *stubIssuer) chi.Router {
	h := handler.New(svc, issuer, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "ana", Role: models.RoleUser}
	router := newRouter(&stubService{registerUser: user}, &stubIssuer{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ana",
		"password": "secret123",
		"email":    "ana@example.com",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	testutil.AssertJSONContains(t, rr, "username", "ana")
}

func TestHandleRegisterValidation(t *testing.T) {
	router := newRouter(&stubService{}, &stubIssuer{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ab",
		"password": "secret123",
		"email":    "ana@example.com",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "Validation Error")
}

func TestHandleLoginSetsCookie(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "ana", Role: models.RoleUser}
	router := newRouter(&stubService{loginUser: user}, &stubIssuer{token: "signed-token"})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ana",
		"password": "secret123",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)

	cookie := findCookie(t, rr.Result(), middleware.CookieName)
	require.NotNil(t, cookie, "login must set the token cookie")
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestHandleLoginFailure(t *testing.T) {
	router := newRouter(&stubService{
		loginErr: dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password"),
	}, &stubIssuer{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ana",
		"password": "wrong",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "Authentication Error")
	assert.Nil(t, findCookie(t, rr.Result(), middleware.CookieName), "failed login must not set a cookie")
}

func TestHandleLogoutClearsCookie(t *testing.T) {
	router := newRouter(&stubService{}, &stubIssuer{})

	req := testutil.NewRequest(t, http.MethodPost, "/api/auth/logout")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)

	cookie := findCookie(t, rr.Result(), middleware.CookieName)
	require.NotNil(t, cookie, "logout must overwrite the token cookie")
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0, "cleared cookie must expire immediately")
}

func TestHandleVerify(t *testing.T) {
	router := newRouter(&stubService{}, &stubIssuer{})

	t.Run("anonymous", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/auth/verify")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "authenticated", false)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/auth/verify")
		req = testutil.WithPrincipal(req, uuid.New(), "ana", string(models.RoleUser))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, true, (*resp)["authenticated"])
		assert.Equal(t, "ana", (*resp)["username"])
	})
}

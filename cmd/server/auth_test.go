package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValueRoundTrip(t *testing.T) {
	auth := newAuthService(nil, testSessionSecret, false)

	value := auth.createSessionValue(testAdminEmail)
	email, ok := auth.verifySessionValue(value)
	require.True(t, ok)
	assert.Equal(t, testAdminEmail, email)
}

func TestSessionValueRejectsTampering(t *testing.T) {
	auth := newAuthService(nil, testSessionSecret, false)
	other := newAuthService(nil, "another-secret", false)

	value := auth.createSessionValue(testAdminEmail)

	for name, candidate := range map[string]string{
		"other secret":    other.createSessionValue(testAdminEmail),
		"no separator":    strings.ReplaceAll(value, ".", ""),
		"extra separator": value + ".x",
		"bad hex":         strings.Split(value, ".")[0] + ".zz",
		"empty":           "",
	} {
		_, ok := auth.verifySessionValue(candidate)
		assert.False(t, ok, name)
	}
}

func TestValidateCredentials(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	ok, err := srv.auth.validateCredentials(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = srv.auth.validateCredentials(ctx, testAdminEmail, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = srv.auth.validateCredentials(ctx, "nobody@mkm.test", testAdminPassword)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureAdminUserIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, srv.auth.ensureAdminUser(context.Background(), testAdminEmail, testAdminPassword))
	}
	require.NoError(t, srv.auth.ensureAdminUser(context.Background(), "", ""))

	var count int
	require.NoError(t, srv.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{"email": {testAdminEmail}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := serve(srv, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Credenciais inválidas")

	form.Set("password", testAdminPassword)
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = serve(srv, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	home := httptest.NewRequest(http.MethodGet, "/", nil)
	home.AddCookie(cookies[0])
	assert.Equal(t, http.StatusOK, serve(srv, home).Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(srv, withSession(srv, httptest.NewRequest(http.MethodPost, "/logout", nil)))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

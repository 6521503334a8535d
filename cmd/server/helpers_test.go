package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/db"
	"github.com/Simplici0/mkm/internal/migrations"
)

const (
	testAdminEmail    = "admin@mkm.test"
	testAdminPassword = "s3nha"
	testSessionSecret = "test-secret"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database, zap.NewNop()))
	return database
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	database := newTestDB(t)
	auth := newAuthService(database, testSessionSecret, false)
	require.NoError(t, auth.ensureAdminUser(context.Background(), testAdminEmail, testAdminPassword))

	return &server{
		auth: auth,
		db:   database,
		log:  zap.NewNop(),
		defaults: formDefaults{
			Origin: "SC",
			Dest:   "SC",
			Markup: 15,
		},
	}
}

func withSession(s *server, req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: s.auth.createSessionValue(testAdminEmail)})
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(s *server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)
	return rr
}

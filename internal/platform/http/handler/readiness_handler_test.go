package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type readinessBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serveReadiness(t *testing.T, checks map[string]Check) (*httptest.ResponseRecorder, readinessBody) {
	t.Helper()

	r := gin.New()
	r.GET("/readyz", Readiness(checks))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body readinessBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   readinessBody
	}{
		{
			name:       "all checks pass",
			checks:     map[string]Check{"database": ok, "redis": ok},
			wantStatus: http.StatusOK,
			wantBody:   readinessBody{Status: "ok", Checks: map[string]string{"database": "ok", "redis": "ok"}},
		},
		{
			name:       "no checks",
			checks:     map[string]Check{},
			wantStatus: http.StatusOK,
			wantBody:   readinessBody{Status: "ok", Checks: map[string]string{}},
		},
		{
			name:       "one failing check",
			checks:     map[string]Check{"database": ok, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: readinessBody{
				Status: "unavailable",
				Checks: map[string]string{"database": "ok", "redis": "connection refused"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, body := serveReadiness(t, tt.checks)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestDBCheck(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, DBCheck(db)(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, DBCheck(db)(context.Background()), "a closed pool is not ready")
}

func TestRedisCheck(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("timeout"))

	check := RedisCheck(rdb)
	assert.NoError(t, check(context.Background()))
	assert.EqualError(t, check(context.Background()), "timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}

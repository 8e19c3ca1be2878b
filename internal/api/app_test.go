package api

import (
	"net/http"
	"testing"

	"github.com/coursekit/coursechat/internal/config"
	"github.com/coursekit/coursechat/internal/database"
	"github.com/coursekit/coursechat/internal/membership"
	"github.com/coursekit/coursechat/internal/server"
	"github.com/coursekit/coursechat/internal/testutil"
	"github.com/coursekit/coursechat/internal/unread"
	"github.com/stretchr/testify/assert"
)

func TestNewCourseChatApp(t *testing.T) {
	mux := http.NewServeMux()
	logger := testutil.TestLogger(t)
	cs := &server.ChatServer{}
	db := &database.MockCourseRepository{}
	oracle := &membership.MockOracle{}
	store := &unread.MockStore{}
	cfg := &config.Config{
		ServerAddr:     "localhost:8080",
		DatabaseDSN:    "dsn",
		RedisAddr:      "localhost:6379",
		SigningKey:     []byte("secret"),
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	app := NewCourseChatApp(mux, logger, cs, db, oracle, store, cfg)

	assert.NotNil(t, app, "expected app to be initialized")
	assert.NotNil(t, app.mux, "expected mux to be initialized")
	assert.NotNil(t, app.generateShortId, "expected shortid generator to be set")
	assert.Equal(t, app.log, logger, "expected logger to be set")
	assert.Equal(t, app.db, db, "expected db to be set")
	assert.Equal(t, app.oracle, oracle, "expected oracle to be set")
	assert.Equal(t, app.unread, store, "expected unread store to be set")
	assert.Equal(t, app.cs, cs, "expected chat server to be set")
	assert.Equal(t, app.signingKey, cfg.SigningKey, "expected signing key to be set")
	assert.Equal(t, app.allowedOrigins, cfg.AllowedOrigins, "expected allowed origins to be set")
	assert.Equal(t, app.mux.Addr, cfg.ServerAddr, "expected server address to match config")
}

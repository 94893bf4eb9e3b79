package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestOAuthConfig(t *testing.T) {
	t.Setenv("OAUTH_GOOGLE_CLIENT_ID", "")
	t.Setenv("OAUTH_GOOGLE_CLIENT_SECRET", "")
	assert.Nil(t, oauthConfig("127.0.0.1:8080", ""), "drafts are disabled without credentials")

	t.Setenv("OAUTH_GOOGLE_CLIENT_ID", "id")
	t.Setenv("OAUTH_GOOGLE_CLIENT_SECRET", "secret")

	cfg := oauthConfig("127.0.0.1:8080", "")
	require.NotNil(t, cfg)
	assert.Equal(t, "http://127.0.0.1:8080/oauth", cfg.RedirectURL)
	assert.Equal(t, []string{gmail.GmailComposeScope}, cfg.Scopes)

	cfg = oauthConfig("127.0.0.1:8080", "https://example.com/oauth")
	assert.Equal(t, "https://example.com/oauth", cfg.RedirectURL)
}

func TestMustSetupLogger(t *testing.T) {
	logger := mustSetupLogger(true, "", false)
	assert.False(t, logger.Core().Enabled(-1), "stdio without a log file is silent")

	path := filepath.Join(t.TempDir(), "compose.log")
	logger = mustSetupLogger(true, path, true)
	assert.True(t, logger.Core().Enabled(-1), "verbose enables debug")
	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}

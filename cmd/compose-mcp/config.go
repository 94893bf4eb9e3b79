package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"

	"github.com/hal9000y/compose-mcp/internal/auth"
)

func mustLoadEnv(envFile string) {
	if envFile == "" {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		panic(fmt.Errorf("godotenv.Load failed: %w", err))
	}
}

// oauthConfig returns nil when the Google client credentials are not set.
func oauthConfig(lnAddr, oauthURLParam string) *oauth2.Config {
	oauthClientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	oauthClientSec := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if oauthClientID == "" || oauthClientSec == "" {
		return nil
	}

	oauthURL := fmt.Sprintf("http://%s/oauth", lnAddr)
	if oauthURLParam != "" {
		oauthURL = oauthURLParam
	}

	return auth.NewConfig(oauthClientID, oauthClientSec, oauthURL)
}

// mustSetupLogger logs to stdout, or to logFile when set. Stdio transport
// owns stdout, so without a log file logging is disabled there.
func mustSetupLogger(enableStdio bool, logFile string, verbose bool) *zap.Logger {
	if enableStdio && logFile == "" {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	} else {
		cfg.OutputPaths = []string{"stdout"}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("cfg.Build failed: %w", err))
	}

	return logger
}

func openBrowser(url string, logger *zap.Logger) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		logger.Warn("Could not open browser automatically, please open the link manually", zap.String("url", url), zap.Error(err))
	}
}

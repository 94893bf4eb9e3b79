// compose-mcp serves email composition tools through Model Context Protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/auth"
	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/gservice"
	"github.com/hal9000y/compose-mcp/internal/metrics"
	"github.com/hal9000y/compose-mcp/internal/store"
	"github.com/hal9000y/compose-mcp/internal/tone"
	"github.com/hal9000y/compose-mcp/internal/tool"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "HTTP SERVER listen addr")
	oauthTokenFile := flag.String("oauth-token-file", "./data/compose-mcp-token.json", "Path to cache google oauth token, empty to avoid storing")
	oauthURLParam := flag.String("oauth-url", "", "OAuth URL")
	envFileParam := flag.String("env-file", "", "Path to env file")
	enableStdio := flag.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	logFile := flag.String("log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")
	dbFile := flag.String("db-file", "./data/compose-mcp.db", "Path to the SQLite database of saved templates")
	geminiModel := flag.String("gemini-model", gservice.DefaultGeminiModel, "Gemini model used for tone analysis and email generation")
	toneSessions := flag.Int("tone-sessions", tone.DefaultMaxSessions, "Max number of sessions whose tone budgets are tracked")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	mustLoadEnv(*envFileParam)

	logger := mustSetupLogger(*enableStdio, *logFile, *verbose)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln := mustListen(*httpAddr)
	mux := http.NewServeMux()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	templates := mustOpenStore(ctx, *dbFile, logger)
	defer func() {
		if err := templates.Close(); err != nil {
			logger.Error("templates.Close failed", zap.Error(err))
		}
	}()

	budgets, err := tone.NewBudgets(*toneSessions, tone.MaxCalls)
	if err != nil {
		panic(fmt.Errorf("tone.NewBudgets failed: %w", err))
	}

	deps := tool.Deps{
		Budgets:   budgets,
		Templates: templates,
		Metrics:   metrics.NewRecorder(reg),
		Logger:    logger,
	}

	var remote tone.Remote
	var model compose.Model
	if gemini := newGemini(ctx, *geminiModel, logger); gemini != nil {
		remote, model = gemini, gemini
	}
	deps.Tone = tone.NewEngine(remote, logger.Named("tone"))
	deps.Generator = compose.NewGenerator(model, logger.Named("compose"))

	if config := oauthConfig(ln.Addr().String(), *oauthURLParam); config != nil {
		tok, err := auth.NewToken(config, *oauthTokenFile, logger.Named("auth"))
		if err != nil {
			panic(fmt.Errorf("auth.NewToken failed: %w", err))
		}

		defer func() {
			logger.Info("Persisting token if exists")
			if err := tok.Persist(); err != nil {
				logger.Error("tok.Persist failed", zap.Error(err))
			}
		}()

		mux.Handle("/oauth", auth.NewHTTPHandler(tok, logger.Named("auth")))
		deps.Drafts = gservice.NewGmail(config, tok)

		if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
			openBrowser(config.RedirectURL, logger)
		}
	} else {
		logger.Warn("OAUTH_GOOGLE_CLIENT_ID or OAUTH_GOOGLE_CLIENT_SECRET not set, create_draft is disabled")
	}

	composeT := tool.NewServer(deps)
	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return composeT }, nil)
	mux.Handle("/mcp", mcpHTTP)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)

	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	stopHTTP, errHTTPCh := serveHTTP(srv, ln, logger)
	defer stopHTTP()

	var errStdioCh <-chan error
	if *enableStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(composeT, logger)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		logger.Error("Error http server", zap.Error(err))
	case err := <-errStdioCh:
		logger.Error("Error stdio", zap.Error(err))
	case <-shutdown:
		logger.Info("Shutdown signal received")
	}
}

func serveStdio(srv *mcp.Server, logger *zap.Logger) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		logger.Info("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			err = fmt.Errorf("srv.Run failed: %w", err)
			errStdioCh <- err
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		logger.Info("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener, logger *zap.Logger) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		logger.Info("Starting http server", zap.String("addr", ln.Addr().String()))

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errHTTPCh <- fmt.Errorf("srv.Serve failed: %w", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("srv.Shutdown failed", zap.Error(err))
		}

		<-errHTTPCh
		logger.Info("HTTP server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr string) net.Listener {
	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func mustOpenStore(ctx context.Context, path string, logger *zap.Logger) *store.Templates {
	if path == "" {
		panic("-db-file must be provided")
	}

	templates, err := store.Open(ctx, filepath.Clean(path), logger.Named("store"))
	if err != nil {
		panic(fmt.Errorf("store.Open failed: %w", err))
	}

	return templates
}

func newGemini(ctx context.Context, model string, logger *zap.Logger) *gservice.Gemini {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, tone analysis is local and generated emails use the fallback")
		return nil
	}

	gemini, err := gservice.NewGemini(ctx, apiKey, model)
	if err != nil {
		panic(fmt.Errorf("gservice.NewGemini failed: %w", err))
	}

	return gemini
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nestchat/auth"
	"nestchat/contract"
	"nestchat/internal"
	"nestchat/moderation"
	"nestchat/observability"
	"nestchat/projection"
	"nestchat/repositories"
	"nestchat/search"
	"nestchat/services"
	"nestchat/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	auth.SetSigningKey(config.JWTSecret)

	ctx := context.Background()

	// 2. Database (BadgerDB)
	options := buildBadgerOpts(config, logger, ctx)

	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (Bluge)
	blugeCfg := bluge.DefaultConfig(config.BlugeFilepath)
	blugeWriter, err := bluge.OpenWriter(blugeCfg)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Moderation dictionary & automaton
	words, err := moderation.LoadWordList()
	if err != nil {
		return exitRuntime, fmt.Errorf("loading censored words failed: %w", err)
	}
	moderator, err := moderation.NewModerator(words.Words, charReplacement, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("building moderation automaton failed: %w", err)
	}
	logger.Info("Moderation dictionary loaded", "words", len(words.Words), "languages", words.Languages)

	// 5. Repositories, counters and event sinks
	userRepository := repositories.NewUserRepository(db)
	apartmentRepository := repositories.NewApartmentRepository(db)
	conversationRepository := repositories.NewConversationRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger)

	stats := observability.NewStats(logger)
	index := search.NewIndex(blugeWriter, logger)
	timeline := projection.NewTimeline(50)
	sinks := []contract.EventSink{
		observability.NewStatsSink(stats, logger),
		search.NewIndexSink(index, logger),
		timeline,
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		internal.StartDebugServer(db, config.DebugPort, endpoint, internal.ChatMapper, func() map[string]any {
			snapshot := stats.Take()
			values := map[string]any{
				"Conversations": snapshot.ConversationsStarted,
				"Messages":      snapshot.MessagesAppended,
				"Read":          snapshot.MessagesRead,
				"Searches":      snapshot.SearchQueries,
				"RSS MB":        snapshot.RssMb,
				"Goroutines":    snapshot.NumGoroutine,
			}
			if recent := timeline.Recent(); len(recent) > 0 {
				last := recent[len(recent)-1]
				values["Last message"] = fmt.Sprintf("%s (%s)", last.Preview, last.At.Format("15:04:05"))
			}
			return values
		})
	}

	// 6. Services
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	apartmentService := services.NewApartmentService(apartmentRepository, userRepository)
	messageService := services.NewMessageService(
		logger, conversationRepository, messageRepository,
		&moderator, stats, config.MaxContentLength, sinks,
	)
	conversationService := services.NewConversationService(
		logger, conversationRepository, apartmentRepository, userRepository, messageRepository,
		messageService, stats, config.MaxContentLength, sinks,
	)

	// 7. HTTP server setup
	router := web.NewRouter(web.Deps{
		Log:           logger,
		Auth:          authService,
		Apartments:    apartmentService,
		Conversations: conversationService,
		Messages:      messageService,
		Search:        index,
		Stats:         stats,
	})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	// 8. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Badger never reclaims value log space on its own, so a background loop
	// does it until the signal context is cancelled.
	go repositories.RunGC(ctx, db, config.GCInterval, logger)

	// Use an error channel to capture ListenAndServe() issues asynchronously.
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	// The execution blocks here until either a signal is received or the server crashes.
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 10. Final Cleanup (Graceful Shutdown)
	// In-flight requests get ShutdownTimeout to finish before the listener is torn down.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("http server shutdown failed: %w", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

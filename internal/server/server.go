// Package server provides the HTTP REST API for the text corrector.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zalint/text-corrector/internal/cache"
	"github.com/zalint/text-corrector/internal/config"
	"github.com/zalint/text-corrector/internal/correction"
	"github.com/zalint/text-corrector/internal/db"
	"github.com/zalint/text-corrector/internal/detect"
	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/reformulate"
	"github.com/zalint/text-corrector/internal/sentinel"
	"github.com/zalint/text-corrector/internal/server/middleware"
	"github.com/zalint/text-corrector/internal/server/ratelimit"
	"github.com/zalint/text-corrector/internal/verify"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llmClient  llm.Client
	cacheStore cache.Store

	corrector    Corrector
	verifier     Verifier
	detector     Detector
	reformulator Reformulator
	store        CorrectionStore

	rateLimiter *ratelimit.Limiter
	tokens      *SessionTokens
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance
func New(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	llmClient, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	var cacheStore cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cacheStore = redisStore
	} else {
		cacheStore = cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL)
	}

	var sent *sentinel.Sentinel
	if cfg.SentinelEnabled {
		sent = sentinel.New(llmClient)
	}

	s := &Server{
		llmClient:    llmClient,
		cacheStore:   cacheStore,
		corrector:    correction.NewEngine(llmClient, cacheStore, sent, correction.Config{}),
		verifier:     verify.New(llmClient),
		detector:     detect.New(llmClient),
		reformulator: reformulate.New(llmClient),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = database
		s.store = database
	} else {
		log.Warn().Str("component", "server").Msg("no DATABASE_URL set, running without persistence")
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.tokens = NewSessionTokens(jwtConfig)
	if s.db != nil {
		s.userService = NewUserService(s.db, passwordConfig)
		s.authHandler = NewAuthHandler(s.userService, s.tokens)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Correction calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(s.tokens.Validator())
	optionalAuth := middleware.OptionalAuthMiddleware(s.tokens.Validator())

	// Correction endpoints work for guests; authentication only adds
	// persistence.
	mux.Handle("POST /api/correct", optionalAuth(http.HandlerFunc(s.handleCorrect)))
	mux.Handle("POST /api/reformulate", optionalAuth(http.HandlerFunc(s.handleReformulate)))
	mux.HandleFunc("POST /api/detect-language", s.handleDetectLanguage)

	if s.authHandler != nil {
		mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
		mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
		mux.Handle("POST /api/auth/change-password", requireAuth(http.HandlerFunc(s.authHandler.UpdatePassword)))
	}

	mux.Handle("GET /api/history", requireAuth(http.HandlerFunc(s.handleHistory)))
	mux.Handle("GET /api/stats", requireAuth(http.HandlerFunc(s.handleStats)))
	mux.Handle("GET /api/text-details/{id}", requireAuth(http.HandlerFunc(s.handleTextDetails)))
	mux.Handle("GET /api/text-errors/{id}", requireAuth(http.HandlerFunc(s.handleTextErrors)))
	mux.Handle("GET /api/reformulations", requireAuth(http.HandlerFunc(s.handleReformulations)))
	mux.Handle("GET /api/dashboard", requireAuth(http.HandlerFunc(s.handleDashboard)))

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("component", "server").Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("component", "server").Msg("server error")
		}
	}()

	<-stop
	log.Info().Str("component", "server").Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if closer, ok := s.cacheStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Str("component", "server").Msg("cache close failed")
		}
	}
	if err := s.llmClient.Close(); err != nil {
		log.Warn().Err(err).Str("component", "server").Msg("model client close failed")
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Info().Str("component", "server").Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("component", "server").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For would only
// be safe behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	respondJSON(w, http.StatusTooManyRequests, response)
}

package web

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"fedup-chat/internal/infra/logging"
	"fedup-chat/internal/infra/redis"
	"fedup-chat/internal/usecase"
)

type Server struct {
	convoUC    usecase.ConversationUseCase
	sessionUC  usecase.SessionUseCase
	demoUC     usecase.DemoSessionUseCase
	quotaUC    usecase.QuotaUseCase
	settingsUC usecase.SettingsUseCase
	waitlistUC usecase.WaitlistUseCase
	visitors   *redis.VisitorCounter
	auth       *AuthManager
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	convoUC usecase.ConversationUseCase,
	sessionUC usecase.SessionUseCase,
	demoUC usecase.DemoSessionUseCase,
	quotaUC usecase.QuotaUseCase,
	settingsUC usecase.SettingsUseCase,
	waitlistUC usecase.WaitlistUseCase,
	visitors *redis.VisitorCounter,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		convoUC:    convoUC,
		sessionUC:  sessionUC,
		demoUC:     demoUC,
		quotaUC:    quotaUC,
		settingsUC: settingsUC,
		waitlistUC: waitlistUC,
		visitors:   visitors,
		auth:       auth,
		apiKey:     apiKey,
		log:        logger,
	}
}

// RegisterRoutes sets up the public chat API and the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/health", healthHandler())

	mux.Handle("/api/auth/google", googleAuthHandler(s.auth))
	mux.Handle("/api/auth/logout", logoutHandler(s.auth))

	mux.Handle("/api/chat", s.sessionMiddleware(chatHandler(s.convoUC)))
	mux.Handle("/api/chat-demo", demoChatHandler(s.demoUC))
	mux.Handle("/api/session", s.sessionMiddleware(s.sessionRouter()))
	mux.Handle("/api/settings", s.sessionMiddleware(s.settingsRouter()))

	mux.Handle("/api/waitlist", waitlistHandler(s.waitlistUC))
	mux.Handle("/api/visitor-count", visitorCountHandler(s.visitors))

	// Support/ops routes sit behind the static API key.
	quotaRouter := s.adminMiddleware(s.quotaRouter())
	mux.Handle("/api/v1/quota/", quotaRouter)
}

// sessionMiddleware authenticates the Google-backed session JWT and stashes
// the user id in the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := logging.WithUserID(r.Context(), claims.Subject)
		ctx = withUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) sessionRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			sessionLoadHandler(s.sessionUC)(w, r)
		case http.MethodDelete:
			sessionDeleteHandler(s.sessionUC)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (s *Server) settingsRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settingsGetHandler(s.settingsUC)(w, r)
		case http.MethodPut:
			settingsPutHandler(s.settingsUC)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// quotaRouter handles /api/v1/quota/{userID}.
func (s *Server) quotaRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimPrefix(r.URL.Path, "/api/v1/quota/")
		userID = strings.TrimSuffix(userID, "/")
		if userID == "" || strings.Contains(userID, "/") {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodGet:
			quotaGetHandler(s.quotaUC, userID)(w, r)
		case http.MethodPut:
			quotaRaiseHandler(s.quotaUC, userID)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

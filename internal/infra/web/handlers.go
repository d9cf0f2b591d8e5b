package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/infra/api"
	"fedup-chat/internal/infra/metrics"
	"fedup-chat/internal/infra/redis"
	"fedup-chat/internal/usecase"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

func withUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func userIDFrom(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ---- Auth ----

type googleAuthRequest struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
	Provider string `json:"provider"`
}

func googleAuthHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req googleAuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := model.NewUser(req.UID, req.Name, req.Email, req.PhotoURL, req.Provider)
		if err != nil {
			// Only Google identities get a session; anything else stays
			// anonymous.
			writeError(w, http.StatusUnauthorized, "unsupported identity provider")
			return
		}
		token, err := auth.Mint(w, u.UID, u.Name, u.Email, u.PhotoURL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to mint session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func logoutHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- Authenticated chat ----

type chatRequest struct {
	Message string `json:"message"`
	IsVoice bool   `json:"isVoice"`
}

type chatResponse struct {
	Response       string         `json:"response"`
	Message        *model.Message `json:"messageEntry,omitempty"`
	UserTurns      int            `json:"userTurns"`
	VoiceUserTurns int            `json:"voiceUserTurns"`
	LimitReached   bool           `json:"limitReached,omitempty"`
}

func chatHandler(convoUC usecase.ConversationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		}

		res, err := convoUC.SendTurn(r.Context(), userIDFrom(r.Context()), req.Message, req.IsVoice)
		if err != nil {
			if errors.Is(err, domain.ErrTurnInFlight) {
				writeError(w, http.StatusConflict, "a reply is already on its way")
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		switch res.Outcome {
		case usecase.TurnNoop:
			metrics.IncTurn("auth", "noop")
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		case usecase.TurnLimited:
			metrics.IncTurn("auth", "limited")
			if req.IsVoice && res.VoiceUserTurns >= res.Caps.VoiceTurns && res.UserTurns < res.Caps.TextTurns {
				metrics.IncQuotaBlock("voice")
			} else {
				metrics.IncQuotaBlock("text")
			}
		case usecase.TurnFallback:
			metrics.IncTurn("auth", "fallback")
			metrics.IncFallback("auth")
		default:
			metrics.IncTurn("auth", "completed")
		}

		writeJSON(w, http.StatusOK, chatResponse{
			Response:       res.Reply.Text,
			Message:        res.Reply,
			UserTurns:      res.UserTurns,
			VoiceUserTurns: res.VoiceUserTurns,
			LimitReached:   res.Outcome == usecase.TurnLimited,
		})
	}
}

// ---- Demo chat ----

type demoChatRequest struct {
	Message string `json:"message"`
	Record  string `json:"record"`
}

type demoChatResponse struct {
	Response string          `json:"response,omitempty"`
	Messages []model.Message `json:"messages"`
	IsLocked bool            `json:"isLocked"`
	Record   string          `json:"record,omitempty"`
	Tampered bool            `json:"tampered,omitempty"`
}

func demoChatHandler(demoUC usecase.DemoSessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			demoLoadHandler(demoUC)(w, r)
		case http.MethodPost:
			demoSendHandler(demoUC)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func demoLoadHandler(demoUC usecase.DemoSessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := demoUC.Load(r.Context(), r.URL.Query().Get("record"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		if st.Tampered {
			metrics.IncDemoTamper()
		}
		writeJSON(w, http.StatusOK, demoChatResponse{
			Messages: st.Session.Messages,
			IsLocked: st.Session.IsLocked,
			Record:   st.Record,
			Tampered: st.Tampered,
		})
	}
}

func demoSendHandler(demoUC usecase.DemoSessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req demoChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		}

		st, err := demoUC.SendTurn(r.Context(), req.Record, req.Message)
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		case errors.Is(err, domain.ErrTampered):
			metrics.IncDemoTamper()
			writeJSON(w, http.StatusOK, demoChatResponse{
				Messages: []model.Message{},
				IsLocked: true,
				Tampered: true,
			})
			return
		case errors.Is(err, domain.ErrDemoLocked):
			metrics.IncTurn("demo", "limited")
			metrics.IncQuotaBlock("demo")
			writeJSON(w, http.StatusOK, demoChatResponse{
				Response: usecase.DemoLimitReply,
				Messages: []model.Message{},
				IsLocked: true,
				Record:   req.Record,
			})
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		metrics.IncTurn("demo", "completed")
		last := st.Session.Messages[len(st.Session.Messages)-1]
		writeJSON(w, http.StatusOK, demoChatResponse{
			Response: last.Text,
			Messages: st.Session.Messages,
			IsLocked: st.Session.IsLocked,
			Record:   st.Record,
		})
	}
}

// ---- Session ----

type sessionResponse struct {
	Messages       []model.Message `json:"messages"`
	UserTurns      int             `json:"userTurns"`
	VoiceUserTurns int             `json:"voiceUserTurns"`
	TextCap        int             `json:"textCap"`
	VoiceCap       int             `json:"voiceCap"`
}

func toSessionResponse(st *usecase.SessionState) sessionResponse {
	return sessionResponse{
		Messages:       st.Messages,
		UserTurns:      st.UserTurns,
		VoiceUserTurns: st.VoiceUserTurns,
		TextCap:        st.Caps.TextTurns,
		VoiceCap:       st.Caps.VoiceTurns,
	}
}

func sessionLoadHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sessionUC.Load(r.Context(), userIDFrom(r.Context()))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(st))
	}
}

func sessionDeleteHandler(sessionUC usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sessionUC.DeleteAll(r.Context(), userIDFrom(r.Context()))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete history")
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(st))
	}
}

// ---- Settings ----

type settingsPayload struct {
	ChatMode      string `json:"chatMode"`
	VoiceEnabled  bool   `json:"voiceEnabled"`
	SelectedVoice string `json:"selectedVoice"`
}

func settingsGetHandler(settingsUC usecase.SettingsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := settingsUC.Get(r.Context(), userIDFrom(r.Context()))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, settingsPayload{
			ChatMode:      string(s.ChatMode),
			VoiceEnabled:  s.VoiceEnabled,
			SelectedVoice: s.SelectedVoice,
		})
	}
}

func settingsPutHandler(settingsUC usecase.SettingsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		s, err := settingsUC.Update(r.Context(), userIDFrom(r.Context()), model.ChatMode(req.ChatMode), req.VoiceEnabled, req.SelectedVoice)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, "unknown chat mode")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
		writeJSON(w, http.StatusOK, settingsPayload{
			ChatMode:      string(s.ChatMode),
			VoiceEnabled:  s.VoiceEnabled,
			SelectedVoice: s.SelectedVoice,
		})
	}
}

// ---- Waitlist ----

type waitlistRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func waitlistHandler(waitlistUC usecase.WaitlistUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req waitlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		_, err := waitlistUC.Join(r.Context(), req.Name, req.Email)
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "name and email are required")
			return
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "email already registered")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to join waitlist")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	}
}

// ---- Visitor counter ----

func visitorCountHandler(visitors *redis.VisitorCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			count, err := visitors.Count(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, "counter unavailable")
				return
			}
			writeJSON(w, http.StatusOK, map[string]int64{"count": count})
		case http.MethodPost:
			count, newVisitor, err := visitors.Visit(r.Context(), api.ClientIP(r))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "counter unavailable")
				return
			}
			metrics.SetUniqueVisitors(count)
			writeJSON(w, http.StatusOK, map[string]any{"count": count, "newVisitor": newVisitor})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

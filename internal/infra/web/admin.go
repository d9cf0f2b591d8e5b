package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/usecase"
)

// Support raises caps through these endpoints; users cannot self-serve.

type quotaView struct {
	UserID         string `json:"user_id"`
	Period         string `json:"period"`
	UserTurns      int    `json:"user_turns"`
	VoiceUserTurns int    `json:"voice_user_turns"`
	TextCap        int    `json:"text_cap"`
	VoiceCap       int    `json:"voice_cap"`
	TextRemaining  int    `json:"text_remaining"`
	VoiceRemaining int    `json:"voice_remaining"`
}

func quotaGetHandler(quotaUC usecase.QuotaUseCase, userID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, caps, err := quotaUC.Get(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read ledger")
			return
		}
		textLeft, voiceLeft := l.Remaining(caps)
		writeJSON(w, http.StatusOK, quotaView{
			UserID:         l.UserID,
			Period:         l.Period,
			UserTurns:      l.UserTurns,
			VoiceUserTurns: l.VoiceUserTurns,
			TextCap:        caps.TextTurns,
			VoiceCap:       caps.VoiceTurns,
			TextRemaining:  textLeft,
			VoiceRemaining: voiceLeft,
		})
	}
}

type quotaRaiseRequest struct {
	TextCap  int `json:"text_cap"`
	VoiceCap int `json:"voice_cap"`
}

func quotaRaiseHandler(quotaUC usecase.QuotaUseCase, userID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quotaRaiseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if _, err := quotaUC.RaiseCaps(r.Context(), userID, req.TextCap, req.VoiceCap); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, "caps must not be negative")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to update ledger")
			return
		}
		// Echo the effective state back, overrides applied.
		quotaGetHandler(quotaUC, userID)(w, r)
	}
}

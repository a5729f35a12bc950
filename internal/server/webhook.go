package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/whatsapp"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

const maxBodyBytes = 1 << 20

type webhookHandler struct {
	cfg Config
}

// verify answers the subscription challenge sent when the webhook is registered.
func (h *webhookHandler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "" || token == "" {
		logx.Warn().Msg("Webhook verification missing parameters")
		writeJSON(w, http.StatusBadRequest, statusBody("error", "Missing parameters"))
		return
	}
	if mode != "subscribe" || h.cfg.VerifyToken == "" || token != h.cfg.VerifyToken {
		logx.Warn().Str("mode", mode).Msg("Webhook verification failed")
		writeJSON(w, http.StatusForbidden, statusBody("error", "Verification failed"))
		return
	}

	logx.Info().Msg("Webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// receive runs the whole turn before answering. The sender never sees an
// error: every failure after parsing ends in a logged outcome.
func (h *webhookHandler) receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.cfg.Metrics.ObserveWebhook("bad_request")
		writeJSON(w, http.StatusBadRequest, statusBody("error", "Invalid request body"))
		return
	}

	if h.cfg.AppSecret != "" && !whatsapp.VerifySignature(h.cfg.AppSecret, body, r.Header.Get("X-Hub-Signature-256")) {
		logx.Warn().Msg("Signature verification failed")
		h.cfg.Metrics.ObserveWebhook("bad_signature")
		writeJSON(w, http.StatusUnauthorized, statusBody("error", "Invalid signature"))
		return
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logx.Error().Err(err).Msg("Failed to decode JSON")
		h.cfg.Metrics.ObserveWebhook("bad_request")
		writeJSON(w, http.StatusBadRequest, statusBody("error", "Invalid JSON provided"))
		return
	}

	if whatsapp.IsStatusUpdate(&payload) {
		logx.Debug().Msg("Received a WhatsApp status update")
		h.cfg.Metrics.ObserveWebhook("status")
		writeJSON(w, http.StatusOK, statusBody("ok", ""))
		return
	}
	if payload.Object != whatsapp.ObjectBusinessAccount {
		h.cfg.Metrics.ObserveWebhook("not_whatsapp")
		writeJSON(w, http.StatusNotFound, statusBody("error", "Not a WhatsApp API event"))
		return
	}
	// Media, stickers, locations and button replies carry no text body. Meta
	// redelivers anything that is not a 2xx, so they are acknowledged and dropped.
	if !whatsapp.IsValid(&payload) {
		logx.Info().Str("type", whatsapp.MessageType(&payload)).Msg("Ignoring message without text body")
		h.cfg.Metrics.ObserveWebhook("unsupported")
		writeJSON(w, http.StatusOK, statusBody("ok", ""))
		return
	}

	in, err := whatsapp.Parse(&payload)
	if err != nil {
		logx.Error().Err(err).Str("kind", string(errx.KindOf(err))).Msg("Dropping malformed message")
		h.cfg.Metrics.ObserveWebhook("structural")
		writeJSON(w, http.StatusOK, statusBody("ok", ""))
		return
	}

	h.handleMessage(r, in)
	h.cfg.Metrics.ObserveWebhook("processed")
	writeJSON(w, http.StatusOK, statusBody("ok", ""))
}

func (h *webhookHandler) handleMessage(r *http.Request, in whatsapp.Inbound) {
	ctx := r.Context()
	logx.Info().Str("wa_id", in.WaID).Str("name", in.Name).Str("message_id", in.MessageID).Msg("Processing message")

	if err := h.cfg.Messenger.MarkReadWithTyping(ctx, in.MessageID); err != nil {
		logx.Warn().Err(err).Str("wa_id", in.WaID).Msg("Failed to mark message as read")
	}

	var reply string
	session, err := h.cfg.Sessions.ResolveOrCreate(ctx, in.WaID)
	if err != nil {
		logx.Error().Err(err).Str("wa_id", in.WaID).Str("kind", string(errx.KindOf(err))).Msg("Failed to resolve session")
		reply = h.apology()
	} else {
		reply = h.cfg.Runner.Run(ctx, model.TurnInput{
			WaID:    in.WaID,
			Name:    in.Name,
			Text:    in.Text,
			Session: session,
		})
	}

	if _, err := h.cfg.Messenger.SendText(ctx, in.WaID, whatsapp.FormatText(reply), in.MessageID); err != nil {
		logx.Error().Err(err).Str("wa_id", in.WaID).Msg("Failed to send reply")
	}
}

func (h *webhookHandler) apology() string {
	if h.cfg.Apology != "" {
		return h.cfg.Apology
	}
	return model.DefaultApology
}

func statusBody(status, message string) map[string]string {
	body := map[string]string{"status": status}
	if message != "" {
		body["message"] = message
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error().Err(err).Msg("Failed to write response")
	}
}

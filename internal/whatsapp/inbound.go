package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

// IsValid is a shallow shape check: the business-account marker and a first
// message with a text body. Parse must still be called and can still fail.
func IsValid(p *WebhookPayload) bool {
	if p == nil || p.Object != ObjectBusinessAccount {
		return false
	}
	v := firstValue(p)
	if v == nil || len(v.Messages) == 0 {
		return false
	}
	t := v.Messages[0].Text
	return t != nil && t.Body != nil
}

// IsStatusUpdate reports a delivery/read receipt callback carrying no message.
func IsStatusUpdate(p *WebhookPayload) bool {
	if p == nil || p.Object != ObjectBusinessAccount {
		return false
	}
	v := firstValue(p)
	return v != nil && len(v.Statuses) > 0 && len(v.Messages) == 0
}

// Parse extracts sender, display name, text and message id from the first
// message of the first change.
func Parse(p *WebhookPayload) (Inbound, error) {
	if p == nil {
		return Inbound{}, errx.Structural("payload is nil")
	}
	if len(p.Entry) == 0 {
		return Inbound{}, errx.Structural("entry is empty")
	}
	if len(p.Entry[0].Changes) == 0 {
		return Inbound{}, errx.Structural("entry[0].changes is empty")
	}
	v := p.Entry[0].Changes[0].Value
	if v == nil {
		return Inbound{}, errx.Structural("changes[0].value is missing")
	}
	if len(v.Contacts) == 0 {
		return Inbound{}, errx.Structural("value.contacts is empty")
	}
	c := v.Contacts[0]
	if c.WaID == "" {
		return Inbound{}, errx.Structural("contacts[0].wa_id is missing")
	}
	if c.Profile == nil {
		return Inbound{}, errx.Structural("contacts[0].profile is missing")
	}
	if len(v.Messages) == 0 {
		return Inbound{}, errx.Structural("value.messages is empty")
	}
	m := v.Messages[0]
	if m.ID == "" {
		return Inbound{}, errx.Structural("messages[0].id is missing")
	}
	if m.Text == nil || m.Text.Body == nil {
		return Inbound{}, errx.Structural("messages[0].text.body is missing")
	}
	return Inbound{
		WaID:      c.WaID,
		Name:      c.Profile.Name,
		Text:      *m.Text.Body,
		MessageID: m.ID,
	}, nil
}

// MessageType returns the type of the first message, or "" when there is none.
func MessageType(p *WebhookPayload) string {
	if p == nil {
		return ""
	}
	v := firstValue(p)
	if v == nil || len(v.Messages) == 0 {
		return ""
	}
	return v.Messages[0].Type
}

func firstValue(p *WebhookPayload) *ChangeValue {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil
	}
	return p.Entry[0].Changes[0].Value
}

// VerifySignature checks the X-Hub-Signature-256 HMAC of the raw body.
func VerifySignature(appSecret string, body []byte, header string) bool {
	if header == "" || !strings.HasPrefix(header, "sha256=") {
		return false
	}
	sig := strings.TrimPrefix(header, "sha256=")
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"
	DefaultVersion = "v18.0"

	maxButtons     = 3
	maxButtonTitle = 20

	maxResponseBytes = 64 * 1024
)

// Observer receives one call per outbound request.
type Observer interface {
	ObserveOutbound(msgType string, ok bool)
}

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	BaseURL       string
	Version       string
	PhoneNumberID string
	AccessToken   string
	HTTPClient    *http.Client
	Observer      Observer
}

// NewClient creates a Cloud API client.
func NewClient(accessToken, phoneNumberID, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		BaseURL:       DefaultBaseURL,
		Version:       version,
		PhoneNumberID: phoneNumberID,
		AccessToken:   accessToken,
		HTTPClient:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) messagesURL() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/%s/messages", base, c.Version, c.PhoneNumberID)
}

type replyContext struct {
	MessageID string `json:"message_id"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type message struct {
	MessagingProduct string         `json:"messaging_product"`
	RecipientType    string         `json:"recipient_type,omitempty"`
	To               string         `json:"to"`
	Type             string         `json:"type"`
	Context          *replyContext  `json:"context,omitempty"`
	Text             *textBody      `json:"text,omitempty"`
	Reaction         map[string]any `json:"reaction,omitempty"`
	Interactive      *interactive   `json:"interactive,omitempty"`
	Contacts         []ContactCard  `json:"contacts,omitempty"`
	Location         *Location      `json:"location,omitempty"`
	Template         *template      `json:"template,omitempty"`
	Image            map[string]any `json:"image,omitempty"`
	Video            map[string]any `json:"video,omitempty"`
	Document         map[string]any `json:"document,omitempty"`
	Audio            map[string]any `json:"audio,omitempty"`
}

type interactiveText struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply Button `json:"reply"`
}

type interactiveAction struct {
	Buttons  []replyButton `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []ListSection `json:"sections,omitempty"`
}

type interactive struct {
	Type   string            `json:"type"`
	Header *interactiveText  `json:"header,omitempty"`
	Body   interactiveText   `json:"body"`
	Footer *interactiveText  `json:"footer,omitempty"`
	Action interactiveAction `json:"action"`
}

type template struct {
	Name       string              `json:"name"`
	Language   map[string]string   `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

func newMessage(to, msgType string) message {
	return message{MessagingProduct: "whatsapp", RecipientType: "individual", To: to, Type: msgType}
}

// SendText sends a text message, quoting replyTo when it is non-empty.
func (c *Client) SendText(ctx context.Context, to, text, replyTo string) (*SendResponse, error) {
	m := newMessage(to, "text")
	m.Text = &textBody{Body: text}
	if replyTo != "" {
		m.Context = &replyContext{MessageID: replyTo}
	}
	return c.send(ctx, "text", m)
}

// SendReaction reacts to messageID with emoji.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) (*SendResponse, error) {
	m := newMessage(to, "reaction")
	m.Reaction = map[string]any{"message_id": messageID, "emoji": emoji}
	return c.send(ctx, "reaction", m)
}

// MarkReadWithTyping marks messageID as read and shows the typing indicator.
func (c *Client) MarkReadWithTyping(ctx context.Context, messageID string) error {
	body := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
		"typing_indicator":  map[string]string{"type": "text"},
	}
	_, err := c.send(ctx, "read", body)
	return err
}

// SendButtons sends up to three reply buttons; extra buttons are dropped and
// titles are cut to 20 characters.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button, header, footer string) (*SendResponse, error) {
	if len(buttons) > maxButtons {
		buttons = buttons[:maxButtons]
	}
	action := interactiveAction{Buttons: make([]replyButton, 0, len(buttons))}
	for _, b := range buttons {
		action.Buttons = append(action.Buttons, replyButton{
			Type:  "reply",
			Reply: Button{ID: b.ID, Title: truncate(b.Title, maxButtonTitle)},
		})
	}
	m := newMessage(to, "interactive")
	m.Interactive = &interactive{Type: "button", Body: interactiveText{Text: body}, Action: action}
	setHeaderFooter(m.Interactive, header, footer)
	return c.send(ctx, "button", m)
}

// SendQuickReplies sends up to three buttons with generated ids btn_0..btn_2.
func (c *Client) SendQuickReplies(ctx context.Context, to, body string, titles []string) (*SendResponse, error) {
	if len(titles) > maxButtons {
		titles = titles[:maxButtons]
	}
	buttons := make([]Button, 0, len(titles))
	for i, t := range titles {
		buttons = append(buttons, Button{ID: fmt.Sprintf("btn_%d", i), Title: t})
	}
	return c.SendButtons(ctx, to, body, buttons, "", "")
}

// SendList sends an interactive list; the list button text is cut to 20 characters.
func (c *Client) SendList(ctx context.Context, to, body, buttonText string, sections []ListSection, header, footer string) (*SendResponse, error) {
	m := newMessage(to, "interactive")
	m.Interactive = &interactive{
		Type:   "list",
		Body:   interactiveText{Text: body},
		Action: interactiveAction{Button: truncate(buttonText, maxButtonTitle), Sections: sections},
	}
	setHeaderFooter(m.Interactive, header, footer)
	return c.send(ctx, "list", m)
}

func (c *Client) SendContacts(ctx context.Context, to string, contacts []ContactCard) (*SendResponse, error) {
	m := newMessage(to, "contacts")
	m.RecipientType = ""
	m.Contacts = contacts
	return c.send(ctx, "contacts", m)
}

func (c *Client) SendLocation(ctx context.Context, to string, loc Location) (*SendResponse, error) {
	m := newMessage(to, "location")
	m.RecipientType = ""
	m.Location = &loc
	return c.send(ctx, "location", m)
}

// ErrMediaSource is returned when a media message has neither id nor link.
var ErrMediaSource = errors.New("whatsapp: media id or link is required")

// SendMedia sends an image, video, document or audio by id or link. Caption
// is kept only for image and video, filename only for document.
func (c *Client) SendMedia(ctx context.Context, to string, media Media) (*SendResponse, error) {
	obj := map[string]any{}
	switch {
	case media.ID != "":
		obj["id"] = media.ID
	case media.Link != "":
		obj["link"] = media.Link
	default:
		logx.Error().Str("to", to).Str("type", string(media.Type)).Msg("Either media id or link must be provided")
		return nil, ErrMediaSource
	}
	if media.Caption != "" && (media.Type == MediaImage || media.Type == MediaVideo) {
		obj["caption"] = media.Caption
	}
	if media.Filename != "" && media.Type == MediaDocument {
		obj["filename"] = media.Filename
	}

	m := newMessage(to, string(media.Type))
	m.RecipientType = ""
	switch media.Type {
	case MediaImage:
		m.Image = obj
	case MediaVideo:
		m.Video = obj
	case MediaDocument:
		m.Document = obj
	case MediaAudio:
		m.Audio = obj
	default:
		return nil, fmt.Errorf("whatsapp: unsupported media type %q", media.Type)
	}
	return c.send(ctx, string(media.Type), m)
}

// SendTemplate sends an approved template; language defaults to "en".
func (c *Client) SendTemplate(ctx context.Context, to, name, language string, components []TemplateComponent) (*SendResponse, error) {
	if language == "" {
		language = "en"
	}
	m := newMessage(to, "template")
	m.RecipientType = ""
	m.Template = &template{Name: name, Language: map[string]string{"code": language}, Components: components}
	return c.send(ctx, "template", m)
}

func (c *Client) send(ctx context.Context, kind string, payload any) (*SendResponse, error) {
	resp, err := c.post(ctx, payload)
	if c.Observer != nil {
		c.Observer.ObserveOutbound(kind, err == nil)
	}
	if err != nil {
		logx.Error().Err(err).Str("type", kind).Msg("Failed to send WhatsApp message")
		return nil, err
	}
	logx.Debug().Str("type", kind).Str("message_id", resp.MessageID()).Msg("WhatsApp message sent")
	return resp, nil
}

func (c *Client) post(ctx context.Context, payload any) (*SendResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.messagesURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errx.Upstream(fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errx.Upstream(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errx.Upstream(fmt.Errorf("whatsapp API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var result SendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}

func setHeaderFooter(i *interactive, header, footer string) {
	if header != "" {
		i.Header = &interactiveText{Type: "text", Text: header}
	}
	if footer != "" {
		i.Footer = &interactiveText{Text: footer}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

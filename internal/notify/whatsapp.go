package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const graphAPIBase = "https://graph.facebook.com/v17.0"

// WhatsAppNotifier talks to the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	token   string
	phoneID string
	baseURL string
	client  *http.Client
}

func NewWhatsAppNotifier(token, phoneID string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		token:   token,
		phoneID: phoneID,
		baseURL: graphAPIBase,
		client:  &http.Client{},
	}
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

// SendMessage posts a text message. The phone number is expected in
// E.164 form (e.g. 5493512345678).
func (w *WhatsAppNotifier) SendMessage(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsAppText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("marshal whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

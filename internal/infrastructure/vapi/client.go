package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/callme-api/internal/config"
)

// Client triggers outbound voice calls through the Vapi API. A call is
// considered dispatched when the provider accepts it (200/201); everything
// else, including transport errors and timeouts, is a dispatch failure.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	phoneNumberID string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:    &http.Client{},
		apiKey:        cfg.VapiAPIKey,
		baseURL:       cfg.VapiBaseURL,
		phoneNumberID: cfg.VapiPhoneNumberID,
	}
}

type callRequest struct {
	PhoneNumberID *string   `json:"phoneNumberId"`
	Customer      customer  `json:"customer"`
	Assistant     assistant `json:"assistant"`
}

type customer struct {
	Number string `json:"number"`
}

type assistant struct {
	FirstMessage string `json:"firstMessage"`
	Model        model  `json:"model"`
	Voice        voice  `json:"voice"`
}

type model struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// Dispatch places a call to phone that speaks message. The caller bounds the
// wait through ctx; a nil return means the provider accepted the call.
func (c *Client) Dispatch(ctx context.Context, phone, message string) error {
	// nil phoneNumberId tells the provider to use its default number.
	var phoneNumberID *string
	if c.phoneNumberID != "" {
		phoneNumberID = &c.phoneNumberID
	}

	payload := callRequest{
		PhoneNumberID: phoneNumberID,
		Customer:      customer{Number: phone},
		Assistant: assistant{
			FirstMessage: message,
			Model: model{
				Provider: "openai",
				Model:    "gpt-3.5-turbo",
				Messages: []chatMessage{{
					Role:    "system",
					Content: "You are a reminder assistant. Speak the reminder message clearly and then end the call.",
				}},
			},
			Voice: voice{Provider: "11labs", VoiceID: "paula"},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call/phone", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build call request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger call: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("trigger call: provider returned %d", resp.StatusCode)
	}
	return nil
}

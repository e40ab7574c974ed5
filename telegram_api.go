package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/buger/jsonparser"
)

const telegramAPIBaseURL = "https://api.telegram.org"

// TelegramService is the notification sink: one outbound sendMessage call
// per alert. Without a bot token it is a no-op and alerts are dropped after
// formatting.
type TelegramService struct {
	apiKey      string
	alertChatID int64
	baseURL     string
	client      *http.Client
}

type TelegramSendMessageRequest struct {
	ChatID         int64  `json:"chat_id"`
	Text           string `json:"text"`
	ParseMode      string `json:"parse_mode,omitempty"`
	DisablePreview bool   `json:"disable_web_page_preview,omitempty"`
}

func NewTelegramService(apiKey string, proxyDSN string, alertChatID int64) (*TelegramService, error) {
	transport := &http.Transport{}
	if proxyDSN != "" {
		proxyURL, err := url.Parse(proxyDSN)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy DSN: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &TelegramService{
		apiKey:      apiKey,
		alertChatID: alertChatID,
		baseURL:     telegramAPIBaseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
	}, nil
}

// Enabled reports whether a bot token was configured.
func (t *TelegramService) Enabled() bool {
	return t.apiKey != ""
}

// SendAlert pushes one rendered alert to the configured chat.
func (t *TelegramService) SendAlert(text string) error {
	if !t.Enabled() {
		return nil
	}
	return t.SendMessage(t.alertChatID, text)
}

// SendMessage posts text to chatID. A transport error gets a single retry
// with jitter; an API-level rejection does not, the alert is dropped.
func (t *TelegramService) SendMessage(chatID int64, text string) error {
	retryable, err := t.sendMessageOnce(chatID, text)
	if err == nil || !retryable {
		return err
	}

	time.Sleep(time.Duration(500+rand.Intn(500)) * time.Millisecond)
	_, err = t.sendMessageOnce(chatID, text)
	return err
}

func (t *TelegramService) sendMessageOnce(chatID int64, text string) (bool, error) {
	reqBody := TelegramSendMessageRequest{
		ChatID:         chatID,
		Text:           text,
		ParseMode:      "Markdown",
		DisablePreview: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.apiKey)
	resp, err := t.client.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if ok, err := jsonparser.GetBoolean(body, "ok"); err == nil && ok {
		return false, nil
	}

	description, _ := jsonparser.GetString(body, "description")
	if description == "" {
		description = string(body)
	}
	return false, fmt.Errorf("telegram send message failed (status %d): %s", resp.StatusCode, description)
}

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

// DefaultBaseURL of the Bot API
const DefaultBaseURL = "https://api.telegram.org"

// Client calls the Bot API with a per-call token, since every managed bot
// carries its own credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient with a sane request timeout
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewClientWithBaseURL for tests
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	return c
}

// SendMessageParams is the outbound send payload
type SendMessageParams struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup interface{} `json:"reply_markup,omitempty"`
}

// SendMessage dispatches a message
func (c *Client) SendMessage(ctx context.Context, token string, params SendMessageParams) error {
	_, err := c.call(ctx, token, "sendMessage", params)
	return err
}

// AnswerCallbackQuery acknowledges a callback query
func (c *Client) AnswerCallbackQuery(ctx context.Context, token string, callbackQueryID string) error {
	_, err := c.call(ctx, token, "answerCallbackQuery", map[string]string{
		"callback_query_id": callbackQueryID,
	})
	return err
}

// SetWebhook registers the webhook URL for message and callback updates
func (c *Client) SetWebhook(ctx context.Context, token string, url string) error {
	_, err := c.call(ctx, token, "setWebhook", map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	})
	return err
}

// DeleteWebhook removes the registered webhook
func (c *Client) DeleteWebhook(ctx context.Context, token string) error {
	_, err := c.call(ctx, token, "deleteWebhook", nil)
	return err
}

// GetMe returns the bot's own profile
func (c *Client) GetMe(ctx context.Context, token string) (*User, error) {
	raw, err := c.call(ctx, token, "getMe", nil)
	if err != nil {
		return nil, err
	}
	me := &User{}
	if err := json.Unmarshal(raw, me); err != nil {
		return nil, apperrors.Wrap(apperrors.KindProvider, "failed to parse getMe result", err)
	}
	return me, nil
}

// GetWebhookInfo returns the current webhook registration
func (c *Client) GetWebhookInfo(ctx context.Context, token string) (*WebhookInfo, error) {
	raw, err := c.call(ctx, token, "getWebhookInfo", nil)
	if err != nil {
		return nil, err
	}
	info := &WebhookInfo{}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, apperrors.Wrap(apperrors.KindProvider, "failed to parse getWebhookInfo result", err)
	}
	return info, nil
}

func (c *Client) call(ctx context.Context, token string, method string, payload interface{}) (json.RawMessage, error) {
	body := &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return nil, err
		}
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("telegram request failed", zap.String("method", method), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindProvider, fmt.Sprintf("telegram %s failed", method), err)
	}
	defer res.Body.Close()

	apiRes := APIResponse{}
	if err := json.NewDecoder(res.Body).Decode(&apiRes); err != nil {
		return nil, apperrors.Wrap(apperrors.KindProvider, fmt.Sprintf("failed to parse telegram %s response", method), err)
	}
	if !apiRes.OK {
		c.logger.Error("telegram api error",
			zap.String("method", method),
			zap.Int("error_code", apiRes.ErrorCode),
			zap.String("description", apiRes.Description),
		)
		return nil, apperrors.New(apperrors.KindProvider,
			fmt.Sprintf("telegram %s failed: %s", method, apiRes.Description))
	}
	return apiRes.Result, nil
}

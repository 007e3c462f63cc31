package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"smart-fridge-api/internal/infrastructure/config"
)

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 一則對話訊息，Content 可以是純文字或多模態內容陣列
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// TextMessage 建立純文字訊息
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// VisionMessage 建立帶圖片的使用者訊息。
// imageData 可以是 base64 字串或完整的 data URL。
func VisionMessage(text, imageData string) Message {
	url := imageData
	if !strings.HasPrefix(imageData, "data:image/") {
		url = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
	}
	return Message{
		Role: RoleUser,
		Content: []map[string]interface{}{
			{
				"type": "text",
				"text": text,
			},
			{
				"type": "image_url",
				"image_url": map[string]string{
					"url": url,
				},
			},
		},
	}
}

// Client OpenRouter API 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://smart-fridge.app").
		SetHeader("X-Title", "Smart Fridge")

	return &Client{
		config: cfg,
		client: client,
	}
}

// ChatCompletion 送出完整對話歷史並取回模型回覆
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	req := map[string]interface{}{
		"model":      c.config.OpenRouter.Model,
		"messages":   messages,
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// EmptyReplyPlaceholder 模型回空內容時的固定回覆
const EmptyReplyPlaceholder = "Gemini không trả nội dung"

// Client Gemini 生成模型客戶端
type Client struct {
	config *config.GeminiConfig
	client *resty.Client
}

// NewClient 創建 Gemini 客戶端
// 外呼無內建重試，僅設置明確超時，失敗由呼叫端降級處理
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Gemini.Timeout)

	return &Client{
		config: &cfg.Gemini,
		client: client,
	}
}

// Configured 是否已配置生成憑證
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Generate 送出單輪 prompt 並返回修剪後的文本
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if !c.Configured() {
		return "", common.ErrGenerationUnavailable
	}

	req := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     temperature,
			"maxOutputTokens": c.config.MaxTokens,
		},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Model))
	common.LogAICall(c.config.Model, time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	var sb strings.Builder
	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return EmptyReplyPlaceholder, nil
	}
	return text, nil
}

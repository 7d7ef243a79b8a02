package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Client 文本向量服務客戶端（Ollama 相容的 /api/embeddings 介面）
type Client struct {
	config *config.EmbeddingConfig
	client *resty.Client
}

var _ index.Embedder = (*Client)(nil)

// NewClient 創建向量服務客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Embedding.BaseURL).
		SetTimeout(cfg.Embedding.Timeout)

	return &Client{
		config: &cfg.Embedding,
		client: client,
	}
}

// EmbedText 向量化文本並單位正規化
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	req := map[string]interface{}{
		"model":  c.config.Model,
		"prompt": text,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/embeddings")

	if err != nil {
		return nil, fmt.Errorf("failed to call embedding service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned error: %s", resp.String())
	}

	var result struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	return index.Normalize(result.Embedding), nil
}

// ModelName 返回配置的向量模型識別字串
func (c *Client) ModelName() string {
	return c.config.Model
}

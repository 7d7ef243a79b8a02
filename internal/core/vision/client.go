package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"smartshop-ai/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Client 外部視覺服務客戶端：人臉向量抽取與商品辨識
// 這裡只是介面邊界的薄代理，模型內部不在本服務範圍
type Client struct {
	config *config.VisionConfig
	client *resty.Client
}

// NewClient 創建視覺服務客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Vision.BaseURL).
		SetTimeout(cfg.Vision.Timeout)

	return &Client{
		config: &cfg.Vision,
		client: client,
	}
}

// FaceEncodeResult 人臉向量抽取結果
type FaceEncodeResult struct {
	Success   bool      `json:"success"`
	Embedding []float64 `json:"embedding"`
	Message   string    `json:"message,omitempty"`
}

// ProductRecognizeResult 商品辨識結果
type ProductRecognizeResult struct {
	Success    bool                   `json:"success"`
	Detected   bool                   `json:"detected"`
	Message    string                 `json:"message,omitempty"`
	Product    map[string]interface{} `json:"product,omitempty"`
	Confidence float64                `json:"confidence,omitempty"`
	Class      string                 `json:"class,omitempty"`
}

// EncodeFace 轉發人臉影像給視覺服務取回向量
func (c *Client) EncodeFace(ctx context.Context, imageB64, mime string) (*FaceEncodeResult, error) {
	var result FaceEncodeResult
	if err := c.post(ctx, "/encode", imageB64, mime, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecognizeProduct 轉發商品影像給視覺服務做辨識
func (c *Client) RecognizeProduct(ctx context.Context, imageB64, mime string) (*ProductRecognizeResult, error) {
	var result ProductRecognizeResult
	if err := c.post(ctx, "/api/v1/product/recognize", imageB64, mime, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path, imageB64, mime string, out interface{}) error {
	req := map[string]string{
		"image_b64": imageB64,
		"mime":      mime,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(path)

	if err != nil {
		return fmt.Errorf("failed to call vision service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("vision service returned error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse vision response: %w", err)
	}
	return nil
}

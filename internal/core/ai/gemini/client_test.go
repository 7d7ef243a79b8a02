package gemini

import (
	"context"
	"testing"
	"time"

	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func geminiConfig(apiKey string) *config.Config {
	cfg := &config.Config{}
	cfg.Gemini.APIKey = apiKey
	cfg.Gemini.Model = "gemini-1.5-flash"
	cfg.Gemini.MaxTokens = 512
	cfg.Gemini.Timeout = time.Second
	return cfg
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient(geminiConfig("")).Configured())
	assert.True(t, NewClient(geminiConfig("secret")).Configured())
}

func TestGenerateWithoutCredentials(t *testing.T) {
	c := NewClient(geminiConfig(""))

	_, err := c.Generate(context.Background(), "xin chào", 0.6)

	assert.ErrorIs(t, err, common.ErrGenerationUnavailable)
}

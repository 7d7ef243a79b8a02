package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
	Embedding   EmbeddingConfig `mapstructure:"embedding"`
	Meal        MealConfig      `mapstructure:"meal"`
	Vision      VisionConfig    `mapstructure:"vision"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GeminiConfig 生成模型配置；APIKey 為空時走降級模式（結構化摘要）
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig 文本向量服務配置
type EmbeddingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MealConfig 餐點助理配置
type MealConfig struct {
	RecipesPath    string        `mapstructure:"recipes_path"`
	IndexPath      string        `mapstructure:"index_path"`
	MetadataPath   string        `mapstructure:"metadata_path"`
	FeedbackPath   string        `mapstructure:"feedback_path"`
	TopK           int           `mapstructure:"top_k"`
	MinSimilarity  float64       `mapstructure:"min_similarity"`
	ReturnCount    int           `mapstructure:"return_count"`
	PromptLanguage string        `mapstructure:"prompt_language"`
	Temperature    float64       `mapstructure:"temperature"`
	Weights        RerankWeights `mapstructure:"weights"`
}

// RerankWeights 重排序各信號權重
type RerankWeights struct {
	Semantic   float64 `mapstructure:"semantic"`
	Preference float64 `mapstructure:"preference"`
	Popularity float64 `mapstructure:"popularity"`
	Freshness  float64 `mapstructure:"freshness"`
	Promo      float64 `mapstructure:"promo"`
}

// VisionConfig 外部視覺服務（人臉向量 / 商品辨識）配置
type VisionConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxSizeBytes int64         `mapstructure:"max_size_bytes"`
}

// CacheConfig 緩存配置；RedisAddr 非空時改用 Redis 後端
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		_ = err // .env 可缺省，環境變數照常生效
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("embedding.base_url", "EMBEDDING_BASE_URL")
	viper.BindEnv("embedding.model", "MEAL_EMBEDDING_MODEL")
	viper.BindEnv("meal.recipes_path", "MEAL_RECIPES_PATH")
	viper.BindEnv("meal.index_path", "MEAL_INDEX_PATH")
	viper.BindEnv("meal.metadata_path", "MEAL_METADATA_PATH")
	viper.BindEnv("meal.feedback_path", "MEAL_FEEDBACK_PATH")
	viper.BindEnv("meal.top_k", "MEAL_TOP_K")
	viper.BindEnv("meal.min_similarity", "MEAL_MIN_SIMILARITY")
	viper.BindEnv("meal.return_count", "MEAL_RETURN")
	viper.BindEnv("vision.base_url", "VISION_BASE_URL")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "2.0.0")
	viper.SetDefault("app.name", "smartshop-ai")

	// 伺服器設定
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Gemini 設定
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.max_tokens", 512)
	viper.SetDefault("gemini.timeout", "30s")

	// 向量服務設定
	viper.SetDefault("embedding.base_url", "http://localhost:11434")
	viper.SetDefault("embedding.model", "paraphrase-multilingual-MiniLM-L12-v2")
	viper.SetDefault("embedding.timeout", "30s")

	// 餐點助理設定
	viper.SetDefault("meal.recipes_path", "data/recipes.json")
	viper.SetDefault("meal.index_path", "data/meal_index.bin")
	viper.SetDefault("meal.metadata_path", "data/meal_metadata.json")
	viper.SetDefault("meal.feedback_path", "data/meal_feedback.jsonl")
	viper.SetDefault("meal.top_k", 50)
	viper.SetDefault("meal.min_similarity", 0.15)
	viper.SetDefault("meal.return_count", 3)
	viper.SetDefault("meal.prompt_language", "Việt")
	viper.SetDefault("meal.temperature", 0.6)
	viper.SetDefault("meal.weights.semantic", 0.4)
	viper.SetDefault("meal.weights.preference", 0.25)
	viper.SetDefault("meal.weights.popularity", 0.2)
	viper.SetDefault("meal.weights.freshness", 0.1)
	viper.SetDefault("meal.weights.promo", 0.05)

	// 視覺服務設定
	viper.SetDefault("vision.base_url", "http://localhost:8001")
	viper.SetDefault("vision.timeout", "30s")
	viper.SetDefault("vision.max_size_bytes", 10*1024*1024) // 10MB

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.redis_addr", "")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重設定
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證檢索設定
	if config.Meal.TopK <= 0 {
		return fmt.Errorf("invalid meal top_k")
	}
	if config.Meal.ReturnCount <= 0 {
		return fmt.Errorf("invalid meal return_count")
	}
	if config.Meal.IndexPath == "" || config.Meal.MetadataPath == "" {
		return fmt.Errorf("meal index/metadata path is required")
	}

	return nil
}

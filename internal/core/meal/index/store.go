package index

import (
	"context"
	"fmt"
	"os"
	"sync"

	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Embedder 文本向量化介面，實作需返回單位向量
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// Store 向量索引與 metadata 的進程級共享持有者
// 首次使用時載入一次，之後唯讀，不提供熱更新
type Store struct {
	indexPath    string
	metadataPath string
	embedder     Embedder

	once    sync.Once
	loadErr error
	index   *FlatIndex
	meta    *common.IndexMetadata
}

// NewStore 創建索引持有者，不立即載入檔案
func NewStore(cfg *config.Config, embedder Embedder) *Store {
	return &Store{
		indexPath:    cfg.Meal.IndexPath,
		metadataPath: cfg.Meal.MetadataPath,
		embedder:     embedder,
	}
}

// load 載入索引與 metadata，sync.Once 保證併發首次請求只載入一次
func (s *Store) load() error {
	s.once.Do(func() {
		ix, err := ReadFile(s.indexPath)
		if err != nil {
			s.loadErr = fmt.Errorf("meal index not available (run cmd/indexer first): %w", err)
			return
		}

		data, err := os.ReadFile(s.metadataPath)
		if err != nil {
			s.loadErr = fmt.Errorf("meal metadata not available (run cmd/indexer first): %w", err)
			return
		}
		var meta common.IndexMetadata
		if err := common.ParseJSONBytes(data, &meta); err != nil {
			s.loadErr = fmt.Errorf("failed to parse meal metadata: %w", err)
			return
		}

		// 索引與 metadata 必須一一對齊，不一致代表建置產物損毀
		if ix.Len() != len(meta.Recipes) {
			s.loadErr = fmt.Errorf("%w: index=%d metadata=%d",
				common.ErrIndexMisaligned, ix.Len(), len(meta.Recipes))
			return
		}

		s.index = ix
		s.meta = &meta
		common.LogInfo("餐點索引已載入",
			zap.Int("recipes", len(meta.Recipes)),
			zap.Int("dim", ix.Dim()),
			zap.String("embedding_model", meta.EmbeddingModel),
		)
	})
	return s.loadErr
}

// Warmup 啟動時預載，讓配置錯誤在開機階段暴露而不是第一個請求
func (s *Store) Warmup() error {
	return s.load()
}

// Search 將查詢文本向量化後做內積最近鄰搜尋
func (s *Store) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.index.Search(Normalize(vec), k), nil
}

// RecipeAt 依位置取回食譜；越界返回 false（索引漂移防禦）
func (s *Store) RecipeAt(pos int) (*common.Recipe, bool) {
	if s.meta == nil || pos < 0 || pos >= len(s.meta.Recipes) {
		return nil, false
	}
	return &s.meta.Recipes[pos], true
}

// Count 已載入的食譜數量，未載入時為 0
func (s *Store) Count() int {
	if s.meta == nil {
		return 0
	}
	return len(s.meta.Recipes)
}

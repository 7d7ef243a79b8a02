package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartshop-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// NormalizeText 壓縮空白並轉小寫，作為向量化前的語料正規化
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(text)), " "))
}

// BuildCorpus 將每筆食譜攤平成一條語料：名稱、標籤、食材名、描述
func BuildCorpus(recipes []common.Recipe) []string {
	corpus := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		text := fmt.Sprintf("%s %s %s %s",
			recipe.Name,
			strings.Join(recipe.Tags, ", "),
			strings.Join(common.IngredientNames(recipe.Ingredients), ", "),
			recipe.Description,
		)
		corpus = append(corpus, NormalizeText(text))
	}
	return corpus
}

// BuildIndex 離線建置：向量化語料並寫出索引檔與 metadata side-car
// 兩個產物的順序必須一致，載入端據此做對齊檢查
func BuildIndex(ctx context.Context, recipes []common.Recipe, embedder Embedder, indexPath, metadataPath string) error {
	if len(recipes) == 0 {
		return fmt.Errorf("%w: populate the recipes corpus first", common.ErrEmptyCorpus)
	}

	corpus := BuildCorpus(recipes)

	vectors, err := embedCorpus(ctx, corpus, embedder)
	if err != nil {
		return err
	}

	ix := NewFlatIndex(len(vectors[0]))
	for i, vec := range vectors {
		if err := ix.Add(vec); err != nil {
			return fmt.Errorf("failed to add vector for recipe %q: %w", recipes[i].ID, err)
		}
	}

	if err := ix.WriteFile(indexPath); err != nil {
		return err
	}
	if err := writeMetadata(metadataPath, embedder.ModelName(), recipes); err != nil {
		return err
	}

	common.LogInfo("餐點索引建置完成",
		zap.Int("recipes", len(recipes)),
		zap.Int("dim", ix.Dim()),
		zap.String("index_path", indexPath),
		zap.String("metadata_path", metadataPath),
	)
	return nil
}

// writeMetadata 寫出 metadata side-car，食譜順序與向量一致
func writeMetadata(path, embeddingModel string, recipes []common.Recipe) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	meta := common.IndexMetadata{
		EmbeddingModel: embeddingModel,
		Recipes:        recipes,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// LoadRecipes 讀取食譜語料檔，同時接受純陣列與 {"recipes": [...]} 兩種格式
func LoadRecipes(path string) ([]common.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes corpus %s: %w", path, err)
	}

	var wrapped struct {
		Recipes []common.Recipe `json:"recipes"`
	}
	if err := common.ParseJSONBytes(data, &wrapped); err == nil && len(wrapped.Recipes) > 0 {
		return wrapped.Recipes, nil
	}

	var recipes []common.Recipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipes corpus: %w", err)
	}
	return recipes, nil
}

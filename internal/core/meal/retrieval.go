package meal

import (
	"context"
	"strings"

	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Searcher 檢索層依賴的索引介面，測試時以假實作替換
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]index.Hit, error)
	RecipeAt(pos int) (*common.Recipe, bool)
}

// Retriever 候選檢索器
type Retriever struct {
	store         Searcher
	topK          int
	minSimilarity float64
}

// NewRetriever 創建候選檢索器
func NewRetriever(store Searcher, cfg *config.Config) *Retriever {
	return &Retriever{
		store:         store,
		topK:          cfg.Meal.TopK,
		minSimilarity: cfg.Meal.MinSimilarity,
	}
}

// RetrieveCandidates 語義檢索後做飲食 / 過敏原過濾並計算庫存覆蓋率
// 返回順序未定，由 Reranker 排序
func (r *Retriever) RetrieveCandidates(ctx context.Context, nlu NLUResult, availableRefs []string) ([]*Candidate, error) {
	query := strings.Join(nlu.Keywords, " ")
	if query == "" {
		query = nlu.Intent
	}

	hits, err := r.store.Search(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}

	refSet := make(map[string]bool, len(availableRefs))
	for _, ref := range availableRefs {
		refSet[ref] = true
	}

	var candidates []*Candidate
	for _, hit := range hits {
		// 位置越界代表索引與 metadata 漂移，靜默略過該筆
		recipe, ok := r.store.RecipeAt(hit.Position)
		if !ok {
			common.LogWarn("檢索位置越界，略過",
				zap.Int("position", hit.Position),
			)
			continue
		}
		if hit.Score < r.minSimilarity {
			continue
		}
		if !matchDiet(recipe, nlu.DietTags) {
			continue
		}
		if containsAllergens(recipe, nlu.Allergies) {
			continue
		}

		candidates = append(candidates, &Candidate{
			Recipe:    recipe,
			Semantic:  hit.Score,
			Inventory: inventoryCoverage(recipe, refSet),
		})
	}

	return candidates, nil
}

// matchDiet 飲食過濾；請求未帶標籤時代表不限制
func matchDiet(recipe *common.Recipe, diets []string) bool {
	if len(diets) == 0 {
		return true
	}
	for _, want := range diets {
		for _, have := range recipe.Diet {
			if want == have {
				return true
			}
		}
	}
	return false
}

// containsAllergens 過敏原判定：過敏原全文小寫串聯後做子串匹配
func containsAllergens(recipe *common.Recipe, allergies []string) bool {
	if len(allergies) == 0 {
		return false
	}
	allergens := strings.ToLower(strings.Join(recipe.Allergens, " "))
	for _, a := range allergies {
		if a == "" {
			continue
		}
		if strings.Contains(allergens, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// inventoryCoverage 計算使用者已有食材的覆蓋比例；無食材的食譜為 0.0
func inventoryCoverage(recipe *common.Recipe, refSet map[string]bool) float64 {
	if len(recipe.Ingredients) == 0 {
		return 0.0
	}
	have := 0
	for _, ing := range recipe.Ingredients {
		if refSet[ing.ReferenceID] {
			have++
		}
	}
	return float64(have) / float64(len(recipe.Ingredients))
}

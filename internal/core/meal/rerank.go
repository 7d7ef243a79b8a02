package meal

import (
	"sort"

	"smartshop-ai/internal/infrastructure/config"
)

const (
	// budgetBoostCap 預算餘裕加成的上限
	budgetBoostCap = 0.4
	// budgetEpsilon 避免除以零
	budgetEpsilon = 1e-6
	// defaultSignal popularity / freshness 缺省時的中性值
	defaultSignal = 0.5
)

// Reranker 多信號加權重排序器
type Reranker struct {
	weights     config.RerankWeights
	returnCount int
}

// NewReranker 創建重排序器
func NewReranker(cfg *config.Config) *Reranker {
	return &Reranker{
		weights:     cfg.Meal.Weights,
		returnCount: cfg.Meal.ReturnCount,
	}
}

// Rerank 就地計算混合分數後穩定排序並截斷
// 同分候選保留檢索順序（穩定排序語義，刻意明確化）
func (r *Reranker) Rerank(candidates []*Candidate, budget float64) []*Candidate {
	for _, c := range candidates {
		c.Score = r.calculateScore(c, budget)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > r.returnCount {
		candidates = candidates[:r.returnCount]
	}
	return candidates
}

// calculateScore 混合分數；只設 1.0 天花板，不做下限裁剪
func (r *Reranker) calculateScore(c *Candidate, budget float64) float64 {
	preference := c.Inventory
	// 使用者預算高於食譜預算時按餘裕比例加成（維持既有行為）
	if budget > 0 && c.Recipe.Budget != nil && *c.Recipe.Budget > 0 {
		if diff := budget - *c.Recipe.Budget; diff > 0 {
			boost := diff / (budget + budgetEpsilon)
			if boost > budgetBoostCap {
				boost = budgetBoostCap
			}
			preference += boost
		}
	}

	promo := 0.0
	if c.Recipe.Promo {
		promo = 1.0
	}

	score := r.weights.Semantic*c.Semantic +
		r.weights.Preference*preference +
		r.weights.Popularity*signalOrDefault(c.Recipe.Popularity) +
		r.weights.Freshness*signalOrDefault(c.Recipe.Freshness) +
		r.weights.Promo*promo

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func signalOrDefault(v *float64) float64 {
	if v == nil {
		return defaultSignal
	}
	return *v
}

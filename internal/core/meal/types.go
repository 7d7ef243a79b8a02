package meal

import (
	"smartshop-ai/internal/pkg/common"
)

// NLUResult 查詢解讀結果
// Servings / Budget 為零值時表示未指定
type NLUResult struct {
	Intent    string
	Keywords  []string
	Servings  int
	DietTags  []string
	Allergies []string
	Budget    float64
}

// Candidate 檢索候選：食譜加上本次請求的相關性信號
// Score 由 Reranker 填入，Response Generator 只讀
type Candidate struct {
	Recipe    *common.Recipe
	Semantic  float64
	Inventory float64
	Score     float64
}

// SuggestRequest 餐點建議請求
type SuggestRequest struct {
	Query               string   `json:"query" binding:"required"`
	AvailableProducts   []string `json:"available_products"`
	Servings            int      `json:"servings,omitempty"`
	DietTags            []string `json:"diet_tags,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	Budget              float64  `json:"budget,omitempty"`
	Language            string   `json:"language,omitempty"`
	Temperature         *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=1"`
}

// SuggestionProduct 建議內的採買品項
type SuggestionProduct struct {
	ReferenceID string `json:"referenceId"`
	Name        string `json:"name,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
}

// Suggestion 單筆餐點建議
type Suggestion struct {
	DishID          string              `json:"dishId"`
	DishName        string              `json:"dishName"`
	Description     string              `json:"description,omitempty"`
	PrepTime        int                 `json:"prepTime,omitempty"`
	EstimatedBudget *float64            `json:"estimatedBudget,omitempty"`
	Products        []SuggestionProduct `json:"products"`
	Score           float64             `json:"score"`
}

// NLUEcho 回傳給前端的查詢解讀摘要
type NLUEcho struct {
	Intent   string `json:"intent"`
	Servings string `json:"servings,omitempty"`
	DietTags string `json:"diet_tags,omitempty"`
	Budget   string `json:"budget,omitempty"`
}

// RetrievalDebugItem 檢索調試信息的單筆候選
type RetrievalDebugItem struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Inventory float64 `json:"inventory"`
}

// RetrievalDebug 檢索調試信息
type RetrievalDebug struct {
	Candidates []RetrievalDebugItem `json:"candidates"`
}

// SuggestResponse 餐點建議響應
type SuggestResponse struct {
	Success        bool           `json:"success"`
	Suggestions    []Suggestion   `json:"suggestions"`
	LLMResponse    string         `json:"llmResponse,omitempty"`
	Prompt         string         `json:"prompt"`
	NLU            NLUEcho        `json:"nlu"`
	RetrievalDebug RetrievalDebug `json:"retrievalDebug"`
	Error          string         `json:"error,omitempty"`
}

// FeedbackRequest 使用者回饋請求
type FeedbackRequest struct {
	Query          string `json:"query" binding:"required"`
	ChosenRecipeID string `json:"chosen_recipe_id" binding:"required"`
	Rating         int    `json:"rating" binding:"gte=0,lte=5"`
	Note           string `json:"note,omitempty"`
}

package common

import (
	"fmt"
	"strings"
)

// Ingredient 食譜內的單一食材，reference_id 對應商品目錄
type Ingredient struct {
	Name        string `json:"name"`
	ReferenceID string `json:"reference_id"`
	Quantity    string `json:"quantity,omitempty"`
}

// Recipe 食譜主檔，從語料檔載入後視為唯讀
// popularity / freshness 允許缺省（缺省時重排序以 0.5 計算）
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	PrepTime    int          `json:"prep_time,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Tags        []string     `json:"tags,omitempty"`
	Diet        []string     `json:"diet,omitempty"`
	Allergens   []string     `json:"allergens,omitempty"`
	Popularity  *float64     `json:"popularity,omitempty"`
	Freshness   *float64     `json:"freshness,omitempty"`
	Promo       bool         `json:"promo,omitempty"`
	Budget      *float64     `json:"budget,omitempty"`
}

// IndexMetadata 向量索引的 metadata side-car
// recipes 的順序必須與索引向量一一對齊
type IndexMetadata struct {
	EmbeddingModel string   `json:"embedding_model"`
	Recipes        []Recipe `json:"recipes"`
}

// FeedbackRecord 使用者回饋，僅追加不修改
type FeedbackRecord struct {
	Query          string `json:"query"`
	ChosenRecipeID string `json:"chosen_recipe_id"`
	Rating         int    `json:"rating"`
	Note           string `json:"note,omitempty"`
}

// FormatIngredients 將食材列表格式化為 name[reference_id] 逗號串
func FormatIngredients(ingredients []Ingredient) string {
	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		parts = append(parts, fmt.Sprintf("%s[%s]", ing.Name, ing.ReferenceID))
	}
	return strings.Join(parts, ", ")
}

// IngredientNames 取出食材名稱列表
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	return names
}

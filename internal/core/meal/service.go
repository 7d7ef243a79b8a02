package meal

import (
	"context"
	"strconv"
	"strings"

	aiservice "smartshop-ai/internal/core/ai/service"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// AssistantService 餐點助理編排：NLU → 檢索 → 重排序 → 回覆生成
// 各階段軟失敗都降級，不讓單一階段失敗中斷整個請求
type AssistantService struct {
	config    *config.Config
	retriever *Retriever
	reranker  *Reranker
	generator *Generator
	feedback  *FeedbackLog
}

// NewAssistantService 創建餐點助理服務
func NewAssistantService(cfg *config.Config, store Searcher, aiService *aiservice.Service) *AssistantService {
	return &AssistantService{
		config:    cfg,
		retriever: NewRetriever(store, cfg),
		reranker:  NewReranker(cfg),
		generator: NewGenerator(aiService, cfg),
		feedback:  NewFeedbackLog(cfg.Meal.FeedbackPath),
	}
}

// Suggest 處理一次餐點建議請求，永遠返回可用的響應
func (s *AssistantService) Suggest(ctx context.Context, req *SuggestRequest) *SuggestResponse {
	nlu := Interpret(req.Query, req.Servings, req.Budget, req.DietTags, req.Allergies)

	var requestErr string
	candidates, err := s.retriever.RetrieveCandidates(ctx, nlu, req.AvailableProducts)
	if err != nil {
		// 檢索失敗（如向量服務不可用）降級為空候選
		common.LogError("候選檢索失敗",
			zap.Error(err),
			zap.String("intent", nlu.Intent),
		)
		requestErr = err.Error()
		candidates = nil
	}

	ranked := s.reranker.Rerank(candidates, nlu.Budget)

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, c := range ranked {
		suggestions = append(suggestions, Suggestion{
			DishID:          c.Recipe.ID,
			DishName:        c.Recipe.Name,
			Description:     c.Recipe.Description,
			PrepTime:        c.Recipe.PrepTime,
			EstimatedBudget: c.Recipe.Budget,
			Products:        buildProducts(c.Recipe),
			Score:           c.Score,
		})
	}

	language := req.Language
	if language == "" {
		language = s.config.Meal.PromptLanguage
	}
	temperature := s.config.Meal.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	structured := BuildStructuredBlock(ranked)

	// 未配置憑證時跳過生成，結構化摘要就是設計上的降級回覆
	llmResponse := ""
	if len(ranked) > 0 && s.generator.Configured() {
		reply, err := s.generator.GenerateReply(ctx, ranked, req.Query, language, temperature)
		if err != nil {
			common.LogError("生成模型呼叫失敗，降級為結構化摘要", zap.Error(err))
			requestErr = err.Error()
		} else {
			llmResponse = reply
		}
	}

	prompt := structured
	if llmResponse == "" {
		llmResponse = structured
	} else {
		prompt = "Structured meal summary"
	}

	debug := RetrievalDebug{Candidates: make([]RetrievalDebugItem, 0, len(candidates))}
	for _, c := range candidates {
		debug.Candidates = append(debug.Candidates, RetrievalDebugItem{
			ID:        c.Recipe.ID,
			Score:     c.Semantic,
			Inventory: c.Inventory,
		})
	}

	return &SuggestResponse{
		Success:        true,
		Suggestions:    suggestions,
		LLMResponse:    llmResponse,
		Prompt:         prompt,
		NLU:            buildNLUEcho(nlu),
		RetrievalDebug: debug,
		Error:          requestErr,
	}
}

// LogFeedback 追加一筆使用者回饋
func (s *AssistantService) LogFeedback(req *FeedbackRequest) error {
	return s.feedback.Append(common.FeedbackRecord{
		Query:          req.Query,
		ChosenRecipeID: req.ChosenRecipeID,
		Rating:         req.Rating,
		Note:           req.Note,
	})
}

// buildProducts 食譜食材轉採買品項
func buildProducts(recipe *common.Recipe) []SuggestionProduct {
	products := make([]SuggestionProduct, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		products = append(products, SuggestionProduct{
			ReferenceID: ing.ReferenceID,
			Name:        ing.Name,
			Reason:      "Nguyên liệu bắt buộc",
			Quantity:    ing.Quantity,
		})
	}
	return products
}

// buildNLUEcho 查詢解讀摘要，未命中的欄位留空
func buildNLUEcho(nlu NLUResult) NLUEcho {
	echo := NLUEcho{Intent: nlu.Intent}
	if nlu.Servings > 0 {
		echo.Servings = strconv.Itoa(nlu.Servings)
	}
	if len(nlu.DietTags) > 0 {
		echo.DietTags = strings.Join(nlu.DietTags, ", ")
	}
	if nlu.Budget > 0 {
		echo.Budget = strconv.FormatFloat(nlu.Budget, 'f', -1, 64)
	}
	return echo
}

package meal

import (
	"net/http"

	mealService "smartshop-ai/internal/core/meal"
	"smartshop-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 餐點助理處理程序
type Handler struct {
	assistant *mealService.AssistantService
}

// NewHandler 創建餐點助理處理程序
func NewHandler(assistant *mealService.AssistantService) *Handler {
	return &Handler{
		assistant: assistant,
	}
}

// HandleSuggest 餐點建議端點
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req mealService.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   common.ErrInvalidRequest.Message,
		})
		return
	}

	common.LogInfo("開始處理餐點建議請求",
		zap.String("request_id", requestID),
		zap.Int("available_products", len(req.AvailableProducts)),
	)

	// 服務層永遠返回可用響應，軟失敗記錄在 error 欄位
	resp := h.assistant.Suggest(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// HandleFeedback 使用者回饋端點
func (h *Handler) HandleFeedback(c *gin.Context) {
	var req mealService.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("回饋格式無效", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   common.ErrInvalidRequest.Message,
		})
		return
	}

	if err := h.assistant.LogFeedback(&req); err != nil {
		common.LogError("回饋寫入失敗",
			zap.Error(err),
			zap.String("recipe_id", req.ChosenRecipeID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   common.ErrInternalError.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

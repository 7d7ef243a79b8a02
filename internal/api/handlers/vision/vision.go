package vision

import (
	"encoding/base64"
	"net/http"

	visionService "smartshop-ai/internal/core/vision"
	"smartshop-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 視覺端點處理程序，轉發至外部視覺服務
type Handler struct {
	client       *visionService.Client
	maxSizeBytes int64
}

// NewHandler 創建視覺處理程序
func NewHandler(client *visionService.Client, maxSizeBytes int64) *Handler {
	return &Handler{
		client:       client,
		maxSizeBytes: maxSizeBytes,
	}
}

// imageRequest 影像請求體
type imageRequest struct {
	ImageB64 string `json:"image_b64" binding:"required"`
	Mime     string `json:"mime"`
}

// validate 驗證 base64 負載；畸形輸入以 success:false 回報，不拋例外
func (h *Handler) validate(c *gin.Context) (*imageRequest, bool) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   common.ErrInvalidRequest.Message,
		})
		return nil, false
	}
	if req.Mime == "" {
		req.Mime = "image/jpeg"
	}

	decoded, err := base64.StdEncoding.DecodeString(req.ImageB64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   common.ErrInvalidImageFormat.Message,
		})
		return nil, false
	}
	if int64(len(decoded)) > h.maxSizeBytes {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "image size exceeds limit",
		})
		return nil, false
	}
	return &req, true
}

// HandleFaceEncode 人臉向量抽取端點
func (h *Handler) HandleFaceEncode(c *gin.Context) {
	req, ok := h.validate(c)
	if !ok {
		return
	}

	result, err := h.client.EncodeFace(c.Request.Context(), req.ImageB64, req.Mime)
	if err != nil {
		common.LogError("人臉向量服務呼叫失敗", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   common.ErrVisionUnavailable.Message,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleProductRecognize 商品辨識端點
func (h *Handler) HandleProductRecognize(c *gin.Context) {
	req, ok := h.validate(c)
	if !ok {
		return
	}

	result, err := h.client.RecognizeProduct(c.Request.Context(), req.ImageB64, req.Mime)
	if err != nil {
		common.LogError("商品辨識服務呼叫失敗", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   common.ErrVisionUnavailable.Message,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

package meal

import (
	"context"
	"fmt"
	"strings"

	aiservice "smartshop-ai/internal/core/ai/service"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"
)

// promptTemplate 單輪提示詞：結構化摘要 + 原始查詢 + 語言 + 候選數
const promptTemplate = `Bạn là trợ lý ẩm thực của SmartShop. Hãy dựa trên dữ liệu có cấu trúc dưới đây để trả lời dạng hội thoại.
Thông tin món ăn:
%s

Yêu cầu khách hàng: %s

Trả lời bằng tiếng %s với giọng thân thiện, liệt kê tối đa %d món.
Đồng thời nhắc sản phẩm nên mua và câu hỏi kết thúc mở để khách phản hồi.`

// Generator 回覆生成器：確定性摘要 + 可選的 LLM 會話回覆
type Generator struct {
	aiService *aiservice.Service
	config    *config.Config
}

// NewGenerator 創建回覆生成器
func NewGenerator(aiService *aiservice.Service, cfg *config.Config) *Generator {
	return &Generator{
		aiService: aiService,
		config:    cfg,
	}
}

// BuildStructuredBlock 生成確定性的結構化摘要，同輸入必同輸出
func BuildStructuredBlock(ranked []*Candidate) string {
	var sb strings.Builder
	for i, c := range ranked {
		if i > 0 {
			sb.WriteString("\n")
		}
		prepTime := "?"
		if c.Recipe.PrepTime > 0 {
			prepTime = fmt.Sprintf("%d", c.Recipe.PrepTime)
		}
		sb.WriteString(fmt.Sprintf("%d. %s (score %.2f)\n", i+1, c.Recipe.Name, c.Score))
		sb.WriteString(fmt.Sprintf("   - Mô tả: %s\n", c.Recipe.Description))
		sb.WriteString(fmt.Sprintf("   - Thời gian: %s phút\n", prepTime))
		sb.WriteString(fmt.Sprintf("   - Nguyên liệu: %s", common.FormatIngredients(c.Recipe.Ingredients)))
	}
	return sb.String()
}

// Configured 是否具備生成憑證；未配置時走降級模式
func (g *Generator) Configured() bool {
	return g.aiService != nil && g.aiService.Configured()
}

// GenerateReply 組裝提示詞並呼叫生成模型
// 失敗由呼叫端降級為結構化摘要，不中斷整個請求
func (g *Generator) GenerateReply(ctx context.Context, ranked []*Candidate, query, language string, temperature float64) (string, error) {
	structured := BuildStructuredBlock(ranked)
	prompt := fmt.Sprintf(promptTemplate, structured, query, language, len(ranked))
	return g.aiService.ProcessRequest(ctx, prompt, temperature)
}

package meal

import (
	"regexp"
	"strconv"
	"strings"
)

// 意圖關鍵詞組，依序測試，先命中者勝
// 關鍵詞是多語言的字面子串，不做斷詞
var intentKeywordGroups = []struct {
	label    string
	keywords []string
}{
	{"suggest", []string{"gợi ý", "ăn gì", "suggest"}},
	{"search", []string{"tìm", "kiếm"}},
	{"add_to_cart", []string{"thêm giỏ", "đặt"}},
}

// 飲食偏好關鍵詞組
var dietKeywordGroups = []struct {
	tag      string
	keywords []string
}{
	{"healthy", []string{"healthy", "eat clean", "nhẹ nhàng"}},
	{"vegan", []string{"thuần chay", "vegan"}},
	{"vegetarian", []string{"ăn chay", "vegetarian"}},
	{"high-protein", []string{"giàu đạm", "high protein"}},
}

var (
	servingsPattern = regexp.MustCompile(`(\d+)\s*(người|khẩu|phần)`)
	budgetPattern   = regexp.MustCompile(`(\d+[.,]?\d*)\s*(k|nghìn|ngan|triệu|vnd|đ)`)
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}-]+`)
)

// Interpret 解讀自然語言查詢，純函數，永不失敗
// 未命中的欄位保持零值，由呼叫端自行判斷
func Interpret(query string, explicitServings int, explicitBudget float64, dietTags, allergies []string) NLUResult {
	q := strings.ToLower(query)

	intent := "suggest"
	for _, group := range intentKeywordGroups {
		if containsAny(q, group.keywords) {
			intent = group.label
			break
		}
	}

	servings := explicitServings
	if servings == 0 {
		if match := servingsPattern.FindStringSubmatch(q); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil {
				servings = n
			}
		}
	}

	budget := explicitBudget
	if budget == 0 {
		budget = extractBudget(q)
	}

	// 顯式標籤聯集查詢中推斷出的標籤，保留輸入順序
	detected := make([]string, 0, len(dietTags))
	seen := make(map[string]bool, len(dietTags))
	for _, tag := range dietTags {
		if !seen[tag] {
			detected = append(detected, tag)
			seen[tag] = true
		}
	}
	for _, group := range dietKeywordGroups {
		if !seen[group.tag] && containsAny(q, group.keywords) {
			detected = append(detected, group.tag)
			seen[group.tag] = true
		}
	}

	// 抽取長度大於 3 的字母數字串，保序且保留重複
	var keywords []string
	for _, tok := range tokenPattern.FindAllString(q, -1) {
		if len([]rune(tok)) > 3 {
			keywords = append(keywords, tok)
		}
	}

	return NLUResult{
		Intent:    intent,
		Keywords:  keywords,
		Servings:  servings,
		DietTags:  detected,
		Allergies: allergies,
		Budget:    budget,
	}
}

// extractBudget 解析帶貨幣單位的金額，逗號小數點正規化後換算倍率
func extractBudget(q string) float64 {
	match := budgetPattern.FindStringSubmatch(q)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0
	}

	switch match[2] {
	case "k", "nghìn", "ngan":
		return value * 1_000
	case "triệu":
		return value * 1_000_000
	default:
		return value
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

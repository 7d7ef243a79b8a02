package meal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpret(t *testing.T) {
	t.Run("full query with servings, diet and budget", func(t *testing.T) {
		got := Interpret("ăn gì cho 4 người healthy dưới 100k", 0, 0, nil, nil)

		assert.Equal(t, "suggest", got.Intent)
		assert.Equal(t, 4, got.Servings)
		assert.Equal(t, []string{"healthy"}, got.DietTags)
		assert.Equal(t, 100000.0, got.Budget)
		assert.Contains(t, got.Keywords, "healthy")
		assert.Contains(t, got.Keywords, "người")
	})

	t.Run("search intent", func(t *testing.T) {
		got := Interpret("tìm món gà chiên", 0, 0, nil, nil)
		assert.Equal(t, "search", got.Intent)
	})

	t.Run("add to cart intent", func(t *testing.T) {
		got := Interpret("thêm giỏ hàng cho tôi", 0, 0, nil, nil)
		assert.Equal(t, "add_to_cart", got.Intent)
	})

	t.Run("intent groups are ordered, first match wins", func(t *testing.T) {
		// 同時命中 suggest 與 search 時 suggest 先測先勝
		got := Interpret("gợi ý giúp tôi tìm món", 0, 0, nil, nil)
		assert.Equal(t, "suggest", got.Intent)
	})

	t.Run("defaults to suggest when nothing matches", func(t *testing.T) {
		got := Interpret("hôm nay trời đẹp", 0, 0, nil, nil)
		assert.Equal(t, "suggest", got.Intent)
	})

	t.Run("explicit servings override text", func(t *testing.T) {
		got := Interpret("cơm cho 4 người", 2, 0, nil, nil)
		assert.Equal(t, 2, got.Servings)
	})

	t.Run("explicit budget overrides text", func(t *testing.T) {
		got := Interpret("bữa tối dưới 100k", 0, 250000, nil, nil)
		assert.Equal(t, 250000.0, got.Budget)
	})

	t.Run("budget units", func(t *testing.T) {
		cases := []struct {
			query string
			want  float64
		}{
			{"dưới 50k", 50000},
			{"khoảng 80 nghìn", 80000},
			{"tầm 2 triệu", 2000000},
			{"1,5 triệu", 1500000},
			{"200000 vnd", 200000},
		}
		for _, tc := range cases {
			got := Interpret(tc.query, 0, 0, nil, nil)
			assert.Equal(t, tc.want, got.Budget, "query %q", tc.query)
		}
	})

	t.Run("unspecified fields stay zero", func(t *testing.T) {
		got := Interpret("món ngon", 0, 0, nil, nil)
		assert.Zero(t, got.Servings)
		assert.Zero(t, got.Budget)
		assert.Empty(t, got.DietTags)
	})

	t.Run("diet tags union keeps input order first", func(t *testing.T) {
		got := Interpret("món healthy thuần chay", 0, 0, []string{"vegan"}, nil)
		assert.Equal(t, []string{"vegan", "healthy"}, got.DietTags)
	})

	t.Run("allergies pass through untouched", func(t *testing.T) {
		got := Interpret("ăn gì", 0, 0, nil, []string{"đậu phộng"})
		assert.Equal(t, []string{"đậu phộng"}, got.Allergies)
	})

	t.Run("keywords keep only tokens longer than three runes", func(t *testing.T) {
		got := Interpret("gà kho tộ truyền thống", 0, 0, nil, nil)
		assert.Equal(t, []string{"truyền", "thống"}, got.Keywords)
	})
}

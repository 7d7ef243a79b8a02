package meal

import (
	"testing"

	"smartshop-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestBuildStructuredBlock(t *testing.T) {
	pho := &Candidate{
		Recipe: &common.Recipe{
			ID:          "pho-bo",
			Name:        "Phở bò",
			Description: "Món nước truyền thống",
			PrepTime:    45,
			Ingredients: []common.Ingredient{
				{Name: "bánh phở", ReferenceID: "p1"},
				{Name: "thịt bò", ReferenceID: "p2"},
			},
		},
		Score: 0.8,
	}

	t.Run("renders numbered entries with ingredients", func(t *testing.T) {
		got := BuildStructuredBlock([]*Candidate{pho})

		assert.Contains(t, got, "1. Phở bò (score 0.80)")
		assert.Contains(t, got, "- Mô tả: Món nước truyền thống")
		assert.Contains(t, got, "- Thời gian: 45 phút")
		assert.Contains(t, got, "- Nguyên liệu: bánh phở[p1], thịt bò[p2]")
	})

	t.Run("unknown prep time renders placeholder", func(t *testing.T) {
		c := &Candidate{Recipe: &common.Recipe{Name: "Gỏi cuốn"}, Score: 0.5}

		got := BuildStructuredBlock([]*Candidate{c})

		assert.Contains(t, got, "- Thời gian: ? phút")
	})

	t.Run("same input produces identical output", func(t *testing.T) {
		ranked := []*Candidate{pho}
		assert.Equal(t, BuildStructuredBlock(ranked), BuildStructuredBlock(ranked))
	})

	t.Run("empty candidates produce empty block", func(t *testing.T) {
		assert.Empty(t, BuildStructuredBlock(nil))
	})

	t.Run("entries are numbered in rank order", func(t *testing.T) {
		second := &Candidate{Recipe: &common.Recipe{Name: "Bún chả"}, Score: 0.6}

		got := BuildStructuredBlock([]*Candidate{pho, second})

		assert.Contains(t, got, "1. Phở bò")
		assert.Contains(t, got, "2. Bún chả")
	})
}

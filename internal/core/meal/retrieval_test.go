package meal

import (
	"context"
	"errors"
	"testing"

	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher 測試用索引替身
type fakeSearcher struct {
	hits      []index.Hit
	recipes   []*common.Recipe
	err       error
	lastQuery string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]index.Hit, error) {
	f.lastQuery = query
	return f.hits, f.err
}

func (f *fakeSearcher) RecipeAt(pos int) (*common.Recipe, bool) {
	if pos < 0 || pos >= len(f.recipes) {
		return nil, false
	}
	return f.recipes[pos], true
}

func retrievalConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Meal.TopK = 50
	cfg.Meal.MinSimilarity = 0.15
	return cfg
}

func TestRetrieveCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("passes joined keywords as query", func(t *testing.T) {
		store := &fakeSearcher{}
		r := NewRetriever(store, retrievalConfig())

		_, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest", Keywords: []string{"healthy", "salad"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, "healthy salad", store.lastQuery)
	})

	t.Run("falls back to intent when no keywords", func(t *testing.T) {
		store := &fakeSearcher{}
		r := NewRetriever(store, retrievalConfig())

		_, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "suggest", store.lastQuery)
	})

	t.Run("drops hits below similarity threshold", func(t *testing.T) {
		store := &fakeSearcher{
			hits: []index.Hit{
				{Position: 0, Score: 0.9},
				{Position: 1, Score: 0.1},
			},
			recipes: []*common.Recipe{
				{ID: "keep"},
				{ID: "drop"},
			},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, nil)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "keep", got[0].Recipe.ID)
	})

	t.Run("skips out of range positions", func(t *testing.T) {
		store := &fakeSearcher{
			hits: []index.Hit{
				{Position: 5, Score: 0.9},
				{Position: 0, Score: 0.8},
			},
			recipes: []*common.Recipe{{ID: "only"}},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, nil)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "only", got[0].Recipe.ID)
	})

	t.Run("filters by diet tags", func(t *testing.T) {
		store := &fakeSearcher{
			hits: []index.Hit{
				{Position: 0, Score: 0.9},
				{Position: 1, Score: 0.8},
			},
			recipes: []*common.Recipe{
				{ID: "salad", Diet: []string{"healthy", "vegan"}},
				{ID: "steak", Diet: []string{"high-protein"}},
			},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest", DietTags: []string{"vegan"}}, nil)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "salad", got[0].Recipe.ID)
	})

	t.Run("empty diet tags mean no restriction", func(t *testing.T) {
		store := &fakeSearcher{
			hits:    []index.Hit{{Position: 0, Score: 0.9}},
			recipes: []*common.Recipe{{ID: "any", Diet: []string{"high-protein"}}},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, nil)

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("excludes recipes containing allergens case-insensitively", func(t *testing.T) {
		store := &fakeSearcher{
			hits: []index.Hit{
				{Position: 0, Score: 0.9},
				{Position: 1, Score: 0.8},
			},
			recipes: []*common.Recipe{
				{ID: "peanut-dish", Allergens: []string{"Đậu Phộng Rang"}},
				{ID: "safe-dish"},
			},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest", Allergies: []string{"đậu phộng"}}, nil)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "safe-dish", got[0].Recipe.ID)
	})

	t.Run("computes inventory coverage", func(t *testing.T) {
		store := &fakeSearcher{
			hits: []index.Hit{{Position: 0, Score: 0.9}},
			recipes: []*common.Recipe{
				{
					ID: "pho",
					Ingredients: []common.Ingredient{
						{Name: "bánh phở", ReferenceID: "p1"},
						{Name: "thịt bò", ReferenceID: "p2"},
						{Name: "hành", ReferenceID: "p3"},
						{Name: "rau thơm", ReferenceID: "p4"},
					},
				},
			},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, []string{"p1", "p3"})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 0.5, got[0].Inventory, 1e-9)
	})

	t.Run("recipe without ingredients gets zero coverage", func(t *testing.T) {
		store := &fakeSearcher{
			hits:    []index.Hit{{Position: 0, Score: 0.9}},
			recipes: []*common.Recipe{{ID: "bare"}},
		}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, []string{"p1"})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Zero(t, got[0].Inventory)
	})

	t.Run("propagates search errors", func(t *testing.T) {
		store := &fakeSearcher{err: errors.New("embedding service down")}
		r := NewRetriever(store, retrievalConfig())

		got, err := r.RetrieveCandidates(ctx, NLUResult{Intent: "suggest"}, nil)

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

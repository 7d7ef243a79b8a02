package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Meal.IndexPath = filepath.Join(dir, "meal_index.bin")
	cfg.Meal.MetadataPath = filepath.Join(dir, "meal_metadata.json")
	return cfg
}

func buildArtifacts(t *testing.T, dir string) []common.Recipe {
	t.Helper()
	recipes := sampleRecipes()
	cfg := storeConfig(dir)
	require.NoError(t, BuildIndex(context.Background(), recipes, &fakeEmbedder{}, cfg.Meal.IndexPath, cfg.Meal.MetadataPath))
	return recipes
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("warmup loads built artifacts", func(t *testing.T) {
		dir := t.TempDir()
		recipes := buildArtifacts(t, dir)
		store := NewStore(storeConfig(dir), &fakeEmbedder{})

		require.NoError(t, store.Warmup())
		assert.Equal(t, len(recipes), store.Count())
	})

	t.Run("search returns aligned recipes", func(t *testing.T) {
		dir := t.TempDir()
		buildArtifacts(t, dir)
		store := NewStore(storeConfig(dir), &fakeEmbedder{})

		hits, err := store.Search(ctx, "phở bò", 10)

		require.NoError(t, err)
		require.NotEmpty(t, hits)
		recipe, ok := store.RecipeAt(hits[0].Position)
		require.True(t, ok)
		assert.NotEmpty(t, recipe.ID)
	})

	t.Run("recipe position out of range", func(t *testing.T) {
		dir := t.TempDir()
		buildArtifacts(t, dir)
		store := NewStore(storeConfig(dir), &fakeEmbedder{})
		require.NoError(t, store.Warmup())

		_, ok := store.RecipeAt(99)
		assert.False(t, ok)
		_, ok = store.RecipeAt(-1)
		assert.False(t, ok)
	})

	t.Run("count mismatch between index and metadata is fatal", func(t *testing.T) {
		dir := t.TempDir()
		buildArtifacts(t, dir)
		cfg := storeConfig(dir)

		// 截斷 metadata 造成對齊漂移
		truncated := common.IndexMetadata{
			EmbeddingModel: "fake-embedder",
			Recipes:        sampleRecipes()[:1],
		}
		data, err := common.ToJSON(truncated)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(cfg.Meal.MetadataPath, []byte(data), 0644))

		store := NewStore(cfg, &fakeEmbedder{})
		err = store.Warmup()

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrIndexMisaligned)
		assert.Zero(t, store.Count())
	})

	t.Run("missing artifacts fail warmup but not construction", func(t *testing.T) {
		store := NewStore(storeConfig(t.TempDir()), &fakeEmbedder{})
		assert.Error(t, store.Warmup())
	})

	t.Run("load failure is sticky", func(t *testing.T) {
		store := NewStore(storeConfig(t.TempDir()), &fakeEmbedder{})
		first := store.Warmup()
		second := store.Warmup()
		assert.Equal(t, first, second)
	})
}

package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// 索引檔頭：magic + 版本 + 維度 + 向量數，之後接 count*dim 個 float32 (little-endian)
var fileMagic = [6]byte{'M', 'E', 'A', 'L', 'I', 'X'}

const fileVersion uint16 = 1

// Hit 最近鄰搜尋結果，Position 對應 metadata 內的食譜位置
type Hit struct {
	Position int
	Score    float64
}

// FlatIndex 扁平內積索引
// 向量需先單位正規化，內積即等價於 cosine 相似度
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex 創建指定維度的空索引
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Dim 返回向量維度
func (ix *FlatIndex) Dim() int {
	return ix.dim
}

// Len 返回向量數量
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Add 加入一條向量
func (ix *FlatIndex) Add(vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vec), ix.dim)
	}
	ix.vectors = append(ix.vectors, vec)
	return nil
}

// Search 內積最近鄰搜尋，返回分數遞減的前 k 筆
// 同分時保留位置順序，確保結果可重現
func (ix *FlatIndex) Search(query []float32, k int) []Hit {
	if len(query) != ix.dim || k <= 0 {
		return nil
	}

	hits := make([]Hit, 0, len(ix.vectors))
	for pos, vec := range ix.vectors {
		var dot float64
		for i, v := range vec {
			dot += float64(v) * float64(query[i])
		}
		hits = append(hits, Hit{Position: pos, Score: dot})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// Normalize 將向量單位正規化；零向量原樣返回
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// WriteFile 將索引序列化到磁碟
func (ix *FlatIndex) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(fileMagic[:]); err != nil {
		return err
	}
	header := []interface{}{
		fileVersion,
		uint32(ix.dim),
		uint32(len(ix.vectors)),
	}
	for _, field := range header {
		if err := binary.Write(f, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("failed to write index header: %w", err)
		}
	}
	for _, vec := range ix.vectors {
		if err := binary.Write(f, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("failed to write index vectors: %w", err)
		}
	}
	return nil
}

// ReadFile 從磁碟載入索引
func ReadFile(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file %s: %w", path, err)
	}
	defer f.Close()

	var magic [6]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("not a meal index file: %s", path)
	}

	var version uint16
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read index version: %w", err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported index version %d", version)
	}

	var dim, count uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("failed to read index dimension: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read index count: %w", err)
	}

	ix := NewFlatIndex(int(dim))
	for i := uint32(0); i < count; i++ {
		vec := make([]float32, dim)
		if err := binary.Read(f, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("failed to read vector %d: %w", i, err)
		}
		ix.vectors = append(ix.vectors, vec)
	}
	return ix, nil
}

package index

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"smartshop-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// 離線建置時的向量化併發度
const embedWorkers = 4

// embedJob 向量化工作
type embedJob struct {
	position int
	text     string
}

// embedCorpus 以固定數量的 worker 併發向量化語料，結果保持原順序
func embedCorpus(ctx context.Context, corpus []string, embedder Embedder) ([][]float32, error) {
	jobs := make(chan embedJob, len(corpus))
	vectors := make([][]float32, len(corpus))

	var (
		wg        sync.WaitGroup
		processed int64
		firstErr  error
		errOnce   sync.Once
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := embedWorkers
	if workers > len(corpus) {
		workers = len(corpus)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				vec, err := embedder.EmbedText(ctx, job.text)
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("failed to embed corpus entry %d: %w", job.position, err)
						cancel()
					})
					return
				}
				vectors[job.position] = Normalize(vec)
				atomic.AddInt64(&processed, 1)
			}
		}()
	}

	for i, text := range corpus {
		jobs <- embedJob{position: i, text: text}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// 上層 context 取消時 worker 會空手返回，不能當成建置成功
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("corpus embedding interrupted: %w", err)
	}

	common.LogInfo("語料向量化完成",
		zap.Int64("processed", atomic.LoadInt64(&processed)),
		zap.Int("workers", workers),
	)
	return vectors, nil
}

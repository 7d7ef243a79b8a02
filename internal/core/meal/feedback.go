package meal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"smartshop-ai/internal/pkg/common"
)

// FeedbackLog 追加式回饋日誌，一行一筆 JSON
// 只有追加路徑，沒有修改與刪除
type FeedbackLog struct {
	path string
	mu   sync.Mutex
}

// NewFeedbackLog 創建回饋日誌
func NewFeedbackLog(path string) *FeedbackLog {
	return &FeedbackLog{path: path}
}

// Append 追加一筆回饋；O_APPEND 保證行級原子性
func (l *FeedbackLog) Append(rec common.FeedbackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create feedback directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open feedback log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append feedback: %w", err)
	}
	return nil
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"smart-fridge-api/internal/core/ai/cache"
	"smart-fridge-api/internal/core/ai/openrouter"
	"smart-fridge-api/internal/infrastructure/config"
	"smart-fridge-api/internal/pkg/common"
)

// Service AI 服務，統一處理快取、頻率限制與 OpenRouter 呼叫
type Service struct {
	config       *config.Config
	client       *openrouter.Client
	cacheManager *cache.Manager
	mu           sync.Mutex
	lastRequest  time.Time
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		client:       openrouter.NewClient(cfg),
		cacheManager: cacheManager,
	}
}

// Chat 送出對話並取回模型回覆。
// 相同的對話內容（含掃描圖片）直接回快取結果，不重打 OpenRouter。
func (s *Service) Chat(ctx context.Context, messages []openrouter.Message, requestID string) (string, error) {
	if err := s.checkRequestRate(); err != nil {
		return "", err
	}

	key, err := cacheKey(messages)
	if err != nil {
		return "", err
	}

	if s.cacheManager != nil {
		if val, ok := s.cacheManager.Get(ctx, key); ok {
			return val, nil
		}
	}

	start := time.Now()
	content, err := s.client.ChatCompletion(ctx, messages)
	common.LogAICall(time.Since(start), err, requestID)
	if err != nil {
		return "", err
	}

	if s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, key, content)
	}

	return content, nil
}

// cacheKey 以整段對話序列化後的雜湊當快取鍵
func cacheKey(messages []openrouter.Message) (string, error) {
	payload, err := json.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("failed to build cache key: %w", err)
	}
	return cache.Key(string(payload)), nil
}

// checkRequestRate 檢查請求頻率，限制對 OpenRouter 的平均請求間隔
func (s *Service) checkRequestRate() error {
	if !s.config.RateLimit.Enabled || s.config.RateLimit.Requests <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	minInterval := s.config.RateLimit.Window / time.Duration(s.config.RateLimit.Requests)
	if now.Sub(s.lastRequest) < minInterval {
		return errors.New("request rate limit exceeded")
	}

	s.lastRequest = now
	return nil
}

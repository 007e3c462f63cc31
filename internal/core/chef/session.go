package chef

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"smart-fridge-api/internal/core/ai/openrouter"
	"smart-fridge-api/internal/infrastructure/config"
	"smart-fridge-api/internal/pkg/common"
)

// Session 一段進行中的廚師對話。
// OpenRouter 的 chat completions 沒有伺服器端狀態，
// 完整的訊息歷史存在 session 裡，每輪對話整段重送。
type Session struct {
	UserID      string                  `json:"user_id"`
	History     []openrouter.Message    `json:"history"`
	ActiveItems []common.FridgeItemView `json:"active_items"`
	Recipe      *common.ChefRecipe      `json:"recipe"`
	Revisions   int                     `json:"revisions"`
	CreatedAt   time.Time               `json:"created_at"`
}

// SessionStore 對話 session 的儲存介面
type SessionStore interface {
	// Get 讀取 session，不存在時回傳 false
	Get(ctx context.Context, userID string) (*Session, bool, error)
	Set(ctx context.Context, session *Session) error
	Delete(ctx context.Context, userID string) error
}

// NewSessionStore 依設定選擇 session 後端。
// 單機部署用 memory 就夠，多副本部署改設 redis。
func NewSessionStore(cfg *config.Config) (SessionStore, error) {
	switch cfg.Chef.SessionBackend {
	case "redis":
		return newRedisSessionStore(cfg)
	case "memory":
		return newMemorySessionStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Chef.SessionBackend)
	}
}

// memorySessionStore 行程內的 session 儲存
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func newMemorySessionStore(cfg *config.Config) *memorySessionStore {
	s := &memorySessionStore{
		sessions: make(map[string]*Session),
		ttl:      cfg.Chef.SessionTTL,
	}
	go s.startCleanup()
	return s
}

func (s *memorySessionStore) Get(ctx context.Context, userID string) (*Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	if time.Since(session.CreatedAt) > s.ttl {
		return nil, false, nil
	}
	return session, true, nil
}

func (s *memorySessionStore) Set(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *memorySessionStore) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		removed := 0
		for userID, session := range s.sessions {
			if time.Since(session.CreatedAt) > s.ttl {
				delete(s.sessions, userID)
				removed++
			}
		}
		s.mu.Unlock()
		if removed > 0 {
			common.LogDebug("過期 session 已清理", zap.Int("count", removed))
		}
	}
}

// redisSessionStore 以 Redis 儲存 session，支援多副本部署
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisSessionStore(cfg *config.Config) (*redisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Chef.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	common.LogInfo("Session 改用 Redis 後端", zap.String("addr", cfg.Chef.RedisAddr))
	return &redisSessionStore{
		client: client,
		ttl:    cfg.Chef.SessionTTL,
	}, nil
}

func sessionKey(userID string) string {
	return "chef:session:" + userID
}

func (s *redisSessionStore) Get(ctx context.Context, userID string) (*Session, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, true, nil
}

func (s *redisSessionStore) Set(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"sync"
	"time"
)

// 期限切れの掃除間隔
const sweepInterval = time.Minute

// MemoryDeliveryStore はRedisなしで動かすとき用（1プロセス内だけ有効）。
type MemoryDeliveryStore struct {
	mu        sync.Mutex
	entries   map[string]time.Time // deliveryID -> 期限
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryDeliveryStore() *MemoryDeliveryStore {
	return &MemoryDeliveryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryDeliveryStore) MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	if exp, ok := s.entries[deliveryID]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[deliveryID] = now.Add(ttl)
	return true, nil
}

// Forget は記録を消す（処理に失敗した配信を再送で受け直すため）
func (s *MemoryDeliveryStore) Forget(ctx context.Context, deliveryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, deliveryID)
	return nil
}

// Len は保持している件数（期限切れで未掃除のものも含む）
func (s *MemoryDeliveryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// 全件走査は sweepInterval に1回だけ
func (s *MemoryDeliveryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, id)
		}
	}
}

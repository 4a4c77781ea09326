package game

import (
	"sync"

	"github.com/wfunc/casino-server/internal/errors"
)

// Store 会话注册表。每种游戏类型一个槽位，
// "同一时间至多一局"的不变量由这里保证，而不是散落在各处的判空。
type Store struct {
	mu    sync.Mutex
	slots map[Type]Session
}

// NewStore 创建会话注册表
func NewStore() *Store {
	return &Store{
		slots: make(map[Type]Session),
	}
}

// TryAcquire 尝试占用槽位。已有未结束的会话时返回 ErrActiveGame。
func (s *Store) TryAcquire(t Type, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.slots[t]; ok && !existing.Finished() {
		return errors.New(errors.ErrActiveGame, string(t))
	}
	s.slots[t] = session
	return nil
}

// Get 获取槽位中未结束的会话
func (s *Store) Get(t Type) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.slots[t]
	if !ok || session.Finished() {
		return nil, false
	}
	return session, true
}

// Release 清空槽位
func (s *Store) Release(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, t)
}

package jobs

import (
	"log"
	"time"

	"github.com/bharatbus/bharatbus-backend/internal/cache"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
)

// Sweeper runs periodic housekeeping: expired active sessions are flipped
// inactive, unsent notifications get a redelivery attempt, and the in-memory
// cache drops dead entries.
type Sweeper struct {
	store         storage.Store
	notifications *services.NotificationService
	memCache      *cache.MemoryStore // nil when Redis backs the cache
	interval      time.Duration
	stop          chan struct{}
}

// NewSweeper creates a sweeper. memCache may be nil.
func NewSweeper(store storage.Store, notifications *services.NotificationService, memCache *cache.MemoryStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:         store,
		notifications: notifications,
		memCache:      memCache,
		interval:      interval,
		stop:          make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine.
func (s *Sweeper) Start() {
	log.Printf("🧹 Session sweeper started (interval %s)", s.interval)
	go s.run()
}

// Stop halts the sweep loop.
func (s *Sweeper) Stop() {
	close(s.stop)
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			log.Println("🧹 Session sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) sweep() {
	now := time.Now()

	sessions, err := s.store.GetExpiredActiveSessions(now)
	if err != nil {
		log.Printf("❌ Sweeper failed to list expired sessions: %v", err)
	} else {
		for _, session := range sessions {
			session.IsActive = false
			if err := s.store.UpdateSession(session); err != nil {
				log.Printf("❌ Sweeper failed to deactivate session %s: %v", session.SessionID, err)
			}
		}
		if len(sessions) > 0 {
			log.Printf("🧹 Deactivated %d expired sessions", len(sessions))
		}
	}

	pending, err := s.store.GetUnsentNotifications(50)
	if err != nil {
		log.Printf("❌ Sweeper failed to list unsent notifications: %v", err)
	} else {
		for _, notification := range pending {
			s.notifications.Dispatch(notification)
		}
	}

	if s.memCache != nil {
		if removed := s.memCache.Compact(); removed > 0 {
			log.Printf("🧹 Compacted %d expired cache entries", removed)
		}
	}
}

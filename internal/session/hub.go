package session

import (
	"sync"

	"github.com/park285/hotseat-chess/internal/obslog"
	"go.uber.org/zap"
)

const subscriberBuffer = 8

// Hub fans out record updates to per-game subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses that update. Records are
// delivered in Version order; one older than what a subscriber has already
// been offered is dropped, so commits that publish out of order cannot leave
// a subscriber on a stale position.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*subscriber
}

type subscriber struct {
	ch   chan *Record
	last int64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscriber)}
}

// Subscribe registers for updates of game id. The returned cancel func closes
// the channel and is safe to call more than once.
func (h *Hub) Subscribe(id string) (<-chan *Record, func()) {
	sub := &subscriber{ch: make(chan *Record, subscriberBuffer)}
	h.mu.Lock()
	h.nextID++
	sid := h.nextID
	if h.subs[id] == nil {
		h.subs[id] = make(map[int]*subscriber)
	}
	h.subs[id][sid] = sub
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set := h.subs[id]; set != nil {
				delete(set, sid)
				if len(set) == 0 {
					delete(h.subs, id)
				}
			}
			close(sub.ch)
		})
	}
}

// Publish delivers a copy of r to every subscriber of r.ID that has not yet
// been offered r.Version or a later one.
func (h *Hub) Publish(r *Record) {
	if r == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sid, sub := range h.subs[r.ID] {
		if r.Version <= sub.last {
			obslog.L().Debug("hub_skip_stale", zap.String("game_id", r.ID), zap.Int64("version", r.Version), zap.Int64("delivered", sub.last))
			continue
		}
		sub.last = r.Version
		select {
		case sub.ch <- r.clone():
		default:
			obslog.L().Warn("hub_drop_update", zap.String("game_id", r.ID), zap.Int("subscriber", sid))
		}
	}
}

// Subscribers returns the number of live subscriptions for a game.
func (h *Hub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}

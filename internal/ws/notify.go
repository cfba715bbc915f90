package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventRecommendationsStale = "recommendations_stale"

type RecommendationsStaleEvent struct {
	Type      string    `json:"type"`
	Scope     string    `json:"scope"`
	ID        uuid.UUID `json:"id"`
	Timestamp string    `json:"timestamp"`
}

// Notifier publishes recommendation changes to every connected dashboard.
type Notifier struct {
	hub    *Hub
	logger *zap.Logger
	now    func() time.Time
}

func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{hub: hub, logger: logger, now: time.Now}
}

func (n *Notifier) RecommendationsStale(scope string, id uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}

	evt := RecommendationsStaleEvent{
		Type:      EventRecommendationsStale,
		Scope:     scope,
		ID:        id,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.logger.Warn("ws event encode failed", zap.Error(err))
		return
	}

	n.hub.Broadcast(b)
}

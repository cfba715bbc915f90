package usecase

import "github.com/google/uuid"

// Scopes of a recommendations_stale event.
const (
	ScopeEmployee = "employee"
	ScopeRole     = "role"
	ScopeProject  = "project"
)

// RecommendationNotifier is told whenever a scoring input changed so that
// open dashboards can refetch.
type RecommendationNotifier interface {
	RecommendationsStale(scope string, id uuid.UUID)
}

type nopNotifier struct{}

func (nopNotifier) RecommendationsStale(string, uuid.UUID) {}

func notifierOrNop(n RecommendationNotifier) RecommendationNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

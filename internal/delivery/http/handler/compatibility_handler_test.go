package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/domain/matching"
	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/usecase"
)

type stubCompatibility struct {
	roles      []usecase.RoleCompatibility
	candidates []usecase.CandidateRecommendation
	err        error

	gotUser  uuid.UUID
	gotLimit int
	gotMin   int
}

func (s *stubCompatibility) RoleCompatibility(_ context.Context, _, _ uuid.UUID) ([]usecase.RoleCompatibility, error) {
	return s.roles, s.err
}

func (s *stubCompatibility) MyCompatibility(_ context.Context, userID, _ uuid.UUID) ([]usecase.RoleCompatibility, error) {
	s.gotUser = userID
	return s.roles, s.err
}

func (s *stubCompatibility) RecommendCandidates(_ context.Context, _ uuid.UUID, limit, minScore int) ([]usecase.CandidateRecommendation, error) {
	s.gotLimit, s.gotMin = limit, minScore
	return s.candidates, s.err
}

func newCompatibilityApp(uc usecase.CompatibilityUsecase, userID uuid.UUID, role string) *fiber.App {
	app := newTestApp()
	app.Use(func(c fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.CtxUserIDKey, userID)
		}
		c.Locals(middleware.CtxRoleKey, role)
		return c.Next()
	})
	NewCompatibilityHandler(uc).RegisterRoutes(app, middleware.RequireRole("Manager", "TFS"))
	return app
}

func TestCompatibilityHandler_Mine(t *testing.T) {
	userID := uuid.New()
	uc := &stubCompatibility{roles: []usecase.RoleCompatibility{{
		Role:  project.Role{ID: uuid.New(), Name: "Data Engineer"},
		Match: matching.MatchResult{MatchPercentage: 100, MatchedSkills: []matching.Skill{{Name: "SQL", Type: matching.SkillTypeHard, Level: 80}}},
		Tier:  matching.TierHigh,
	}}}
	app := newCompatibilityApp(uc, userID, "Developer")

	status, env := doJSON(t, app, http.MethodGet, "/me/projects/"+uuid.NewString()+"/compatibility", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if uc.gotUser != userID {
		t.Fatalf("expected user from token, got %s", uc.gotUser)
	}

	var items []struct {
		RoleName        string `json:"role_name"`
		MatchPercentage int    `json:"match_percentage"`
		Tier            string `json:"tier"`
	}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].MatchPercentage != 100 || items[0].Tier != "high" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCompatibilityHandler_Errors(t *testing.T) {
	projectID := uuid.NewString()
	role := uuid.NewString()

	tests := []struct {
		name     string
		err      error
		userRole string
		path     string
		want     int
	}{
		{"bad project id", nil, "Developer", "/me/projects/x/compatibility", fiber.StatusBadRequest},
		{"project missing", usecase.ErrProjectNotFound, "Developer", "/me/projects/" + projectID + "/compatibility", fiber.StatusNotFound},
		{"employee missing", usecase.ErrEmployeeNotFound, "Developer", "/me/projects/" + projectID + "/compatibility", fiber.StatusNotFound},
		{"developer cannot list candidates", nil, "Developer", "/roles/" + role + "/candidates", fiber.StatusForbidden},
		{"non numeric limit", nil, "Manager", "/roles/" + role + "/candidates?limit=ten", fiber.StatusBadRequest},
		{"limit out of range", usecase.ErrInvalidInput, "Manager", "/roles/" + role + "/candidates?limit=500", fiber.StatusBadRequest},
		{"role missing", usecase.ErrRoleNotFound, "TFS", "/roles/" + role + "/candidates", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newCompatibilityApp(&stubCompatibility{err: tt.err}, uuid.New(), tt.userRole)
			status, env := doJSON(t, app, http.MethodGet, tt.path, nil)
			if status != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, status, env.Message)
			}
		})
	}
}

func TestCompatibilityHandler_CandidatesQuery(t *testing.T) {
	uc := &stubCompatibility{candidates: []usecase.CandidateRecommendation{
		{Match: matching.CandidateMatch{EmployeeID: uuid.New(), Name: "Bob", MatchPercentage: 80}, Tier: matching.TierHigh},
	}}
	app := newCompatibilityApp(uc, uuid.New(), "Manager")

	status, env := doJSON(t, app, http.MethodGet, "/roles/"+uuid.NewString()+"/candidates?limit=3&min_score=40", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if uc.gotLimit != 3 || uc.gotMin != 40 {
		t.Fatalf("query not forwarded: limit=%d min=%d", uc.gotLimit, uc.gotMin)
	}
}

package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type SkillType string

const (
	SkillTypeHard SkillType = "hard"
	SkillTypeSoft SkillType = "soft"
)

type Skill struct {
	Name  string
	Type  SkillType
	Level int
}

type RoleRequirement struct {
	RoleID      uuid.UUID
	Name        string
	Description string
	Skills      []Skill
}

type CandidateProfile struct {
	EmployeeID uuid.UUID
	Name       string
	Skills     []Skill
}

// MatchResult is one candidate scored against one role. MatchPercentage
// counts distinct role skills the candidate covers. MatchedSkills lists every
// candidate skill that hit a role skill, in candidate order, so it can be
// longer than the covered count when the candidate repeats a name.
type MatchResult struct {
	RoleID          uuid.UUID
	MatchPercentage int
	MatchedSkills   []Skill
}

type CandidateMatch struct {
	EmployeeID      uuid.UUID
	Name            string
	MatchPercentage int
	MatchedSkills   []Skill
}

type MatchTier string

const (
	TierHigh   MatchTier = "high"
	TierMedium MatchTier = "medium"
	TierLow    MatchTier = "low"
)

// ScoreCandidateAgainstRole reports which share of the role's skills the
// candidate declares. Names are compared after lowercasing; type and level are
// not part of the match. A role without skills always scores 0.
func ScoreCandidateAgainstRole(candidate CandidateProfile, role RoleRequirement) MatchResult {
	res := MatchResult{RoleID: role.RoleID, MatchedSkills: make([]Skill, 0)}
	if len(role.Skills) == 0 {
		return res
	}

	have := make(map[string]struct{}, len(candidate.Skills))
	for _, s := range candidate.Skills {
		have[normalizeName(s.Name)] = struct{}{}
	}

	want := make(map[string]struct{}, len(role.Skills))
	matchedReqs := 0
	for _, r := range role.Skills {
		key := normalizeName(r.Name)
		want[key] = struct{}{}
		if _, ok := have[key]; ok {
			matchedReqs++
		}
	}

	for _, s := range candidate.Skills {
		if _, ok := want[normalizeName(s.Name)]; ok {
			res.MatchedSkills = append(res.MatchedSkills, s)
		}
	}

	res.MatchPercentage = percentage(matchedReqs, len(role.Skills))
	return res
}

// RankRoles scores every role and orders the results by descending match.
// Roles with equal scores keep their input order.
func RankRoles(candidate CandidateProfile, roles []RoleRequirement) []MatchResult {
	out := make([]MatchResult, 0, len(roles))
	for _, r := range roles {
		out = append(out, ScoreCandidateAgainstRole(candidate, r))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

func RankCandidates(role RoleRequirement, candidates []CandidateProfile) []CandidateMatch {
	out := make([]CandidateMatch, 0, len(candidates))
	for _, c := range candidates {
		res := ScoreCandidateAgainstRole(c, role)
		out = append(out, CandidateMatch{
			EmployeeID:      c.EmployeeID,
			Name:            c.Name,
			MatchPercentage: res.MatchPercentage,
			MatchedSkills:   res.MatchedSkills,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

func Tier(matchPercentage int) MatchTier {
	switch {
	case matchPercentage >= 70:
		return TierHigh
	case matchPercentage >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}

func percentage(matched, total int) int {
	if total <= 0 {
		return 0
	}
	score := int(math.Round(100 * float64(matched) / float64(total)))
	return clampInt(score, 0, 100)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/repository"
)

const (
	DefaultCatalogLimit = 20
	MaxCatalogLimit     = 100

	catalogCacheTTL = time.Minute
)

type CatalogQuery struct {
	Type   string
	Prefix string
	Limit  int
}

type CatalogItem struct {
	Name      string
	Type      skill.Type
	Employees int
	Roles     int
}

// SearchCache is the JSON cache the catalog reads through. A nil cache turns
// caching off.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type SkillCatalogUsecase interface {
	ListCatalog(ctx context.Context, q CatalogQuery) ([]CatalogItem, error)
}

type SkillCatalog struct {
	repo   repository.SkillCatalogRepository
	cache  SearchCache
	logger *zap.Logger
}

func NewSkillCatalogUsecase(repo repository.SkillCatalogRepository, cache SearchCache, logger *zap.Logger) *SkillCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillCatalog{repo: repo, cache: cache, logger: logger}
}

func (u *SkillCatalog) ListCatalog(ctx context.Context, q CatalogQuery) ([]CatalogItem, error) {
	f := repository.CatalogFilter{Prefix: normalizeSearchValue(q.Prefix), Limit: q.Limit}
	if q.Type != "" {
		typ, ok := skill.ParseType(q.Type)
		if !ok {
			return nil, ErrInvalidSkillType
		}
		f.Type = typ
	}
	switch {
	case f.Limit == 0:
		f.Limit = DefaultCatalogLimit
	case f.Limit < 0 || f.Limit > MaxCatalogLimit:
		return nil, ErrInvalidInput
	}
	if len(f.Prefix) > 100 {
		return nil, ErrInvalidInput
	}

	key := SkillCatalogCacheKey(CatalogQuery{Type: string(f.Type), Prefix: f.Prefix, Limit: f.Limit})
	if u.cache != nil {
		var cached []CatalogItem
		ok, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Warn("skill catalog cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	entries, err := u.repo.ListCatalog(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]CatalogItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, CatalogItem{Name: e.Name, Type: e.Type, Employees: e.Employees, Roles: e.Roles})
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, catalogCacheTTL); err != nil {
			u.logger.Warn("skill catalog cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

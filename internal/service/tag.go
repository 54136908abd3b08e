package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"blogosphere/internal/listing"
	"blogosphere/internal/model"
	"blogosphere/internal/repository"
)

type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) List(ctx context.Context, p listing.Params) (*model.Page[model.Tag], error) {
	return s.tags.List(ctx, p)
}

// normalizeTags lowercases and trims names, dropping blanks and duplicates
// while keeping the first-seen order.
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// resolveTags finds or creates a tag for every name and returns their ids.
// The case-folded name doubles as the slug, so names that only differ in
// punctuation stay separate tags.
func resolveTags(ctx context.Context, tx *sqlx.Tx, tags repository.TagRepository, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(name)
		color, err := randomColor()
		if err != nil {
			return nil, err
		}
		tag, err := tags.FindOrCreate(ctx, tx, name, name, color)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return uniqueIDs(ids), nil
}

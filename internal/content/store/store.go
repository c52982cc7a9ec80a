// Package store persists the portfolio content collections.
//
// Error contract: Get, Update, and Delete return sentinel.ErrNotFound
// (optionally wrapped) when the entity does not exist. The service layer
// translates sentinels into domain errors exactly once.
package store

import (
	"context"

	"github.com/google/uuid"

	"folio/internal/content/models"
)

// ProjectStore persists projects. List returns newest first.
type ProjectStore interface {
	List(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExperienceStore persists experience entries. List returns newest first.
type ExperienceStore interface {
	List(ctx context.Context) ([]*models.Experience, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) error
	Update(ctx context.Context, e *models.Experience) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkillStore persists skills. List returns entries sorted by category, then name.
type SkillStore interface {
	List(ctx context.Context) ([]*models.Skill, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	Create(ctx context.Context, s *models.Skill) error
	Update(ctx context.Context, s *models.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EducationStore persists education entries. List returns newest first.
type EducationStore interface {
	List(ctx context.Context) ([]*models.Education, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Education, error)
	Create(ctx context.Context, e *models.Education) error
	Update(ctx context.Context, e *models.Education) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Stores bundles one implementation of every collection.
type Stores struct {
	Projects   ProjectStore
	Experience ExperienceStore
	Skills     SkillStore
	Education  EducationStore
}

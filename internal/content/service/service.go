// Package service holds the business rules for the portfolio content
// collections: validation, visibility filtering, and error translation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"folio/internal/content/models"
	"folio/internal/content/store"
	"folio/internal/sentinel"
	dErrors "folio/pkg/domain-errors"
)

type Service struct {
	stores *store.Stores
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(stores *store.Stores, opts ...Option) *Service {
	svc := &Service{stores: stores}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// translate maps store sentinels to domain errors exactly once.
func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access "+msg)
}

// PublicProjects returns visible projects, newest first.
func (s *Service) PublicProjects(ctx context.Context) ([]*models.Project, error) {
	all, err := s.stores.Projects.List(ctx)
	if err != nil {
		return nil, translate(err, "projects")
	}
	visible := make([]*models.Project, 0, len(all))
	for _, p := range all {
		if p.Visible {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.stores.Projects.List(ctx)
	if err != nil {
		return nil, translate(err, "projects")
	}
	return projects, nil
}

func (s *Service) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	p.ID = uuid.New()
	if err := s.stores.Projects.Create(ctx, p); err != nil {
		return nil, translate(err, "project")
	}
	s.logger.InfoContext(ctx, "project created", "project_id", p.ID.String(), "title", p.Title)
	return p, nil
}

func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, p *models.Project) (*models.Project, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	p.ID = id
	if err := s.stores.Projects.Update(ctx, p); err != nil {
		return nil, translate(err, "project")
	}
	return p, nil
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Projects.Delete(ctx, id); err != nil {
		return translate(err, "project")
	}
	s.logger.InfoContext(ctx, "project deleted", "project_id", id.String())
	return nil
}

func (s *Service) ListExperience(ctx context.Context) ([]*models.Experience, error) {
	entries, err := s.stores.Experience.List(ctx)
	if err != nil {
		return nil, translate(err, "experience")
	}
	return entries, nil
}

func (s *Service) CreateExperience(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Role) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "company and role are required")
	}
	e.ID = uuid.New()
	if err := s.stores.Experience.Create(ctx, e); err != nil {
		return nil, translate(err, "experience")
	}
	return e, nil
}

func (s *Service) UpdateExperience(ctx context.Context, id uuid.UUID, e *models.Experience) (*models.Experience, error) {
	if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Role) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "company and role are required")
	}
	e.ID = id
	if err := s.stores.Experience.Update(ctx, e); err != nil {
		return nil, translate(err, "experience")
	}
	return e, nil
}

func (s *Service) DeleteExperience(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Experience.Delete(ctx, id); err != nil {
		return translate(err, "experience")
	}
	return nil
}

func (s *Service) ListSkills(ctx context.Context) ([]*models.Skill, error) {
	skills, err := s.stores.Skills.List(ctx)
	if err != nil {
		return nil, translate(err, "skills")
	}
	return skills, nil
}

func (s *Service) CreateSkill(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	if strings.TrimSpace(sk.Name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	sk.ID = uuid.New()
	if err := s.stores.Skills.Create(ctx, sk); err != nil {
		return nil, translate(err, "skill")
	}
	return sk, nil
}

func (s *Service) UpdateSkill(ctx context.Context, id uuid.UUID, sk *models.Skill) (*models.Skill, error) {
	if strings.TrimSpace(sk.Name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	sk.ID = id
	if err := s.stores.Skills.Update(ctx, sk); err != nil {
		return nil, translate(err, "skill")
	}
	return sk, nil
}

func (s *Service) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Skills.Delete(ctx, id); err != nil {
		return translate(err, "skill")
	}
	return nil
}

func (s *Service) ListEducation(ctx context.Context) ([]*models.Education, error) {
	entries, err := s.stores.Education.List(ctx)
	if err != nil {
		return nil, translate(err, "education")
	}
	return entries, nil
}

func (s *Service) CreateEducation(ctx context.Context, e *models.Education) (*models.Education, error) {
	if strings.TrimSpace(e.Degree) == "" || strings.TrimSpace(e.Institution) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "degree and institution are required")
	}
	e.ID = uuid.New()
	if err := s.stores.Education.Create(ctx, e); err != nil {
		return nil, translate(err, "education")
	}
	return e, nil
}

func (s *Service) UpdateEducation(ctx context.Context, id uuid.UUID, e *models.Education) (*models.Education, error) {
	if strings.TrimSpace(e.Degree) == "" || strings.TrimSpace(e.Institution) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "degree and institution are required")
	}
	e.ID = id
	if err := s.stores.Education.Update(ctx, e); err != nil {
		return nil, translate(err, "education")
	}
	return e, nil
}

func (s *Service) DeleteEducation(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Education.Delete(ctx, id); err != nil {
		return translate(err, "education")
	}
	return nil
}

// BulkUpdateProjects applies visibility and feature flags to many stored
// projects at once, keyed by repository URL. Used by the GitHub sync flow.
func (s *Service) BulkUpdateProjects(ctx context.Context, changes map[string]ProjectFlags) (int, error) {
	projects, err := s.stores.Projects.List(ctx)
	if err != nil {
		return 0, translate(err, "projects")
	}
	updated := 0
	for _, p := range projects {
		flags, ok := changes[p.RepoURL]
		if !ok {
			continue
		}
		p.Visible = flags.Visible
		p.Featured = flags.Featured
		if err := s.stores.Projects.Update(ctx, p); err != nil {
			return updated, translate(err, "project")
		}
		updated++
	}
	s.logger.InfoContext(ctx, "projects bulk updated", "count", updated)
	return updated, nil
}

// ProjectFlags is the per-project payload of a bulk update.
type ProjectFlags struct {
	Visible  bool `json:"visible"`
	Featured bool `json:"featured"`
}

package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"folio/internal/content/models"
	"folio/internal/content/store"
	dErrors "folio/pkg/domain-errors"
)

type ContentSuite struct {
	suite.Suite
	service *Service
}

func (s *ContentSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(store.NewMemoryStores(), WithLogger(logger))
}

func TestContentSuite(t *testing.T) {
	suite.Run(t, new(ContentSuite))
}

func (s *ContentSuite) TestPublicProjectsFiltersHidden() {
	ctx := context.Background()
	_, err := s.service.CreateProject(ctx, &models.Project{Title: "shown", Visible: true})
	s.Require().NoError(err)
	_, err = s.service.CreateProject(ctx, &models.Project{Title: "hidden", Visible: false})
	s.Require().NoError(err)

	public, err := s.service.PublicProjects(ctx)
	s.Require().NoError(err)
	s.Require().Len(public, 1)
	s.Equal("shown", public[0].Title)

	all, err := s.service.ListProjects(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ContentSuite) TestCreateProjectValidation() {
	_, err := s.service.CreateProject(context.Background(), &models.Project{Title: "  "})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ContentSuite) TestUpdateUnknownProject() {
	_, err := s.service.UpdateProject(context.Background(), uuid.New(), &models.Project{Title: "x"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ContentSuite) TestProjectLifecycle() {
	ctx := context.Background()
	created, err := s.service.CreateProject(ctx, &models.Project{Title: "folio", Tech: []string{"go"}})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)

	updated, err := s.service.UpdateProject(ctx, created.ID, &models.Project{Title: "folio v2", Visible: true})
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)

	s.Require().NoError(s.service.DeleteProject(ctx, created.ID))
	err = s.service.DeleteProject(ctx, created.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ContentSuite) TestExperienceValidation() {
	_, err := s.service.CreateExperience(context.Background(), &models.Experience{Company: "Acme"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	created, err := s.service.CreateExperience(context.Background(), &models.Experience{
		Company: "Acme", Role: "Engineer", Achievements: []string{"shipped"},
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
}

func (s *ContentSuite) TestSkillAndEducationValidation() {
	_, err := s.service.CreateSkill(context.Background(), &models.Skill{Category: "backend"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.CreateEducation(context.Background(), &models.Education{Degree: "BSc"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ContentSuite) TestBulkUpdateProjects() {
	ctx := context.Background()
	a, err := s.service.CreateProject(ctx, &models.Project{Title: "a", RepoURL: "https://github.com/u/a"})
	s.Require().NoError(err)
	_, err = s.service.CreateProject(ctx, &models.Project{Title: "b", RepoURL: "https://github.com/u/b"})
	s.Require().NoError(err)

	count, err := s.service.BulkUpdateProjects(ctx, map[string]ProjectFlags{
		"https://github.com/u/a": {Visible: true, Featured: true},
		"https://github.com/u/c": {Visible: true},
	})
	s.Require().NoError(err)
	s.Equal(1, count, "only stored repos are touched")

	got, err := s.service.ListProjects(ctx)
	s.Require().NoError(err)
	for _, p := range got {
		if p.ID == a.ID {
			s.True(p.Visible)
			s.True(p.Featured)
		}
	}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/content/models"
	"folio/internal/sentinel"
)

// NewPostgresStores builds the PostgreSQL implementation of every collection.
func NewPostgresStores(db *sql.DB) *Stores {
	return &Stores{
		Projects:   &postgresProjects{db: db},
		Experience: &postgresExperience{db: db},
		Skills:     &postgresSkills{db: db},
		Education:  &postgresEducation{db: db},
	}
}

// String slices are stored as JSONB so the plain database/sql driver can
// round-trip them without array type registration.
func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func unmarshalStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

type postgresProjects struct {
	db *sql.DB
}

func (s *postgresProjects) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, title, description, tech, repo_url, demo_url, visible, featured,
		       stars, forks, language, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (s *postgresProjects) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, title, description, tech, repo_url, demo_url, visible, featured,
		       stars, forks, language, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	p, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *postgresProjects) Create(ctx context.Context, p *models.Project) error {
	tech, err := marshalStrings(p.Tech)
	if err != nil {
		return fmt.Errorf("encode project tech: %w", err)
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	query := `
		INSERT INTO projects (id, title, description, tech, repo_url, demo_url,
		                      visible, featured, stars, forks, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if _, err := s.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, tech, p.RepoURL, p.DemoURL,
		p.Visible, p.Featured, p.Stars, p.Forks, p.Language, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *postgresProjects) Update(ctx context.Context, p *models.Project) error {
	tech, err := marshalStrings(p.Tech)
	if err != nil {
		return fmt.Errorf("encode project tech: %w", err)
	}
	p.UpdatedAt = time.Now()
	query := `
		UPDATE projects
		SET title = $2, description = $3, tech = $4, repo_url = $5, demo_url = $6,
		    visible = $7, featured = $8, stars = $9, forks = $10, language = $11,
		    updated_at = $12
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, tech, p.RepoURL, p.DemoURL,
		p.Visible, p.Featured, p.Stars, p.Forks, p.Language, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(res, "project")
}

func (s *postgresProjects) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(res, "project")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var tech []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &tech, &p.RepoURL, &p.DemoURL,
		&p.Visible, &p.Featured, &p.Stars, &p.Forks, &p.Language, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	values, err := unmarshalStrings(tech)
	if err != nil {
		return nil, fmt.Errorf("decode project tech: %w", err)
	}
	p.Tech = values
	return &p, nil
}

func requireRow(res sql.Result, entity string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", entity, sentinel.ErrNotFound)
	}
	return nil
}

type postgresExperience struct {
	db *sql.DB
}

func (s *postgresExperience) List(ctx context.Context) ([]*models.Experience, error) {
	query := `
		SELECT id, company, role, period, location, type, achievements, created_at, updated_at
		FROM experience
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	var entries []*models.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experience: %w", err)
	}
	return entries, nil
}

func (s *postgresExperience) Get(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	query := `
		SELECT id, company, role, period, location, type, achievements, created_at, updated_at
		FROM experience
		WHERE id = $1
	`
	e, err := scanExperience(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}
	return e, nil
}

func (s *postgresExperience) Create(ctx context.Context, e *models.Experience) error {
	achievements, err := marshalStrings(e.Achievements)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	query := `
		INSERT INTO experience (id, company, role, period, location, type, achievements, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := s.db.ExecContext(ctx, query,
		e.ID, e.Company, e.Role, e.Period, e.Location, e.Type, achievements, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create experience: %w", err)
	}
	return nil
}

func (s *postgresExperience) Update(ctx context.Context, e *models.Experience) error {
	achievements, err := marshalStrings(e.Achievements)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	e.UpdatedAt = time.Now()
	query := `
		UPDATE experience
		SET company = $2, role = $3, period = $4, location = $5, type = $6,
		    achievements = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		e.ID, e.Company, e.Role, e.Period, e.Location, e.Type, achievements, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update experience: %w", err)
	}
	return requireRow(res, "experience")
}

func (s *postgresExperience) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM experience WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return requireRow(res, "experience")
}

func scanExperience(row rowScanner) (*models.Experience, error) {
	var e models.Experience
	var achievements []byte
	if err := row.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.Location, &e.Type,
		&achievements, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	values, err := unmarshalStrings(achievements)
	if err != nil {
		return nil, fmt.Errorf("decode achievements: %w", err)
	}
	e.Achievements = values
	return &e, nil
}

type postgresSkills struct {
	db *sql.DB
}

func (s *postgresSkills) List(ctx context.Context) ([]*models.Skill, error) {
	query := `
		SELECT id, name, category, created_at, updated_at
		FROM skills
		ORDER BY category ASC, name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []*models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, &sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}

func (s *postgresSkills) Get(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var sk models.Skill
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, created_at, updated_at FROM skills WHERE id = $1`, id,
	).Scan(&sk.ID, &sk.Name, &sk.Category, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return &sk, nil
}

func (s *postgresSkills) Create(ctx context.Context, sk *models.Skill) error {
	now := time.Now()
	sk.CreatedAt = now
	sk.UpdatedAt = now
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (id, name, category, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		sk.ID, sk.Name, sk.Category, sk.CreatedAt, sk.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

func (s *postgresSkills) Update(ctx context.Context, sk *models.Skill) error {
	sk.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE skills SET name = $2, category = $3, updated_at = $4 WHERE id = $1`,
		sk.ID, sk.Name, sk.Category, sk.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return requireRow(res, "skill")
}

func (s *postgresSkills) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return requireRow(res, "skill")
}

type postgresEducation struct {
	db *sql.DB
}

func (s *postgresEducation) List(ctx context.Context) ([]*models.Education, error) {
	query := `
		SELECT id, degree, institution, period, gpa, status, specialization, icon, created_at, updated_at
		FROM education
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	var entries []*models.Education
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.ID, &e.Degree, &e.Institution, &e.Period, &e.GPA,
			&e.Status, &e.Specialization, &e.Icon, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate education: %w", err)
	}
	return entries, nil
}

func (s *postgresEducation) Get(ctx context.Context, id uuid.UUID) (*models.Education, error) {
	var e models.Education
	err := s.db.QueryRowContext(ctx,
		`SELECT id, degree, institution, period, gpa, status, specialization, icon, created_at, updated_at
		 FROM education WHERE id = $1`, id,
	).Scan(&e.ID, &e.Degree, &e.Institution, &e.Period, &e.GPA,
		&e.Status, &e.Specialization, &e.Icon, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get education: %w", err)
	}
	return &e, nil
}

func (s *postgresEducation) Create(ctx context.Context, e *models.Education) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	query := `
		INSERT INTO education (id, degree, institution, period, gpa, status, specialization, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := s.db.ExecContext(ctx, query,
		e.ID, e.Degree, e.Institution, e.Period, e.GPA, e.Status, e.Specialization, e.Icon,
		e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create education: %w", err)
	}
	return nil
}

func (s *postgresEducation) Update(ctx context.Context, e *models.Education) error {
	e.UpdatedAt = time.Now()
	query := `
		UPDATE education
		SET degree = $2, institution = $3, period = $4, gpa = $5, status = $6,
		    specialization = $7, icon = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		e.ID, e.Degree, e.Institution, e.Period, e.GPA, e.Status, e.Specialization, e.Icon, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update education: %w", err)
	}
	return requireRow(res, "education")
}

func (s *postgresEducation) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM education WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete education: %w", err)
	}
	return requireRow(res, "education")
}

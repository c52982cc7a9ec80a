// Package models defines the portfolio content collections.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio entry, either hand-written or drafted from a
// GitHub repository. Hidden projects are excluded from the public feed.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tech        []string  `json:"tech"`
	RepoURL     string    `json:"repo_url"`
	DemoURL     string    `json:"demo_url"`
	Visible     bool      `json:"visible"`
	Featured    bool      `json:"featured"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Experience struct {
	ID           uuid.UUID `json:"id"`
	Company      string    `json:"company"`
	Role         string    `json:"role"`
	Period       string    `json:"period"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	Achievements []string  `json:"achievements"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Skill struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Education struct {
	ID             uuid.UUID `json:"id"`
	Degree         string    `json:"degree"`
	Institution    string    `json:"institution"`
	Period         string    `json:"period"`
	GPA            string    `json:"gpa"`
	Status         string    `json:"status"`
	Specialization string    `json:"specialization"`
	Icon           string    `json:"icon"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Package settings manages the singleton site settings document and the
// static asset uploads (CV, avatar, 3D model, profile image).
package settings

import (
	"time"
)

// Personal is the contact card shown on the public site.
type Personal struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Tagline  string `json:"tagline"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// Stats are the headline figures on the about section.
type Stats struct {
	Experience   string `json:"experience"`
	Projects     string `json:"projects"`
	Technologies string `json:"technologies"`
}

type About struct {
	Summary   string   `json:"summary"`
	Stats     Stats    `json:"stats"`
	Strengths []string `json:"strengths"`
}

// Settings is the singleton site configuration document.
type Settings struct {
	Personal  Personal  `json:"personal"`
	About     About     `json:"about"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returns the document served before the admin saves anything,
// so a fresh deployment renders a complete page.
func Defaults() *Settings {
	return &Settings{
		Personal: Personal{
			Name:    "Your Name",
			Title:   "Software Engineer",
			Tagline: "Building reliable backend systems",
		},
		About: About{
			Summary: "Write a short professional summary in the admin dashboard.",
			Stats: Stats{
				Experience:   "0+",
				Projects:     "0+",
				Technologies: "0+",
			},
			Strengths: []string{"Backend Development"},
		},
	}
}

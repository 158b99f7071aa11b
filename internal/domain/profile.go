package domain

import "time"

// Profile is the career profile a user builds in the wizard.
type Profile struct {
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Education   string     `json:"education"`
	Location    string     `json:"location"`
	Skills      []string   `json:"skills"`
	Interests   []string   `json:"interests"`
	Goals       string     `json:"goals"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileUpdate carries the fields a PUT may change. Nil means untouched.
type ProfileUpdate struct {
	Name        *string    `json:"name"`
	Education   *string    `json:"education"`
	Location    *string    `json:"location"`
	Skills      []string   `json:"skills"`
	Interests   []string   `json:"interests"`
	Goals       *string    `json:"goals"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Apply merges u into p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Education != nil {
		p.Education = *u.Education
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Skills != nil {
		p.Skills = u.Skills
	}
	if u.Interests != nil {
		p.Interests = u.Interests
	}
	if u.Goals != nil {
		p.Goals = *u.Goals
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		p.CompletedAt = &t
	}
}

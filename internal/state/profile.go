package state

import (
	"slices"
	"strings"
	"time"
)

// ProfileFields is the record the career wizard fills in step by step.
type ProfileFields struct {
	Name      string   `json:"name"`
	Education string   `json:"education"`
	Location  string   `json:"location,omitempty"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Goals     string   `json:"goals"`
}

func (f ProfileFields) clone() ProfileFields {
	f.Skills = slices.Clone(f.Skills)
	f.Interests = slices.Clone(f.Interests)
	return f
}

// Missing lists the required fields that are still empty, in wizard order.
// Location is optional.
func (f ProfileFields) Missing() []string {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Education) == "" {
		missing = append(missing, "education")
	}
	if len(f.Skills) == 0 {
		missing = append(missing, "skills")
	}
	if len(f.Interests) == 0 {
		missing = append(missing, "interests")
	}
	if strings.TrimSpace(f.Goals) == "" {
		missing = append(missing, "goals")
	}
	return missing
}

// Complete reports whether every required field is populated.
func (f ProfileFields) Complete() bool {
	return len(f.Missing()) == 0
}

// SubmittedProfile is the frozen result of a completed wizard.
type SubmittedProfile struct {
	Fields      ProfileFields `json:"fields"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Profile is the wizard slice: a draft that becomes Submitted once complete.
type Profile struct {
	Draft     ProfileFields     `json:"draft"`
	Submitted *SubmittedProfile `json:"submitted,omitempty"`
}

// NewProfile returns an empty wizard.
func NewProfile() Profile {
	return Profile{Draft: ProfileFields{Skills: []string{}, Interests: []string{}}}
}

// IsSubmitted reports whether the wizard has been frozen.
func (p Profile) IsSubmitted() bool {
	return p.Submitted != nil
}

// ProfilePatch carries the fields a wizard step sets. Nil means untouched.
type ProfilePatch struct {
	Name      *string  `json:"name,omitempty"`
	Education *string  `json:"education,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Goals     *string  `json:"goals,omitempty"`
}

// Apply returns a copy of f with the patch merged in.
func (p ProfilePatch) Apply(f ProfileFields) ProfileFields {
	f = f.clone()
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Education != nil {
		f.Education = *p.Education
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Skills != nil {
		f.Skills = slices.Clone(p.Skills)
	}
	if p.Interests != nil {
		f.Interests = slices.Clone(p.Interests)
	}
	if p.Goals != nil {
		f.Goals = *p.Goals
	}
	return f
}

package domain

// Career is a catalog entry describing a career path.
type Career struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Skills      []string `json:"skills" yaml:"skills"`
	Interests   []string `json:"interests" yaml:"interests"`
	Education   string   `json:"education" yaml:"education"`
	SalaryRange string   `json:"salary_range" yaml:"salary_range"`
	Growth      string   `json:"growth" yaml:"growth"`
}

// Scholarship is a funding opportunity.
type Scholarship struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Provider    string `json:"provider" yaml:"provider"`
	Amount      string `json:"amount" yaml:"amount"`
	Deadline    string `json:"deadline" yaml:"deadline"`
	Eligibility string `json:"eligibility" yaml:"eligibility"`
	Link        string `json:"link,omitempty" yaml:"link"`
}

// College is an institution offering programs.
type College struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Location string   `json:"location" yaml:"location"`
	Programs []string `json:"programs" yaml:"programs"`
	Ranking  int      `json:"ranking,omitempty" yaml:"ranking"`
	Website  string   `json:"website,omitempty" yaml:"website"`
}

// CareerFilter narrows career listings. Each term must match.
type CareerFilter struct {
	Skills    []string
	Interests []string
}

// CollegeFilter narrows college listings.
type CollegeFilter struct {
	Location string
	Programs []string
}

// Catalog is the full static catalog, as seeded.
type Catalog struct {
	Careers      []Career      `json:"careers" yaml:"careers"`
	Scholarships []Scholarship `json:"scholarships" yaml:"scholarships"`
	Colleges     []College     `json:"colleges" yaml:"colleges"`
}

package models

// DefaultMaxSalary is the upper bound used when no salary ceiling is chosen.
const DefaultMaxSalary = 999999999

// FilterCriteria is the set of user-chosen filter values. Empty fields are
// inactive; a zero MaxSalary means no ceiling.
type FilterCriteria struct {
	Role         string          `json:"role"`
	WorkLocation string          `json:"workLocation"`
	Experience   string          `json:"experience"`
	Period       string          `json:"period"`
	MinSalary    float64         `json:"minSalary"`
	MaxSalary    float64         `json:"maxSalary"`
	Keyword      string          `json:"keyword"`
	Toggles      map[string]bool `json:"toggles,omitempty"`
}

// DefaultFilterCriteria matches every listing with a salary in [0, DefaultMaxSalary].
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{MaxSalary: DefaultMaxSalary}
}

var (
	WorkLocationOptions = []string{"Remote", "Onsite", "Hybrid"}
	ExperienceOptions   = []string{"Junior", "Middle", "Senior"}
	PeriodOptions       = []string{"Full time", "Part time", "Project work", "Internship", "Volunteering"}
	WorkingSchedules    = []string{"Full time", "Part time", "Internship", "Project work", "Volunteering"}
	EmploymentTypes     = []string{"Full day", "Flexible schedule", "Shift work", "Distant work", "Shift method"}
)

package models

import (
	"strings"
	"time"
)

// PostedAtLayout is the calendar-date layout used for JobListing.PostedAt.
const PostedAtLayout = "2006-01-02"

const (
	SalaryUnitHour  = "hour"
	SalaryUnitMonth = "month"
	SalaryUnitYear  = "year"
)

// NormalizeSalaryUnit maps the accepted spellings onto hour, month or year.
// Empty and unknown values fall back to hour.
func NormalizeSalaryUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "month", "mo", "monthly":
		return SalaryUnitMonth
	case "year", "yr", "yearly", "annual":
		return SalaryUnitYear
	default:
		return SalaryUnitHour
	}
}

var Brands = []string{"amazon", "google", "twitter", "airbnb", "dribbble", "apple"}

// BrandIcon is the single-letter fallback badge shown when a listing has no logo.
var BrandIcon = map[string]string{
	"amazon":   "a",
	"google":   "G",
	"twitter":  "T",
	"airbnb":   "A",
	"dribbble": "D",
	"apple":    "",
}

// JobListing is the application shape of one job posting.
type JobListing struct {
	ID             string   `json:"id" yaml:"id"`
	Company        string   `json:"company" yaml:"company"`
	CompanyLogo    string   `json:"companyLogo,omitempty" yaml:"companyLogo"`
	Role           string   `json:"role" yaml:"role"`
	Tags           []string `json:"tags" yaml:"tags"`
	Salary         float64  `json:"salary" yaml:"salary"`
	SalaryUnit     string   `json:"salaryUnit" yaml:"salaryUnit"`
	PostedAt       string   `json:"postedAt" yaml:"postedAt"`
	Location       string   `json:"location" yaml:"location"`
	EmploymentType []string `json:"employmentType" yaml:"employmentType"`
	Details        string   `json:"details" yaml:"details"`
	Brand          string   `json:"brand" yaml:"brand"`
	Color          string   `json:"color" yaml:"color"`
	Website        string   `json:"website,omitempty" yaml:"website"`
}

// PostedDate parses PostedAt. Unparseable dates yield the zero time.
func (j JobListing) PostedDate() time.Time {
	t, err := time.Parse(PostedAtLayout, strings.TrimSpace(j.PostedAt))
	if err != nil {
		return time.Time{}
	}
	return t
}

// JobPostingForm is the payload of the "create job posting" form.
type JobPostingForm struct {
	Company        string `json:"company" validate:"required"`
	Role           string `json:"role" validate:"required"`
	Salary         string `json:"salary" validate:"required"`
	SalaryUnit     string `json:"salaryUnit"`
	Location       string `json:"location"`
	Tags           string `json:"tags"`
	Details        string `json:"details"`
	WorkLocation   string `json:"workLocation"`
	Experience     string `json:"experience"`
	Period         string `json:"period"`
	Internship     string `json:"internship"`
	EmploymentType string `json:"employmentType"`
	Website        string `json:"website" validate:"omitempty,max=2048"`
	CompanyLogo    string `json:"companyLogo"`
}

// JobListingPatch carries the fields of an owner-scoped update. Nil fields are left untouched.
type JobListingPatch struct {
	Company        *string   `json:"company,omitempty"`
	CompanyLogo    *string   `json:"companyLogo,omitempty"`
	Role           *string   `json:"role,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Salary         *float64  `json:"salary,omitempty" validate:"omitempty,gt=0"`
	SalaryUnit     *string   `json:"salaryUnit,omitempty"`
	Location       *string   `json:"location,omitempty"`
	EmploymentType *[]string `json:"employmentType,omitempty"`
	Details        *string   `json:"details,omitempty"`
	Website        *string   `json:"website,omitempty"`
}

// Apply returns a copy of job with the non-nil patch fields applied.
func (p JobListingPatch) Apply(job JobListing) JobListing {
	if p.Company != nil {
		job.Company = *p.Company
	}
	if p.CompanyLogo != nil {
		job.CompanyLogo = *p.CompanyLogo
	}
	if p.Role != nil {
		job.Role = *p.Role
	}
	if p.Tags != nil {
		job.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Salary != nil {
		job.Salary = *p.Salary
	}
	if p.SalaryUnit != nil {
		job.SalaryUnit = NormalizeSalaryUnit(*p.SalaryUnit)
	}
	if p.Location != nil {
		job.Location = *p.Location
	}
	if p.EmploymentType != nil {
		job.EmploymentType = append([]string(nil), (*p.EmploymentType)...)
	}
	if p.Details != nil {
		job.Details = *p.Details
	}
	if p.Website != nil {
		job.Website = *p.Website
	}
	return job
}

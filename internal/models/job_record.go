package models

import "time"

// JobRecord is the storage shape of a listing, one row of the jobs table.
type JobRecord struct {
	ID             string     `json:"id"`
	UserID         int        `json:"user_id"`
	Company        string     `json:"company"`
	CompanyLogo    *string    `json:"company_logo,omitempty"`
	Role           string     `json:"role"`
	Tags           []string   `json:"tags"`
	Salary         float64    `json:"salary"`
	SalaryUnit     string     `json:"salary_unit"`
	PostedAt       string     `json:"posted_at"`
	Location       string     `json:"location"`
	EmploymentType []string   `json:"employment_type"`
	Details        *string    `json:"details,omitempty"`
	Brand          string     `json:"brand"`
	Color          string     `json:"color"`
	Website        *string    `json:"website,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ToListing converts a stored record into the application shape.
func (r JobRecord) ToListing() JobListing {
	return JobListing{
		ID:             r.ID,
		Company:        r.Company,
		CompanyLogo:    deref(r.CompanyLogo),
		Role:           r.Role,
		Tags:           nonNil(r.Tags),
		Salary:         r.Salary,
		SalaryUnit:     r.SalaryUnit,
		PostedAt:       r.PostedAt,
		Location:       r.Location,
		EmploymentType: nonNil(r.EmploymentType),
		Details:        deref(r.Details),
		Brand:          r.Brand,
		Color:          r.Color,
		Website:        deref(r.Website),
	}
}

// NewJobRecord converts an application listing into its storage shape owned by userID.
// Timestamps are left for the store to assign.
func NewJobRecord(job JobListing, userID int) JobRecord {
	return JobRecord{
		ID:             job.ID,
		UserID:         userID,
		Company:        job.Company,
		CompanyLogo:    optional(job.CompanyLogo),
		Role:           job.Role,
		Tags:           nonNil(job.Tags),
		Salary:         job.Salary,
		SalaryUnit:     job.SalaryUnit,
		PostedAt:       job.PostedAt,
		Location:       job.Location,
		EmploymentType: nonNil(job.EmploymentType),
		Details:        optional(job.Details),
		Brand:          job.Brand,
		Color:          job.Color,
		Website:        optional(job.Website),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

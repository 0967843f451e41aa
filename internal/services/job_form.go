package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

const (
	defaultLocation = "India"
	defaultBrand    = "apple"
	defaultColor    = "bg-blue-50"
)

var validate = validator.New()

// Validate runs struct validation and reports the first failing field as a *models.ValidationError.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &models.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), describeTag(fe)),
		}
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "not a valid email"
	case "min":
		return "shorter than " + fe.Param()
	case "max":
		return "longer than " + fe.Param()
	default:
		return "invalid"
	}
}

// BuildListing turns the posting form into a new listing with a provisional id.
// Company, role and a positive salary are required; nothing is sent to the store otherwise.
func BuildListing(form models.JobPostingForm, now time.Time) (models.JobListing, error) {
	form.Company = strings.TrimSpace(form.Company)
	form.Role = strings.TrimSpace(form.Role)
	form.Salary = strings.TrimSpace(form.Salary)

	if err := Validate(form); err != nil {
		return models.JobListing{}, err
	}

	salary, err := strconv.ParseFloat(form.Salary, 64)
	if err != nil || salary <= 0 {
		return models.JobListing{}, &models.ValidationError{Field: "Salary", Message: "salary must be a positive number"}
	}

	tags := compact(form.WorkLocation, form.Experience, form.Period, form.Internship)
	for _, t := range strings.Split(form.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	location := strings.TrimSpace(form.Location)
	if location == "" {
		location = defaultLocation
	}

	return models.JobListing{
		ID:             utils.NewProvisionalID(now),
		Company:        form.Company,
		CompanyLogo:    strings.TrimSpace(form.CompanyLogo),
		Role:           form.Role,
		Tags:           tags,
		Salary:         salary,
		SalaryUnit:     models.NormalizeSalaryUnit(form.SalaryUnit),
		PostedAt:       now.Format(models.PostedAtLayout),
		Location:       location,
		EmploymentType: compact(form.EmploymentType, form.Internship, form.Period, form.WorkLocation, form.Experience),
		Details:        strings.TrimSpace(form.Details),
		Brand:          defaultBrand,
		Color:          defaultColor,
		Website:        strings.TrimSpace(form.Website),
	}, nil
}

func compact(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

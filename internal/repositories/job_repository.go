package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

type JobRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

const jobColumns = `id, user_id, company, company_logo, role, tags, salary, salary_unit, posted_at,
        location, employment_type, details, brand, color, website, created_at, updated_at`

// FetchAll returns every job, newest created_at first.
func (r *JobRepository) FetchAll(ctx context.Context) ([]models.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`
	return r.query(ctx, query)
}

// FetchByOwner returns the jobs posted by userID, newest first.
func (r *JobRepository) FetchByOwner(ctx context.Context, userID int) ([]models.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = ? ORDER BY created_at DESC`
	return r.query(ctx, query, userID)
}

// GetOwned loads one job if it belongs to userID.
func (r *JobRepository) GetOwned(ctx context.Context, id string, userID int) (models.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ? AND user_id = ?`
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), id, userID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobRecord{}, models.ErrJobNotFound
	}
	return job, err
}

// Create inserts job under a freshly assigned canonical id and returns the stored row.
func (r *JobRepository) Create(ctx context.Context, job models.JobRecord) (models.JobRecord, error) {
	tags, err := json.Marshal(job.Tags)
	if err != nil {
		return models.JobRecord{}, err
	}
	employment, err := json.Marshal(job.EmploymentType)
	if err != nil {
		return models.JobRecord{}, err
	}

	job.ID = utils.NewCanonicalID()
	job.CreatedAt = time.Now().UTC()
	job.UpdatedAt = nil

	query := `
        INSERT INTO jobs (id, user_id, company, company_logo, role, tags, salary, salary_unit, posted_at,
            location, employment_type, details, brand, color, website, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		job.ID, job.UserID, job.Company, job.CompanyLogo, job.Role, string(tags), job.Salary, job.SalaryUnit,
		job.PostedAt, job.Location, string(employment), job.Details, job.Brand, job.Color, job.Website, job.CreatedAt,
	)
	if err != nil {
		return models.JobRecord{}, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// Update overwrites the mutable columns of a job owned by job.UserID.
func (r *JobRepository) Update(ctx context.Context, job models.JobRecord) (models.JobRecord, error) {
	tags, err := json.Marshal(job.Tags)
	if err != nil {
		return models.JobRecord{}, err
	}
	employment, err := json.Marshal(job.EmploymentType)
	if err != nil {
		return models.JobRecord{}, err
	}

	updatedAt := time.Now().UTC()
	job.UpdatedAt = &updatedAt

	query := `
        UPDATE jobs
        SET company = ?, company_logo = ?, role = ?, tags = ?, salary = ?, salary_unit = ?,
            location = ?, employment_type = ?, details = ?, website = ?, updated_at = ?
        WHERE id = ? AND user_id = ?
    `
	result, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		job.Company, job.CompanyLogo, job.Role, string(tags), job.Salary, job.SalaryUnit,
		job.Location, string(employment), job.Details, job.Website, job.UpdatedAt,
		job.ID, job.UserID,
	)
	if err != nil {
		return models.JobRecord{}, fmt.Errorf("update job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.JobRecord{}, err
	}
	if rows == 0 {
		return models.JobRecord{}, models.ErrJobNotFound
	}
	return job, nil
}

// Delete removes a job owned by userID. It reports false when nothing matched.
func (r *JobRepository) Delete(ctx context.Context, id string, userID int) (bool, error) {
	query := `DELETE FROM jobs WHERE id = ? AND user_id = ?`
	result, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *JobRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.JobRecord, error) {
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.JobRecord{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(s rowScanner) (models.JobRecord, error) {
	var (
		job        models.JobRecord
		tags       []byte
		employment []byte
	)
	err := s.Scan(
		&job.ID, &job.UserID, &job.Company, &job.CompanyLogo, &job.Role, &tags, &job.Salary, &job.SalaryUnit,
		&job.PostedAt, &job.Location, &employment, &job.Details, &job.Brand, &job.Color, &job.Website,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return models.JobRecord{}, err
	}
	if job.Tags, err = decodeList(tags); err != nil {
		return models.JobRecord{}, fmt.Errorf("job %s tags: %w", job.ID, err)
	}
	if job.EmploymentType, err = decodeList(employment); err != nil {
		return models.JobRecord{}, fmt.Errorf("job %s employment_type: %w", job.ID, err)
	}
	return job, nil
}

func decodeList(raw []byte) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/board"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

type JobUpdater interface {
	Update(ctx context.Context, id string, patch models.JobListingPatch, userID int) *models.JobListing
}

type JobHandler struct {
	Board   *board.Board
	Updater JobUpdater
}

type browseResponse struct {
	Loading bool                `json:"loading"`
	Jobs    []models.JobListing `json:"jobs"`
}

// Browse serves GET /jobs.
func (h *JobHandler) Browse(w http.ResponseWriter, r *http.Request) {
	criteria, descending, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, browseResponse{
		Loading: h.Board.Loading(),
		Jobs:    h.Board.Browse(criteria, descending),
	})
}

// Mine serves GET /jobs/mine.
func (h *JobHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	session := h.Board.OpenSession(r.Context(), id.UserID)
	defer session.Close()

	writeJSON(w, http.StatusOK, session.Mine())
}

// Create serves POST /jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var form models.JobPostingForm
	if !decodeJSON(w, r, &form) {
		return
	}

	listing, err := services.BuildListing(form, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	session := h.Board.Attach(id.UserID)
	defer session.Close()

	created := session.Post(r.Context(), listing)
	if created == nil {
		http.Error(w, "Could not save job posting", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update serves PUT /jobs/:id.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	jobID := getParam(r, "id")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}
	var patch models.JobListingPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := services.Validate(patch); err != nil {
		writeError(w, err)
		return
	}

	updated := h.Updater.Update(r.Context(), jobID, patch, id.UserID)
	if updated == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	h.Board.RefreshAsync()
	writeJSON(w, http.StatusOK, updated)
}

// Delete serves DELETE /jobs/:id.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	jobID := getParam(r, "id")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}

	session := h.Board.Attach(id.UserID)
	defer session.Close()

	if !session.Remove(r.Context(), jobID) {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Options serves GET /jobs/options: the values the filter panel offers.
func (h *JobHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"work_location":     models.WorkLocationOptions,
		"experience":        models.ExperienceOptions,
		"period":            models.PeriodOptions,
		"working_schedules": models.WorkingSchedules,
		"employment_types":  models.EmploymentTypes,
		"brands":            models.Brands,
	})
}

type badQuery string

func (e badQuery) Error() string { return string(e) }

func parseCriteria(r *http.Request) (models.FilterCriteria, bool, error) {
	q := r.URL.Query()
	c := models.DefaultFilterCriteria()
	c.Role = strings.TrimSpace(q.Get("role"))
	c.WorkLocation = strings.TrimSpace(q.Get("work_location"))
	c.Experience = strings.TrimSpace(q.Get("experience"))
	c.Period = strings.TrimSpace(q.Get("period"))
	c.Keyword = strings.TrimSpace(q.Get("keyword"))

	if v := q.Get("min_salary"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, false, badQuery("Invalid min_salary")
		}
		c.MinSalary = f
	}
	if v := q.Get("max_salary"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, false, badQuery("Invalid max_salary")
		}
		c.MaxSalary = f
	}

	for _, t := range q["toggle"] {
		if t = strings.TrimSpace(t); t != "" {
			if c.Toggles == nil {
				c.Toggles = make(map[string]bool)
			}
			c.Toggles[t] = true
		}
	}

	descending := true
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		descending = false
	default:
		return c, false, badQuery("Invalid order")
	}
	return c, descending, nil
}

package main

import (
	"net/http"

	"github.com/go-errors/errors"
)

// serverError logs err with its stack trace and answers 500.
func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := errors.Wrap(err, 1).ErrorStack()
	app.logger.Errorf("%s", trace)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := `{"status":"ok"}`
	if err := app.db.PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body = `{"status":"degraded"}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

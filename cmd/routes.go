package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"github.com/krishyadav90/ProJobHub-IND/internal/metrics"
)

func (app *application) routes() (http.Handler, error) {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.requireAuth)

	limit, err := app.authLimiter()
	if err != nil {
		return nil, err
	}
	limited := standardMiddleware.Append(limit)

	mux := pat.New()

	route := func(name string, h http.Handler) http.Handler { return metrics.Instrument(name, h) }

	// Users
	mux.Post("/user/sign_up", route("user.sign_up", limited.ThenFunc(app.userHandler.SignUp)))
	mux.Post("/user/sign_in", route("user.sign_in", limited.ThenFunc(app.userHandler.SignIn)))
	mux.Post("/user/refresh", route("user.refresh", limited.ThenFunc(app.userHandler.Refresh)))
	mux.Post("/user/request_reset", route("user.request_reset", limited.ThenFunc(app.userHandler.RequestReset)))
	mux.Post("/user/reset_password", route("user.reset_password", limited.ThenFunc(app.userHandler.ResetPassword)))
	mux.Post("/user/logout", route("user.logout", authMiddleware.ThenFunc(app.userHandler.Logout)))

	// Jobs
	mux.Get("/jobs/options", route("jobs.options", standardMiddleware.ThenFunc(app.jobHandler.Options)))
	mux.Get("/jobs/mine", route("jobs.mine", authMiddleware.ThenFunc(app.jobHandler.Mine)))
	mux.Get("/jobs", route("jobs.browse", standardMiddleware.ThenFunc(app.jobHandler.Browse)))
	mux.Post("/jobs", route("jobs.create", authMiddleware.ThenFunc(app.jobHandler.Create)))
	mux.Put("/jobs/:id", route("jobs.update", authMiddleware.ThenFunc(app.jobHandler.Update)))
	mux.Del("/jobs/:id", route("jobs.delete", authMiddleware.ThenFunc(app.jobHandler.Delete)))

	// Profile
	mux.Get("/profile", route("profile.get", authMiddleware.ThenFunc(app.profileHandler.Get)))
	mux.Put("/profile", route("profile.update", authMiddleware.ThenFunc(app.profileHandler.Update)))

	// Chat
	mux.Get("/api/messages", route("chat.history", authMiddleware.ThenFunc(app.messageHandler.List)))
	mux.Post("/api/messages", route("chat.send", authMiddleware.ThenFunc(app.messageHandler.Send)))
	mux.Get("/api/presence", route("chat.presence", authMiddleware.ThenFunc(app.messageHandler.Online)))
	mux.Get("/ws", route("chat.ws", alice.New(app.recoverPanic, app.logRequest).ThenFunc(app.chatWebSocket)))

	// Notifications
	mux.Post("/notifications/token", route("notifications.token", authMiddleware.ThenFunc(app.notificationHandler.RegisterToken)))

	mux.Get("/metrics", metrics.Handler())
	mux.Get("/healthz", http.HandlerFunc(app.healthz))

	return mux, nil
}

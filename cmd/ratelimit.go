package main

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// authLimiter throttles the credential endpoints per client IP. Counters live
// in Redis when it is configured so every instance shares them.
func (app *application) authLimiter() (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(app.cfg.Server.AuthRateLimit)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if app.redis != nil {
		store, err = sredis.NewStoreWithOptions(app.redis, limiter.StoreOptions{Prefix: "limiter:auth"})
		if err != nil {
			app.logger.Errorf("rate limit redis store, falling back to memory: %v", err)
			store = memory.NewStore()
		}
	} else {
		store = memory.NewStore()
	}

	mw := stdlib.NewMiddleware(limiter.New(store, rate))
	return mw.Handler, nil
}

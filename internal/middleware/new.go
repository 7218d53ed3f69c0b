package middleware

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"study-scheduler/config"
	"study-scheduler/pkg/log"
)

// limiterCacheSize bounds how many distinct clients keep a live limiter.
const limiterCacheSize = 4096

type Middleware struct {
	l           log.Logger
	internalKey string
	perMin      int
	limiters    *lru.Cache[string, *rate.Limiter]
}

func New(l log.Logger, cfg config.HTTPServerConfig) Middleware {
	limiters, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	return Middleware{
		l:           l,
		internalKey: cfg.InternalKey,
		perMin:      cfg.RateLimitPerMin,
		limiters:    limiters,
	}
}

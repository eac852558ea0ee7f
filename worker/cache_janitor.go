package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"leadhub/services"
)

// CacheJanitor periodically sweeps expired entries out of the service
// caches. Lazy expiry-on-read keeps the caches correct without it; the
// sweep only bounds memory held by keys nobody reads again.
type CacheJanitor struct {
	caches   []*services.CacheManager
	interval time.Duration
	log      *logrus.Entry
}

func NewCacheJanitor(caches []*services.CacheManager, interval time.Duration, log *logrus.Entry) *CacheJanitor {
	return &CacheJanitor{
		caches:   caches,
		interval: interval,
		log:      log,
	}
}

func (j *CacheJanitor) Start(ctx context.Context) {
	j.log.Info("starting cache janitor")
	ticker := time.NewTicker(j.interval)

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-ctx.Done():
			j.log.Info("stopping cache janitor")
			ticker.Stop()
			return
		}
	}
}

func (j *CacheJanitor) sweep() {
	removed := 0
	for _, cache := range j.caches {
		removed += cache.SweepExpired()
	}
	if removed > 0 {
		j.log.WithField("removed", removed).Debug("swept expired cache entries")
	}
}

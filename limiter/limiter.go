package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Wait(context.Context) error
	Limit() rate.Limit
}

// Config 令牌桶配置，对应配置文件中的 [[politeness.limits]]
type Config struct {
	EventCount int
	EventDur   int // 秒
	Bucket     int // 桶大小
}

func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}

// FromConfig 把配置转换为令牌桶，非法配置跳过
func FromConfig(cfgs []Config) []RateLimiter {
	var limits []RateLimiter
	for _, c := range cfgs {
		if c.EventCount <= 0 || c.EventDur <= 0 {
			continue
		}

		bucket := c.Bucket
		if bucket <= 0 {
			bucket = 1
		}

		limits = append(limits, rate.NewLimiter(Per(c.EventCount, time.Duration(c.EventDur)*time.Second), bucket))
	}

	return limits
}

func Multi(limiters ...RateLimiter) *MultiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	sort.Slice(limiters, byLimit)

	return &MultiLimiter{limiters: limiters}
}

type MultiLimiter struct {
	limiters []RateLimiter
}

func (l *MultiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (l *MultiLimiter) Limit() rate.Limit {
	if len(l.limiters) == 0 {
		return rate.Inf
	}

	return l.limiters[0].Limit()
}

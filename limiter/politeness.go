package limiter

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Politeness 每次导航之后的随机休眠，时长在 [Min, Max] 之间均匀分布。
// 它实现 RateLimiter，可以和令牌桶一起放进 Multi。
type Politeness struct {
	Min time.Duration
	Max time.Duration

	random func() float64
}

func NewPoliteness(min, max time.Duration) *Politeness {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}

	return &Politeness{Min: min, Max: max, random: rand.Float64}
}

// Next 本次应休眠的时长
func (p *Politeness) Next() time.Duration {
	span := p.Max - p.Min
	if span <= 0 {
		return p.Min
	}

	random := p.random
	if random == nil {
		random = rand.Float64
	}

	return p.Min + time.Duration(random()*float64(span))
}

func (p *Politeness) Wait(ctx context.Context) error {
	d := p.Next()
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Limit 按平均休眠时长折算的速率
func (p *Politeness) Limit() rate.Limit {
	mean := (p.Min + p.Max) / 2
	if mean <= 0 {
		return rate.Inf
	}

	return rate.Every(mean)
}

package redis

import (
	"context"
	"strconv"
	"time"
)

const (
	visitorCountKey = "visitor_count"
	visitorIPPrefix = "visitor_ips:"
)

// VisitorCounter maintains the site-wide visitor count, de-duplicating by
// client IP inside a sliding window so refreshes don't inflate the number.
type VisitorCounter struct {
	client RedisClient
	window time.Duration
}

func NewVisitorCounter(client RedisClient, window time.Duration) *VisitorCounter {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &VisitorCounter{client: client, window: window}
}

// Count returns the current total without incrementing.
func (v *VisitorCounter) Count(ctx context.Context) (int64, error) {
	raw, err := v.client.Get(ctx, visitorCountKey)
	if err != nil {
		if IsNil(err) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Visit counts ip as a new visitor unless it was seen inside the window.
// The IP marker expires on its own; only the total is kept forever.
func (v *VisitorCounter) Visit(ctx context.Context, ip string) (count int64, newVisitor bool, err error) {
	ipKey := visitorIPPrefix + ip
	fresh, err := v.client.SetNX(ctx, ipKey, time.Now().UnixMilli(), v.window)
	if err != nil {
		return 0, false, err
	}
	if !fresh {
		count, err = v.Count(ctx)
		return count, false, err
	}
	count, err = v.client.Incr(ctx, visitorCountKey)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Cache holds the redis-backed pieces of the code lifecycle: the resend
// throttle and the post-verify markers that gate signup completion and
// password reset.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("otp.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func throttleKey(email string, purpose entity.Purpose) string {
	return fmt.Sprintf("otp:throttle:%s:%s", purpose.String(), email)
}

func verifiedKey(email string, purpose entity.Purpose) string {
	return fmt.Sprintf("otp:verified:%s:%s", purpose.String(), email)
}

// AcquireThrottle reserves the resend slot with SET NX. A held slot returns
// false and the remaining reservation time.
func (c *Cache) AcquireThrottle(ctx context.Context, email string, purpose entity.Purpose, ttl time.Duration) (_ bool, _ time.Duration, err error) {
	ctx, span := c.startSpan(ctx, "AcquireThrottle")
	defer func() { c.endSpan(span, err) }()

	key := throttleKey(email, purpose)

	acquired, err := c.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, 0, err
	}
	if acquired {
		return true, 0, nil
	}

	remaining, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if remaining < 0 {
		remaining = 0
	}

	return false, remaining, nil
}

func (c *Cache) ReleaseThrottle(ctx context.Context, email string, purpose entity.Purpose) (err error) {
	ctx, span := c.startSpan(ctx, "ReleaseThrottle")
	defer func() { c.endSpan(span, err) }()

	err = c.client.Del(ctx, throttleKey(email, purpose)).Err()
	return err
}

func (c *Cache) PutVerified(ctx context.Context, email string, purpose entity.Purpose, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "PutVerified")
	defer func() { c.endSpan(span, err) }()

	err = c.client.Set(ctx, verifiedKey(email, purpose), "1", ttl).Err()
	return err
}

// TakeVerified redeems the marker with GETDEL so it can be spent only once.
func (c *Cache) TakeVerified(ctx context.Context, email string, purpose entity.Purpose) (_ bool, err error) {
	ctx, span := c.startSpan(ctx, "TakeVerified")
	defer func() { c.endSpan(span, err) }()

	_, err = c.client.GetDel(ctx, verifiedKey(email, purpose)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

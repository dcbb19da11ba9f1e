package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/utils/cache"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// OTPResendInterval is the minimum gap between OTP resends per email.
const OTPResendInterval = 60 * time.Second

// BruteForceProtection handles brute force protection using Redis.
// A nil receiver or nil RedisCache disables protection instead of
// blocking logins.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

// CheckAndRecordAttempt middleware rejects requests from locked-out IPs
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.redisCache == nil {
			return c.Next()
		}

		ip := c.IP()
		lockKey := fmt.Sprintf("brute_force:lock:%s", ip)

		locked, err := b.redisCache.Exists(c.Context(), lockKey)
		if err != nil {
			// Don't block legitimate users when Redis is down
			return c.Next()
		}

		if locked {
			ttl, _ := b.redisCache.TTL(c.Context(), lockKey)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, ip string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}

	ctx := c.Context()
	attemptKey := fmt.Sprintf("brute_force:attempts:%s", ip)
	lockKey := fmt.Sprintf("brute_force:lock:%s", ip)

	attempts, err := b.redisCache.Increment(ctx, attemptKey)
	if err != nil {
		return nil
	}

	// 15 minute counting window
	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKey, 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 25:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = 1 * time.Hour
	case attempts >= 5:
		lockDuration = 2 * time.Minute
	default:
		return nil
	}

	return b.redisCache.Set(ctx, lockKey, "locked", lockDuration)
}

// RecordSuccessfulAttempt clears failed attempts after a successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx, ip string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}

	ctx := c.Context()
	b.redisCache.Delete(ctx,
		fmt.Sprintf("brute_force:attempts:%s", ip),
		fmt.Sprintf("brute_force:lock:%s", ip),
	)

	return nil
}

// AllowOTPResend reports whether the given email may be sent another OTP yet.
// When allowed it also starts a fresh cooldown window.
func (b *BruteForceProtection) AllowOTPResend(c *fiber.Ctx, email string) (bool, int, error) {
	if b == nil || b.redisCache == nil {
		return true, 0, nil
	}

	ctx := c.Context()
	key := fmt.Sprintf("otp_resend:%s", email)

	exists, err := b.redisCache.Exists(ctx, key)
	if err != nil {
		return true, 0, nil
	}
	if exists {
		ttl, _ := b.redisCache.TTL(ctx, key)
		retryAfter := int(ttl.Seconds())
		if retryAfter < 0 {
			retryAfter = int(OTPResendInterval.Seconds())
		}
		return false, retryAfter, nil
	}

	if err := b.redisCache.Set(ctx, key, "sent", OTPResendInterval); err != nil {
		return true, 0, nil
	}
	return true, 0, nil
}

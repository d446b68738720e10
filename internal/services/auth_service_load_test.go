package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/you/studiosvc/domain"
)

// TestLoginConcurrency runs many sign-ins for one account at once. Every
// attempt gets its own session and every last-login write lands.
func TestLoginConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test in short mode")
	}

	f := createAuthServiceForTest(t, defaultAuthConfig())
	f.users.FindByEmailFunc = storeWith(createValidUser(t))

	var writes atomic.Int64
	f.users.UpdateLastLoginFunc = func(ctx context.Context, id uint, at time.Time) error {
		writes.Add(1)
		return nil
	}

	const (
		concurrency = 10
		attempts    = 20
	)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		tokens   = map[string]bool{}
		failures int
	)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < attempts; j++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				res, err := f.svc.Login(ctx, domain.LoginRequest{
					Email:          "admin@example.com",
					Password:       "correct-pw",
					ChallengeToken: "valid",
				})
				cancel()

				mu.Lock()
				if err != nil {
					failures++
				} else {
					tokens[res.Session.Token] = true
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	f.svc.Wait()

	assert.Zero(t, failures)
	assert.Len(t, tokens, concurrency*attempts)
	assert.Equal(t, int64(concurrency*attempts), writes.Load())
}

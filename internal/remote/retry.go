package remote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
)

// RetryConfig configures retry behavior for transient errors.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	JitterFraction float64 // 0.0 to 1.0
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		JitterFraction: 0.25,
	}
}

// RetryClient wraps a CatalogClient with automatic retry on transient errors.
// Every catalog call is a GET, so all of them are retried.
type RetryClient struct {
	inner  CatalogClient
	config *RetryConfig
}

// NewRetryClient creates a RetryClient that wraps the given CatalogClient.
func NewRetryClient(inner CatalogClient, cfg *RetryConfig) *RetryClient {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	return &RetryClient{inner: inner, config: cfg}
}

// isTransient returns true for errors that are worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status >= 500 || re.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true // network errors are transient
}

// backoff computes the delay for the given attempt with jitter.
func (rc *RetryClient) backoff(attempt int) time.Duration {
	base := float64(rc.config.InitialBackoff) * math.Pow(2, float64(attempt))
	if base > float64(rc.config.MaxBackoff) {
		base = float64(rc.config.MaxBackoff)
	}
	jitter := base * rc.config.JitterFraction * (rand.Float64()*2 - 1)
	d := time.Duration(base + jitter)
	if d < 0 {
		d = 0
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retry executes fn until it succeeds, fails permanently or runs out of attempts.
func (rc *RetryClient) retry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= rc.config.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt < rc.config.MaxRetries {
			if err := sleep(ctx, rc.backoff(attempt)); err != nil {
				return fmt.Errorf("%s: %w (retry cancelled)", operation, lastErr)
			}
		}
	}
	return fmt.Errorf("%s: %w (after %d retries)", operation, lastErr, rc.config.MaxRetries)
}

func (rc *RetryClient) ListSets(ctx context.Context, q models.SetQuery, page int) (resp *SetListResponse, err error) {
	err = rc.retry(ctx, "list sets", func() error {
		resp, err = rc.inner.ListSets(ctx, q, page)
		return err
	})
	return
}

func (rc *RetryClient) SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (resp *SetListResponse, err error) {
	err = rc.retry(ctx, "list sets with part", func() error {
		resp, err = rc.inner.SetsWithPart(ctx, q, page)
		return err
	})
	return
}

func (rc *RetryClient) SetInventory(ctx context.Context, setNum string) (inv *catalog.Inventory, err error) {
	err = rc.retry(ctx, "get inventory", func() error {
		inv, err = rc.inner.SetInventory(ctx, setNum)
		return err
	})
	return
}

func (rc *RetryClient) CommonInventory(ctx context.Context, setNum1, setNum2 string) (inv *catalog.CommonInventory, err error) {
	err = rc.retry(ctx, "get common inventory", func() error {
		inv, err = rc.inner.CommonInventory(ctx, setNum1, setNum2)
		return err
	})
	return
}

func (rc *RetryClient) Themes(ctx context.Context) (themes []*catalog.Theme, err error) {
	err = rc.retry(ctx, "list themes", func() error {
		themes, err = rc.inner.Themes(ctx)
		return err
	})
	return
}

func (rc *RetryClient) Subthemes(ctx context.Context, rootID int64) (themes []*catalog.Theme, err error) {
	err = rc.retry(ctx, "list subthemes", func() error {
		themes, err = rc.inner.Subthemes(ctx, rootID)
		return err
	})
	return
}

func (rc *RetryClient) Wellness(ctx context.Context) (resp *WellnessResponse, err error) {
	err = rc.retry(ctx, "wellness", func() error {
		resp, err = rc.inner.Wellness(ctx)
		return err
	})
	return
}

// Package transfer moves files between the local tree and the remote
// targets: blob stores, HTTP servers and SFTP hosts.
package transfer

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxTries is the number of attempts per file.
const DefaultMaxTries = 3

// Network errors that we will retry.
var recoverableErrorsSuffixes = []string{
	"Idle connections will be closed.",
	"EOF",
	"broken pipe",
	"no such host",
	"connection reset by peer",
	"transport closed before response was received",
	"TLS handshake timeout",
}

// isRecoverable verifies if the error given is in recoverableErrorsSuffixes list.
func isRecoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, errSuffix := range recoverableErrorsSuffixes {
		if strings.HasSuffix(err.Error(), errSuffix) {
			return true
		}
	}
	return false
}

// Pool runs file transfers with bounded concurrency. The first file that
// fails for good cancels the rest.
type Pool struct {
	Workers  int
	MaxTries int

	// backoff is the wait before the given retry (1-based).
	backoff func(attempt int) time.Duration
}

// NewPool returns a Pool running at most workers transfers at a time.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		Workers:  workers,
		MaxTries: DefaultMaxTries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(100.0*math.Pow(2, float64(attempt))) * time.Millisecond
		},
	}
}

// Run calls fn for every relative path.
func (p *Pool) Run(ctx context.Context, rels []string, fn func(ctx context.Context, rel string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	for _, rel := range rels {
		rel := rel
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return p.try(gctx, rel, fn)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// gctx is done once Wait returns.
	return ctx.Err()
}

func (p *Pool) try(ctx context.Context, rel string, fn func(ctx context.Context, rel string) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx, rel)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxTries || !isRecoverable(err) {
			return err
		}

		log.WithError(err).WithField("file", rel).Debug("Retrying")
		select {
		case <-time.After(p.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

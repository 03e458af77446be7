// Package bootstrap sequences service startup: wait for the database, apply
// migrations, then hand control to the HTTP server. Steps run strictly in
// order and the first failure aborts the sequence.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/launchbox/webapi/internal/logging"
	"github.com/launchbox/webapi/internal/metrics"
)

// Step is one named unit of the startup sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Sequence runs steps in declaration order.
type Sequence struct {
	log   *logging.Logger
	steps []Step
}

// NewSequence creates a startup sequence.
func NewSequence(log *logging.Logger, steps ...Step) *Sequence {
	return &Sequence{log: log, steps: steps}
}

// Run executes every step in order. The first failing step stops the
// sequence and its error is returned wrapped with the step name; later steps
// never run.
func (s *Sequence) Run(ctx context.Context) error {
	for _, step := range s.steps {
		start := time.Now()
		s.log.WithField("step", step.Name).Info("startup step begin")

		if err := step.Run(ctx); err != nil {
			metrics.RecordStartupStep(step.Name, "failure", time.Since(start))
			s.log.WithField("step", step.Name).WithError(err).Error("startup step failed")
			return fmt.Errorf("startup step %s: %w", step.Name, err)
		}

		metrics.RecordStartupStep(step.Name, "success", time.Since(start))
		s.log.WithField("step", step.Name).Info("startup step done")
	}
	return nil
}

// Pinger is the part of the database handle the readiness probe needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// WaitPolicy bounds the database readiness probe.
type WaitPolicy struct {
	MaxWait        time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PingTimeout    time.Duration
}

// DefaultWaitPolicy matches the configuration defaults.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		MaxWait:        60 * time.Second,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		PingTimeout:    3 * time.Second,
	}
}

func (p WaitPolicy) normalized() WaitPolicy {
	def := DefaultWaitPolicy()
	if p.MaxWait <= 0 {
		p.MaxWait = def.MaxWait
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.PingTimeout <= 0 {
		p.PingTimeout = def.PingTimeout
	}
	return p
}

// WaitForDatabase pings the database with exponential backoff until it
// responds, the wait budget runs out, or the context is cancelled. It replaces
// the blind fixed-delay wait: readiness is verified, not guessed.
func WaitForDatabase(ctx context.Context, db Pinger, log *logging.Logger, policy WaitPolicy) error {
	policy = policy.normalized()

	deadline := time.Now().Add(policy.MaxWait)
	backoff := policy.InitialBackoff

	var lastErr error
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, policy.PingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			log.WithField("attempts", attempt).Info("database ready")
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("wait for database: %w", ctx.Err())
		}
		if time.Now().Add(backoff).After(deadline) {
			return fmt.Errorf("database not ready after %s (%d attempts): %w", policy.MaxWait, attempt, lastErr)
		}

		log.WithField("attempt", attempt).WithError(lastErr).Warn("database not ready, retrying")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("wait for database: %w", ctx.Err())
		}

		backoff *= 2
		if backoff > policy.MaxBackoff {
			backoff = policy.MaxBackoff
		}
	}
}

// Package service pairs left and right blobs by identifier and compares them.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dusk-indust/diffdetector/internal/diff"
	"github.com/dusk-indust/diffdetector/internal/store"
	"github.com/rs/zerolog"
)

// ErrInvalidID is returned for empty identifiers.
var ErrInvalidID = store.ErrInvalidID

// Side names one of the two slots kept per identifier.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Comparison is the result of asking for a comparison: either an outcome,
// or not found because at least one side has not been supplied yet.
type Comparison struct {
	outcome diff.Outcome
	found   bool
}

// Found wraps a computed outcome.
func Found(o diff.Outcome) Comparison {
	return Comparison{outcome: o, found: true}
}

// NotFound is the comparison for an identifier missing either side.
func NotFound() Comparison {
	return Comparison{}
}

// Outcome returns the computed outcome and true, or false when the
// comparison was not found.
func (c Comparison) Outcome() (diff.Outcome, bool) {
	return c.outcome, c.found
}

// Found reports whether both sides were present.
func (c Comparison) Found() bool {
	return c.found
}

// Service keeps one independent store per side.
type Service struct {
	left  store.Store
	right store.Store
	log   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a Service over the given left and right stores. The service
// takes ownership of both; Close closes them.
func New(left, right store.Store, opts ...Option) *Service {
	s := &Service{
		left:  left,
		right: right,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Service with two fresh stores of the named backend.
func Open(backend string, opts ...Option) (*Service, error) {
	left, err := store.Open(backend)
	if err != nil {
		return nil, err
	}
	right, err := store.Open(backend)
	if err != nil {
		left.Close()
		return nil, err
	}
	return New(left, right, opts...), nil
}

// Set stores data in the given side's slot for id.
func (s *Service) Set(ctx context.Context, side Side, id string, data []byte) error {
	st, err := s.slot(side)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, id, data); err != nil {
		return fmt.Errorf("service: save %s %q: %w", side, id, err)
	}
	s.log.Debug().Str("id", id).Str("side", string(side)).Int("size", len(data)).Msg("blob stored")
	return nil
}

// SetLeft stores the left blob for id.
func (s *Service) SetLeft(ctx context.Context, id string, data []byte) error {
	return s.Set(ctx, SideLeft, id, data)
}

// SetRight stores the right blob for id.
func (s *Service) SetRight(ctx context.Context, id string, data []byte) error {
	return s.Set(ctx, SideRight, id, data)
}

// Compare compares the left and right blobs stored for id. It returns
// NotFound, not an error, when either side is missing.
func (s *Service) Compare(ctx context.Context, id string) (Comparison, error) {
	left, ok, err := s.left.Find(ctx, id)
	if err != nil {
		return NotFound(), fmt.Errorf("service: find left %q: %w", id, err)
	}
	if !ok {
		s.log.Debug().Str("id", id).Str("missing", string(SideLeft)).Msg("comparison not available")
		return NotFound(), nil
	}

	right, ok, err := s.right.Find(ctx, id)
	if err != nil {
		return NotFound(), fmt.Errorf("service: find right %q: %w", id, err)
	}
	if !ok {
		s.log.Debug().Str("id", id).Str("missing", string(SideRight)).Msg("comparison not available")
		return NotFound(), nil
	}

	outcome := diff.Compare(left, right)
	s.log.Debug().
		Str("id", id).
		Bool("sameLength", outcome.SameLength).
		Int("runs", len(outcome.Runs)).
		Msg("compared")
	return Found(outcome), nil
}

// Delete removes both sides for id.
func (s *Service) Delete(ctx context.Context, id string) error {
	lerr := s.left.Remove(ctx, id)
	rerr := s.right.Remove(ctx, id)
	if err := errors.Join(lerr, rerr); err != nil {
		return fmt.Errorf("service: delete %q: %w", id, err)
	}
	s.log.Debug().Str("id", id).Msg("blobs removed")
	return nil
}

// Close closes both stores.
func (s *Service) Close() error {
	return errors.Join(s.left.Close(), s.right.Close())
}

func (s *Service) slot(side Side) (store.Store, error) {
	switch side {
	case SideLeft:
		return s.left, nil
	case SideRight:
		return s.right, nil
	default:
		return nil, fmt.Errorf("service: unknown side %q", side)
	}
}

// Package planner binds a budget model to its persisted copy and to the
// shareable link: load precedence, save-on-edit and reset.
package planner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/codec"
	"github.com/theirongolddev/iceplan/internal/logging"
)

// Store is the key-value capability the session persists through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Source records where the current plan was loaded from.
type Source int

// Plan sources, lowest precedence first.
const (
	SourceDefaults Source = iota
	SourceStore
	SourceLink
)

func (s Source) String() string {
	switch s {
	case SourceStore:
		return "saved plan"
	case SourceLink:
		return "shared link"
	default:
		return "defaults"
	}
}

// Session owns one model. It is not safe for concurrent use; callers that
// share it across goroutines must serialize access.
type Session struct {
	model     *budget.Model
	store     Store
	logger    *zap.Logger
	shareBase string

	source    Source
	persisted bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for load fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(logger) }
}

// WithShareBase sets the URL shareable links are built on.
func WithShareBase(base string) Option {
	return func(s *Session) { s.shareBase = base }
}

// Load builds a session from, in order of precedence, the shared link,
// the stored plan, and the defaults. A level that is absent or malformed
// falls through to the next one. A link-loaded plan is not written to the
// store until the first edit.
func Load(ctx context.Context, store Store, link string, opts ...Option) *Session {
	s := &Session{
		model:  budget.New(),
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if state, ok := s.fromLink(link); ok {
		s.model.Restore(state)
		s.source = SourceLink
		s.logger.Info("loaded plan", zap.Stringer("source", s.source))
		return s
	}
	if state, ok := s.fromStore(ctx); ok {
		s.model.Restore(state)
		s.source = SourceStore
		s.persisted = true
		s.logger.Info("loaded plan", zap.Stringer("source", s.source))
		return s
	}
	s.logger.Info("loaded plan", zap.Stringer("source", s.source))
	return s
}

func (s *Session) fromLink(link string) (budget.State, bool) {
	if link == "" {
		return nil, false
	}
	state, err := codec.StateFromURL(link)
	if err != nil {
		if !errors.Is(err, codec.ErrNoState) {
			s.logger.Warn("ignoring shared link", zap.Error(err))
		}
		return nil, false
	}
	return state, true
}

func (s *Session) fromStore(ctx context.Context) (budget.State, bool) {
	if s.store == nil {
		return nil, false
	}
	blob, ok, err := s.store.Get(ctx, codec.StoreKey)
	if err != nil {
		s.logger.Warn("reading saved plan", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	state, err := codec.DecodeStore(blob)
	if err != nil {
		if !errors.Is(err, codec.ErrNoState) {
			s.logger.Warn("ignoring saved plan", zap.Error(err))
		}
		return nil, false
	}
	return state, true
}

// Model returns a copy of the current model for rendering.
func (s *Session) Model() *budget.Model {
	m := *s.model
	return &m
}

// Source reports where the plan was loaded from.
func (s *Session) Source() Source { return s.source }

// Persisted reports whether the store holds the current plan.
func (s *Session) Persisted() bool { return s.persisted }

// Set edits one field and saves the plan.
func (s *Session) Set(ctx context.Context, f budget.Field, raw any) error {
	if err := s.model.Set(f, raw); err != nil {
		return err
	}
	return s.save(ctx)
}

// SetField edits a field addressed by name and saves the plan.
func (s *Session) SetField(ctx context.Context, name string, raw any) error {
	f, err := budget.ParseField(name)
	if err != nil {
		return err
	}
	return s.Set(ctx, f, raw)
}

// Increment steps a field up and saves the plan.
func (s *Session) Increment(ctx context.Context, f budget.Field) error {
	if err := s.model.Increment(f); err != nil {
		return err
	}
	return s.save(ctx)
}

// Decrement steps a field down and saves the plan.
func (s *Session) Decrement(ctx context.Context, f budget.Field) error {
	if err := s.model.Decrement(f); err != nil {
		return err
	}
	return s.save(ctx)
}

// Reset restores the defaults and deletes the saved plan.
func (s *Session) Reset(ctx context.Context) error {
	s.model.Reset()
	s.source = SourceDefaults
	s.persisted = false
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, codec.StoreKey); err != nil {
		return fmt.Errorf("clearing saved plan: %w", err)
	}
	return nil
}

// SetShareBase changes the URL later links are built on.
func (s *Session) SetShareBase(base string) { s.shareBase = base }

// ShareURL returns the shareable link for the current plan.
func (s *Session) ShareURL() (string, error) {
	return codec.ShareURL(s.shareBase, s.model.Snapshot())
}

func (s *Session) save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	blob, err := codec.EncodeStore(s.model.Snapshot())
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, codec.StoreKey, blob); err != nil {
		s.persisted = false
		return fmt.Errorf("saving plan: %w", err)
	}
	s.persisted = true
	return nil
}

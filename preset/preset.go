// Package preset saves named chart configurations in a store.Store so
// dashboards can switch between indicator setups.
package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/internal/logger"
	"github.com/evdnx/tachart/internal/metrics"
	"github.com/evdnx/tachart/store"
	"github.com/google/uuid"
)

const keyPrefix = "preset:"

var (
	ErrNotFound    = errors.New("preset not found")
	ErrInvalidName = errors.New("invalid preset name")
)

// Preset is a named ChartConfig. ID is stable across updates of the same
// name.
type Preset struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Config    config.ChartConfig `json:"config"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Service manages presets on top of a Store.
type Service struct {
	store store.Store
	log   *slog.Logger
	rec   *metrics.Recorder
	now   func() time.Time
}

// Option customises a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// NewService wraps st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, log: logger.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates cfg and stores it under name, replacing any preset with
// the same name.
func (s *Service) Save(ctx context.Context, name string, cfg config.ChartConfig) (p Preset, err error) {
	defer func() { s.rec.ObservePreset("save", err) }()

	name, err = normalizeName(name)
	if err != nil {
		return Preset{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", name, err)
	}

	now := s.now().UTC()
	p = Preset{ID: uuid.NewString(), Name: name, Config: cfg, CreatedAt: now, UpdatedAt: now}
	existing, err := s.load(ctx, name)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return Preset{}, err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to marshal preset %q: %w", name, err)
	}
	if err := s.store.Set(ctx, keyPrefix+name, data); err != nil {
		return Preset{}, fmt.Errorf("failed to save preset %q: %w", name, err)
	}
	s.log.Info("preset saved", slog.String("name", name), slog.String("id", p.ID))
	return p, nil
}

// Load returns the preset stored under name.
func (s *Service) Load(ctx context.Context, name string) (p Preset, err error) {
	defer func() { s.rec.ObservePreset("load", err) }()

	name, err = normalizeName(name)
	if err != nil {
		return Preset{}, err
	}
	return s.load(ctx, name)
}

func (s *Service) load(ctx context.Context, name string) (Preset, error) {
	data, err := s.store.Get(ctx, keyPrefix+name)
	if errors.Is(err, store.ErrNotFound) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("failed to load preset %q: %w", name, err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("failed to decode preset %q: %w", name, err)
	}
	return p, nil
}

// Delete removes the preset stored under name.
func (s *Service) Delete(ctx context.Context, name string) (err error) {
	defer func() { s.rec.ObservePreset("delete", err) }()

	name, err = normalizeName(name)
	if err != nil {
		return err
	}
	err = s.store.Delete(ctx, keyPrefix+name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to delete preset %q: %w", name, err)
	}
	s.log.Info("preset deleted", slog.String("name", name))
	return nil
}

// List returns every preset sorted by name. Entries that fail to decode are
// logged and skipped.
func (s *Service) List(ctx context.Context) (out []Preset, err error) {
	defer func() { s.rec.ObservePreset("list", err) }()

	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	out = make([]Preset, 0, len(keys))
	for _, k := range keys {
		p, err := s.load(ctx, strings.TrimPrefix(k, keyPrefix))
		if errors.Is(err, ErrNotFound) {
			continue // deleted between Keys and Get
		}
		if err != nil {
			s.log.Warn("skipping unreadable preset", slog.String("key", k), slog.Any("err", err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return name, nil
}

package session

import (
	"log/slog"
	"time"

	"github.com/ironsheep/photo-editor/internal/coalesce"
	"github.com/ironsheep/photo-editor/internal/history"
)

type config struct {
	surface    Surface
	historyCap int
	debounce   time.Duration
	clock      coalesce.Clock
	logger     *slog.Logger
	onError    func(error)
}

// Option configures a Session.
type Option func(*config)

// WithSurface sets where rendered images are shown.
func WithSurface(s Surface) Option {
	return func(c *config) { c.surface = s }
}

// WithHistoryCap bounds the number of undo snapshots.
func WithHistoryCap(n int) Option {
	return func(c *config) { c.historyCap = n }
}

// WithDebounce sets the quiescence window for slider and filter changes.
func WithDebounce(d time.Duration) Option {
	return func(c *config) { c.debounce = d }
}

// WithClock replaces the wall clock driving the debounce window.
func WithClock(clock coalesce.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithErrorHandler receives failures of debounced recomputes, which run in
// the background and therefore cannot return their error to a caller.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) { c.onError = fn }
}

func defaultConfig() config {
	return config{
		surface:    nopSurface{},
		historyCap: history.DefaultCap,
		debounce:   coalesce.DefaultWindow,
		clock:      coalesce.RealClock{},
		logger:     slog.Default(),
	}
}

package rivet

import (
	"log/slog"
	"os"

	"github.com/rivetfw/rivet/config"
)

// App wires configuration, the container, and the router into one runtime.
// Registrations are fluent; errors are collected and surfaced when the
// router is built.
type App struct {
	cfg       *config.Config
	container *Container
	router    *Router
	log       *slog.Logger
	err       error
}

// NewApp creates a runtime around the given configuration. A nil config
// uses the built-in defaults.
func NewApp(cfg *config.Config, opts ...ContainerOption) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	opts = append(opts, WithLogger(log))
	return &App{
		cfg:       cfg,
		container: NewContainer(opts...),
		log:       log,
	}
}

// Register registers a component constructor. The first registration error
// is kept and returned by Build.
func (a *App) Register(ctor any, opts ...Option) *App {
	if err := a.container.Register(ctor, opts...); err != nil && a.err == nil {
		a.err = err
	}
	return a
}

// Build performs route discovery and returns the router. Registration
// errors collected earlier fail the build.
func (a *App) Build(opts ...RouterOption) (*Router, error) {
	if a.err != nil {
		return nil, a.err
	}

	opts = append(opts, WithRouterLogger(a.log))
	router, err := NewRouter(a.container, opts...)
	if err != nil {
		return nil, err
	}

	a.router = router
	a.cfg.LogSummary(a.log)
	a.log.Info("components registered", "count", a.container.registry.Count())
	return router, nil
}

// Config returns the runtime configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Container returns the instance container.
func (a *App) Container() *Container {
	return a.container
}

// Router returns the router built by Build, or nil before that.
func (a *App) Router() *Router {
	return a.router
}

// Logger returns the runtime logger.
func (a *App) Logger() *slog.Logger {
	return a.log
}

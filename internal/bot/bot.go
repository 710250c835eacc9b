package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	botCtx "github.com/pokeclicker-automation/autoseller/internal/context"
	"golang.org/x/sync/errgroup"
)

// Automation is a feature driven by the bot, like the seller.
type Automation interface {
	Name() string
	Initialize(ctx context.Context, step botCtx.InitStep) error
	Stop()
}

// Service is a long running routine the bot runs next to its features, it
// must return once ctx is done.
type Service func(ctx context.Context) error

type Bot struct {
	logger   *slog.Logger
	features []Automation
	services []Service

	stopOnce sync.Once
}

func NewBot(logger *slog.Logger, features ...Automation) *Bot {
	return &Bot{
		logger:   logger,
		features: features,
	}
}

func (b *Bot) AddService(s Service) {
	b.services = append(b.services, s)
}

// Initialize runs every init step for every feature, finishing one step on
// all features before moving to the next.
func (b *Bot) Initialize(ctx context.Context) error {
	for _, step := range []botCtx.InitStep{botCtx.InitStepBuildMenu, botCtx.InitStepFinalize} {
		for _, f := range b.features {
			b.logger.Debug(fmt.Sprintf("Initializing %s: %s", f.Name(), step))
			if err := f.Initialize(ctx, step); err != nil {
				return fmt.Errorf("error initializing %s (%s): %w", f.Name(), step, err)
			}
		}
	}

	return nil
}

// Run starts the services, initializes the features and blocks until ctx is
// cancelled or a service fails. Features are always stopped on return.
func (b *Bot) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range b.services {
		s := s
		g.Go(func() error {
			return s(ctx)
		})
	}

	if err := b.Initialize(ctx); err != nil {
		cancel()
		b.Stop()
		return errors.Join(err, g.Wait())
	}
	b.logger.Info(fmt.Sprintf("Automation running with %d feature(s)", len(b.features)))

	g.Go(func() error {
		<-ctx.Done()
		b.Stop()
		return nil
	})

	return g.Wait()
}

func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		for _, f := range b.features {
			f.Stop()
		}
		b.logger.Info("Automation stopped")
	})
}

package context

import (
	"log/slog"

	"github.com/pokeclicker-automation/autoseller/internal/game"
	"github.com/pokeclicker-automation/autoseller/internal/menu"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
)

// InitStep orders feature initialization: every feature builds its menu
// before any of them is finalized.
type InitStep int

const (
	InitStepBuildMenu InitStep = iota
	InitStepFinalize
)

func (s InitStep) String() string {
	switch s {
	case InitStepBuildMenu:
		return "BuildMenu"
	case InitStepFinalize:
		return "Finalize"
	}

	return "Unknown"
}

type Notifier interface {
	Notify(message, source string)
	// ItemsSold reports the items a pass sold and the currency it earned.
	ItemsSold(source string, currency game.Currency, earned int, sold map[string]int)
}

// Context is what an automation feature gets to work with. None of it is
// owned by the feature.
type Context struct {
	Name     string
	Logger   *slog.Logger
	Game     game.Host
	Storage  settings.Store
	Menu     menu.Menu
	Notifier Notifier
}

func NewContext(name string, logger *slog.Logger, host game.Host, storage settings.Store, m menu.Menu, notifier Notifier) *Context {
	return &Context{
		Name:     name,
		Logger:   logger.With(slog.String("feature", name)),
		Game:     host,
		Storage:  storage,
		Menu:     m,
		Notifier: notifier,
	}
}

package menu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pokeclicker-automation/autoseller/internal/settings"
)

// TooltipSeparator splits a tooltip's summary from its details.
const TooltipSeparator = "\n"

var ErrUnknownSetting = errors.New("no menu element is bound to this setting")

// Menu is the part of the host menu an automation feature can extend.
type Menu interface {
	AddContainer() *Container
	AddSeparator(c *Container)
	AddAutomationButton(label, key, tooltip string, c *Container) *Button
	AddSettingPanel(b *Button) *Panel
}

type Container struct {
	id       int
	hidden   atomic.Bool
	elements []any
}

func (c *Container) ID() int {
	return c.id
}

func (c *Container) Hidden() bool {
	return c.hidden.Load()
}

func (c *Container) SetHidden(hidden bool) {
	c.hidden.Store(hidden)
}

type separator struct{}

type Toggle struct {
	Label   string
	Key     string
	Tooltip string
}

// Button and Panel share the lock of the registry that created them.
type Button struct {
	Toggle
	mu       *sync.RWMutex
	panel    *Panel
	handlers []func(enabled bool)
}

// OnClick registers fn to run with the new state each time the button is clicked.
func (b *Button) OnClick(fn func(enabled bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, fn)
}

type Panel struct {
	mu      *sync.RWMutex
	title   string
	toggles []*Toggle
}

func (p *Panel) AddTitle(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.title = text
}

func (p *Panel) AddLabeledToggle(label, key, tooltip string) *Toggle {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := &Toggle{Label: label, Key: key, Tooltip: tooltip}
	p.toggles = append(p.toggles, t)

	return t
}

// Registry is the in-process menu. Every button and toggle reads and writes
// its value through the settings store.
type Registry struct {
	mu         sync.RWMutex
	store      settings.Store
	logger     *slog.Logger
	containers []*Container
}

func NewRegistry(store settings.Store, logger *slog.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

func (r *Registry) AddContainer() *Container {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Container{id: len(r.containers)}
	r.containers = append(r.containers, c)

	return c
}

func (r *Registry) AddSeparator(c *Container) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.elements = append(c.elements, separator{})
}

func (r *Registry) AddAutomationButton(label, key, tooltip string, c *Container) *Button {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &Button{Toggle: Toggle{Label: label, Key: key, Tooltip: tooltip}, mu: &r.mu}
	c.elements = append(c.elements, b)

	return b
}

func (r *Registry) AddSettingPanel(b *Button) *Panel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.panel == nil {
		b.panel = &Panel{mu: &r.mu}
	}

	return b.panel
}

// Click flips the setting bound to key and returns its new state. Click
// handlers of an automation button run after the value is stored.
func (r *Registry) Click(key string) (bool, error) {
	r.mu.RLock()
	btn, found := r.find(key)
	var handlers []func(bool)
	if btn != nil {
		handlers = append(handlers, btn.handlers...)
	}
	r.mu.RUnlock()

	if !found {
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	enabled := !settings.Enabled(r.store, key)
	if err := settings.SetBool(r.store, key, enabled); err != nil {
		return false, fmt.Errorf("error saving %s: %w", key, err)
	}
	r.logger.Debug(fmt.Sprintf("Menu setting %s set to %t", key, enabled))

	for _, h := range handlers {
		h(enabled)
	}

	return enabled, nil
}

// find must be called with the lock held. The button is nil when key belongs to a panel toggle.
func (r *Registry) find(key string) (*Button, bool) {
	for _, c := range r.containers {
		for _, e := range c.elements {
			b, ok := e.(*Button)
			if !ok {
				continue
			}
			if b.Key == key {
				return b, true
			}
			if b.panel == nil {
				continue
			}
			for _, t := range b.panel.toggles {
				if t.Key == key {
					return nil, true
				}
			}
		}
	}

	return nil, false
}

package seller

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	botCtx "github.com/pokeclicker-automation/autoseller/internal/context"
	"github.com/pokeclicker-automation/autoseller/internal/game"
	"github.com/pokeclicker-automation/autoseller/internal/menu"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
)

const (
	SettingFeatureEnabled    = "AutoSeller-Enabled"
	SettingAutoSellTreasures = "AutoSell-Treasures"
	SettingAutoSellPlates    = "AutoSell-Plates"

	DefaultInterval            = 10 * time.Second
	DefaultUnlockWatchInterval = 10 * time.Second

	notificationSource = "Seller"
)

type Option func(*Seller)

func WithInterval(d time.Duration) Option {
	return func(s *Seller) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithUnlockWatchInterval(d time.Duration) Option {
	return func(s *Seller) {
		if d > 0 {
			s.unlockInterval = d
		}
	}
}

// Report describes a single sell pass.
type Report struct {
	Sold   map[string]int
	Earned int
}

// Seller periodically sells underground treasures and plates, gated by the
// feature flag and the two per-category settings.
type Seller struct {
	ctx            *botCtx.Context
	interval       time.Duration
	unlockInterval time.Duration

	mu          sync.Mutex
	baseCtx     context.Context
	stopLoop    context.CancelFunc
	loopDone    chan struct{}
	stopWatcher context.CancelFunc
	container   *menu.Container

	passMu sync.Mutex
}

func New(ctx *botCtx.Context, opts ...Option) *Seller {
	s := &Seller{
		ctx:            ctx,
		interval:       DefaultInterval,
		unlockInterval: DefaultUnlockWatchInterval,
		baseCtx:        context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Seller) Name() string {
	return notificationSource
}

// Initialize builds the menu and stores defaults on InitStepBuildMenu, and
// restores the previous running state on InitStepFinalize. ctx bounds every
// loop the seller starts from now on.
func (s *Seller) Initialize(ctx context.Context, step botCtx.InitStep) error {
	switch step {
	case botCtx.InitStepBuildMenu:
		s.mu.Lock()
		s.baseCtx = ctx
		s.mu.Unlock()

		s.buildMenu(ctx)
		return s.SetDefaults()
	case botCtx.InitStepFinalize:
		if s.locked() {
			s.ctx.Logger.Debug("Underground is not unlocked yet, seller will start once it is")
			return nil
		}
		s.ToggleFromSettings()
	}

	return nil
}

// DefaultValues are the values settings take until they are stored once.
func DefaultValues() map[string]string {
	return map[string]string{
		SettingFeatureEnabled:    settings.True,
		SettingAutoSellTreasures: settings.True,
		SettingAutoSellPlates:    settings.True,
	}
}

// SetDefaults stores the default of every setting that has no value yet.
func (s *Seller) SetDefaults() error {
	for key, value := range DefaultValues() {
		if err := s.ctx.Storage.SetDefault(key, value); err != nil {
			return fmt.Errorf("error setting default for %s: %w", key, err)
		}
	}

	return nil
}

func (s *Seller) buildMenu(ctx context.Context) {
	m := s.ctx.Menu

	c := m.AddContainer()
	s.mu.Lock()
	s.container = c
	s.mu.Unlock()

	m.AddSeparator(c)

	accessible, err := s.ctx.Game.UndergroundAccessible(ctx)
	if err != nil {
		s.ctx.Logger.Warn(fmt.Sprintf("Could not check underground access, assuming locked: %v", err))
	}
	if !accessible {
		c.SetHidden(true)
		s.watchUnlock()
	}

	tooltip := "Automatically sell treasures and plates" + menu.TooltipSeparator + "Auto sell treasures and plates for diamonds and gems."
	btn := m.AddAutomationButton("Auto Seller", SettingFeatureEnabled, tooltip, c)
	btn.OnClick(s.apply)

	panel := m.AddSettingPanel(btn)
	panel.AddTitle("Seller advanced settings")
	panel.AddLabeledToggle("Auto Sell Treasures", SettingAutoSellTreasures, "Automatically sell each treasures every 10s.")
	panel.AddLabeledToggle("Auto Sell Plates", SettingAutoSellPlates, "Automatically sell each plates every 10s.")
}

func (s *Seller) locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.container != nil && s.container.Hidden()
}

// ToggleFromSettings starts or stops the seller according to the stored feature flag.
func (s *Seller) ToggleFromSettings() {
	s.Toggle(settings.Enabled(s.ctx.Storage, SettingFeatureEnabled))
}

// apply toggles the seller, except that nothing starts while the underground
// is locked. The unlock watcher picks up the stored flag later.
func (s *Seller) apply(enable bool) {
	if enable && s.locked() {
		s.ctx.Logger.Debug("Underground is locked, seller will start once it is unlocked")
		return
	}
	s.Toggle(enable)
}

// Toggle starts the sell loop, running a pass right away, or stops it.
// Starting a running seller or stopping a stopped one does nothing.
func (s *Seller) Toggle(enable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enable {
		if s.stopLoop == nil {
			s.startLoop()
		}
		return
	}

	s.stopLoopLocked()
}

// Running reports whether the sell loop is active.
func (s *Seller) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopLoop != nil
}

// Stop ends the sell loop and the unlock watcher.
func (s *Seller) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLoopLocked()
	if s.stopWatcher != nil {
		s.stopWatcher()
		s.stopWatcher = nil
	}
}

// startLoop must be called with s.mu held.
func (s *Seller) startLoop() {
	if s.baseCtx.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	done := make(chan struct{})
	s.stopLoop = cancel
	s.loopDone = done

	s.ctx.Logger.Info(fmt.Sprintf("Auto seller started, selling every %s", s.interval))

	go func() {
		defer close(done)

		s.Sell(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sell(ctx)
			}
		}
	}()
}

// stopLoopLocked waits for an in-flight pass, so nothing is sold once it returns.
func (s *Seller) stopLoopLocked() {
	if s.stopLoop == nil {
		return
	}

	s.stopLoop()
	<-s.loopDone
	s.stopLoop = nil
	s.loopDone = nil

	s.ctx.Logger.Info("Auto seller stopped")
}

func (s *Seller) watchUnlock() {
	s.mu.Lock()
	if s.stopWatcher != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.stopWatcher = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.unlockInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				accessible, err := s.ctx.Game.UndergroundAccessible(ctx)
				if err != nil {
					s.ctx.Logger.Debug(fmt.Sprintf("Underground access check failed: %v", err))
					continue
				}
				if !accessible {
					continue
				}

				s.mu.Lock()
				if ctx.Err() != nil {
					s.mu.Unlock()
					return
				}
				s.ctx.Logger.Info("Underground unlocked, enabling seller menu")
				s.stopWatcher = nil
				c := s.container
				s.mu.Unlock()
				cancel()

				if c != nil {
					c.SetHidden(false)
				}
				s.ToggleFromSettings()
				return
			}
		}
	}()
}

// SellList is the ordered list of item names the current settings allow selling.
func (s *Seller) SellList() []string {
	var list []string
	if settings.Enabled(s.ctx.Storage, SettingAutoSellTreasures) {
		list = append(list, treasureList...)
	}
	if settings.Enabled(s.ctx.Storage, SettingAutoSellPlates) {
		list = append(list, plateList...)
	}

	return list
}

// Sell runs one pass: every enabled item the player holds is sold in full.
// Host failures are logged and never abort the pass.
func (s *Seller) Sell(ctx context.Context) Report {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	report := Report{Sold: make(map[string]int)}
	host := s.ctx.Game

	before, beforeErr := host.Currency(ctx, game.CurrencyDiamond)
	if beforeErr != nil {
		s.ctx.Logger.Warn(fmt.Sprintf("Could not read diamonds before selling: %v", beforeErr))
	}

	sellList := s.SellList()
	if len(sellList) > 0 && s.inventoryLoaded(ctx) {
		for _, name := range sellList {
			if ctx.Err() != nil {
				return report
			}
			if qty, sold := s.sellItem(ctx, name); sold {
				report.Sold[name] = qty
			}
		}
	}

	if beforeErr == nil {
		after, err := host.Currency(ctx, game.CurrencyDiamond)
		if err != nil {
			s.ctx.Logger.Warn(fmt.Sprintf("Could not read diamonds after selling: %v", err))
		} else if after > before {
			report.Earned = after - before
			s.ctx.Notifier.Notify(fmt.Sprintf("Seller sold treasure for %d diamonds and some gems", report.Earned), notificationSource)
		}
	}

	if len(report.Sold) > 0 {
		s.ctx.Notifier.ItemsSold(notificationSource, game.CurrencyDiamond, report.Earned, maps.Clone(report.Sold))
	}

	return report
}

func (s *Seller) inventoryLoaded(ctx context.Context) bool {
	loaded, err := s.ctx.Game.InventoryLoaded(ctx)
	if err != nil {
		s.ctx.Logger.Debug(fmt.Sprintf("Could not check player inventory: %v", err))
		return false
	}

	return loaded
}

func (s *Seller) sellItem(ctx context.Context, name string) (int, bool) {
	host := s.ctx.Game

	itm, found, err := host.UndergroundItem(ctx, name)
	if err != nil {
		s.ctx.Logger.Debug(fmt.Sprintf("Could not look up %s: %v", name, err))
		return 0, false
	}
	if !found {
		return 0, false
	}

	qty, err := host.ItemQuantity(ctx, name)
	if err != nil {
		s.ctx.Logger.Debug(fmt.Sprintf("Could not read quantity of %s: %v", name, err))
		return 0, false
	}
	if qty <= 0 {
		return 0, false
	}

	if err = host.Sell(ctx, itm, qty); err != nil {
		s.ctx.Logger.Warn(fmt.Sprintf("Failed to sell %d %s: %v", qty, name, err), slog.String("item", name))
		return 0, false
	}
	s.ctx.Logger.Debug(fmt.Sprintf("Sold %d %s", qty, name))

	return qty, true
}

// SetEnabled stores the feature flag and applies it, the same as clicking the menu button.
func (s *Seller) SetEnabled(enabled bool) error {
	if err := settings.SetBool(s.ctx.Storage, SettingFeatureEnabled, enabled); err != nil {
		return fmt.Errorf("error saving %s: %w", SettingFeatureEnabled, err)
	}
	s.apply(enabled)

	return nil
}

// SettingKey is the setting SetEnabled writes.
func (s *Seller) SettingKey() string {
	return SettingFeatureEnabled
}

func (s *Seller) Status() string {
	state := "stopped"
	switch {
	case s.Running():
		state = "running"
	case s.locked():
		state = "waiting for the underground to unlock"
	}

	return fmt.Sprintf("Auto seller is %s (treasures: %t, plates: %t)",
		state,
		settings.Enabled(s.ctx.Storage, SettingAutoSellTreasures),
		settings.Enabled(s.ctx.Storage, SettingAutoSellPlates),
	)
}

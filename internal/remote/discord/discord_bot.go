package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pokeclicker-automation/autoseller/internal/event"
	"golang.org/x/time/rate"
)

const commandPrefix = "!autoseller"

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Controller is what chat commands are allowed to drive.
type Controller interface {
	SetEnabled(enabled bool) error
	Status() string
	// SettingKey is the setting SetEnabled stores, announced to open panels.
	SettingKey() string
}

type Bot struct {
	session    *discordgo.Session
	sender     messageSender
	channelID  string
	controller Controller
	limiter    *rate.Limiter
	logger     *slog.Logger
	send       func(event.Event)
}

func NewBot(token, channelID string, controller Controller, logger *slog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}

	return &Bot{
		session:    dg,
		sender:     dg,
		channelID:  channelID,
		controller: controller,
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 5),
		logger:     logger,
		send:       event.Send,
	}, nil
}

// Start opens the gateway connection for chat commands and keeps it open until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.onMessageCreated)
	b.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error connecting to discord: %w", err)
	}
	b.logger.Info("Discord bot connected")

	<-ctx.Done()

	return b.session.Close()
}

func (b *Bot) Handle(ctx context.Context, e event.Event) error {
	if _, ok := e.(event.NotificationEvent); !ok {
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil
	}

	_, err := b.sender.ChannelMessageSend(b.channelID, fmt.Sprintf("**[%s]** %s", e.Source(), e.Message()))
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}

	return nil
}

func (b *Bot) onMessageCreated(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	if m.ChannelID != b.channelID {
		return
	}

	reply, handled := b.handleCommand(m.Content)
	if !handled {
		return
	}

	if _, err := b.sender.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.logger.Warn(fmt.Sprintf("Error replying to discord command: %v", err))
	}
}

func (b *Bot) handleCommand(content string) (string, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || fields[0] != commandPrefix {
		return "", false
	}
	if len(fields) < 2 {
		return "Usage: " + commandPrefix + " on|off|status", true
	}

	switch fields[1] {
	case "on", "off":
		enabled := fields[1] == "on"
		if err := b.controller.SetEnabled(enabled); err != nil {
			return fmt.Sprintf("Error: %v", err), true
		}
		key := b.controller.SettingKey()
		b.send(event.FeatureToggled(event.Text("Discord", fmt.Sprintf("%s set to %t", key, enabled)), key, enabled))
		return b.controller.Status(), true
	case "status":
		return b.controller.Status(), true
	}

	return fmt.Sprintf("Unknown command %q. Usage: %s on|off|status", fields[1], commandPrefix), true
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sLog "github.com/pokeclicker-automation/autoseller/cmd/autoseller/log"
	"github.com/pokeclicker-automation/autoseller/internal/bot"
	"github.com/pokeclicker-automation/autoseller/internal/remote/discord"
	"github.com/pokeclicker-automation/autoseller/internal/remote/telegram"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the game bridge and settings panel, and keep selling",
	RunE:  runAutomation,
}

func runAutomation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := sLog.NewLogger(cfg.LogLevel, cfg.Debug, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer sLog.FlushAndClose()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(logger, a.seller)
	b.AddService(a.listener.Listen)
	b.AddService(a.server.Listen)

	if cfg.Discord.Enabled {
		discordBot, err := discord.NewBot(cfg.Discord.Token, cfg.Discord.ChannelID, a.seller, logger)
		if err != nil {
			return err
		}
		a.listener.Register(discordBot.Handle)
		b.AddService(discordBot.Start)
	}

	if cfg.Telegram.Enabled {
		telegramBot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			return err
		}
		a.listener.Register(telegramBot.Handle)
	}

	if cfg.Server.OpenWindow || flagWindow {
		b.AddService(func(ctx context.Context) error {
			return openWindow(ctx, a.panelURL(), logger)
		})
	}

	logger.Info(fmt.Sprintf("Install http://%s/bridge.user.js in the game page, it connects to ws://%s/bridge", cfg.Server.ListenAddr, cfg.Server.ListenAddr))

	err = b.Run(ctx)
	if errors.Is(err, errWindowClosed) {
		return nil
	}

	return err
}

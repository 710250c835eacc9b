package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	sLog "github.com/pokeclicker-automation/autoseller/cmd/autoseller/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var flagWaitForGame time.Duration

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Wait for the game page, run a single sell pass and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := sLog.NewConsoleLogger(cfg.LogLevel, cfg.Debug)
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.seller.SetDefaults(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return a.server.Listen(ctx)
		})

		g.Go(func() error {
			defer cancel()

			if err := waitForBridge(ctx, a, flagWaitForGame); err != nil {
				return err
			}

			report := a.seller.Sell(ctx)

			names := make([]string, 0, len(report.Sold))
			for name := range report.Sold {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d\n", name, report.Sold[name])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Earned %d diamonds\n", report.Earned)

			return nil
		})

		return g.Wait()
	},
}

func init() {
	sellCmd.Flags().DurationVar(&flagWaitForGame, "wait", time.Minute, "how long to wait for the game page to connect")
}

func waitForBridge(ctx context.Context, a *app, timeout time.Duration) error {
	a.logger.Info(fmt.Sprintf("Waiting up to %s for the game page on ws://%s/bridge", timeout, a.cfg.Server.ListenAddr))

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for !a.bridge.Connected() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("game page did not connect within %s", timeout)
		case <-ticker.C:
		}
	}

	return nil
}

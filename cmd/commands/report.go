package commands

// Command to post the dashboard to Telegram
// Sends once, or keeps sending every telegram.report_interval minutes with --watch
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"uranus-analytics/bots_monitor"
	"uranus-analytics/internal/features/tg_charts"
	"uranus-analytics/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportWatch bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Send the dashboard report to Telegram",
	Long:  `Build the dashboard and post it with a top-holders chart to the configured Telegram chat.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWatch, "watch", false, "Keep sending reports every telegram.report_interval minutes")
}

func runReport(cmd *cobra.Command, args []string) error {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.LogError("Failed to initialize bot", zap.Error(err))
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	log.LogSuccess("Bot authorized", zap.String("username", bot.Self.UserName))

	reporter, err := bots_monitor.NewDashboardReporter(bot, cfg.Telegram.ChatID,
		newAggregator(cfg, newClient(cfg)),
		tg_charts.HoldersChart{FontPath: cfg.Telegram.FontPath})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !reportWatch {
		return reporter.SendReport(ctx)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		bots_monitor.RunDashboardMonitor(ctx, reporter, cfg.Telegram.Interval())
	}()

	log.LogSuccess("Dashboard monitor is running", zap.Duration("interval", cfg.Telegram.Interval()))

	<-ctx.Done()
	log.LogInfo("Shutdown signal received, gracefully stopping...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.LogSuccess("Dashboard monitor stopped gracefully")
	case <-time.After(10 * time.Second):
		log.LogWarn("Timeout waiting for monitor to stop")
	}
	return nil
}

package bots_monitor

// Telegram dashboard report
// One photo message per run: top-holders chart with an HTML caption,
// falling back to a text message when the chart cannot be rendered or sent

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"uranus-analytics/internal/features/dashboard"
	"uranus-analytics/internal/features/holders"
	"uranus-analytics/internal/features/tg_charts"
	log "uranus-analytics/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/time/rate"
)

const reportTopWallets = 5

// Sender is the part of *tgbotapi.BotAPI the reporter uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type DashboardBuilder interface {
	BuildDashboard(ctx context.Context) dashboard.Record
}

type DashboardReporter struct {
	bot     Sender
	chatID  int64
	builder DashboardBuilder
	chart   tg_charts.HoldersChart
	limiter *rate.Limiter
}

// NewDashboardReporter sends at most one Telegram request per second.
func NewDashboardReporter(bot Sender, chatID string, builder DashboardBuilder, chart tg_charts.HoldersChart) (*DashboardReporter, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	return &DashboardReporter{
		bot:     bot,
		chatID:  id,
		builder: builder,
		chart:   chart,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// SendReport builds the dashboard and posts it.
func (r *DashboardReporter) SendReport(ctx context.Context) error {
	record := r.builder.BuildDashboard(ctx)
	caption := formatDashboardMessage(record)

	chart := r.chart
	if chart.Title == "" {
		chart.Title = record.TokenSymbol + " top holders"
	}
	chartPNG, err := chart.RenderPNG(topWallets(record.TopWallets))
	if err != nil {
		log.LogWarn("Failed to render holders chart", zap.Error(err))
		return r.sendText(ctx, caption)
	}

	photo := tgbotapi.NewPhoto(r.chatID, tgbotapi.FileBytes{Name: "holders.png", Bytes: chartPNG})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML

	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := r.bot.Send(photo); err != nil {
		log.LogError("Failed to send dashboard chart", zap.Error(err))
		return r.sendText(ctx, caption)
	}

	log.LogInfo("Dashboard report sent",
		zap.Int64("chatID", r.chatID),
		zap.String("symbol", record.TokenSymbol),
		zap.Float64("price", record.Price))
	return nil
}

func (r *DashboardReporter) sendText(ctx context.Context, text string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send dashboard report: %w", err)
	}
	return nil
}

// RunDashboardMonitor sends one report immediately, then one per interval until ctx is done.
func RunDashboardMonitor(ctx context.Context, reporter *DashboardReporter, interval time.Duration) {
	log.LogInfo("Starting Dashboard Monitor...", zap.Duration("interval", interval))

	if err := reporter.SendReport(ctx); err != nil {
		log.LogError("Failed to send dashboard report", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.LogInfo("Dashboard monitor stopped")
			return
		case <-ticker.C:
			if err := reporter.SendReport(ctx); err != nil {
				log.LogError("Failed to send dashboard report", zap.Error(err))
			}
		}
	}
}

func topWallets(wallets []holders.TopHolderRecord) []holders.TopHolderRecord {
	if len(wallets) > reportTopWallets {
		return wallets[:reportTopWallets]
	}
	return wallets
}

func formatDashboardMessage(rec dashboard.Record) string {
	p := message.NewPrinter(language.English)

	var lines []string
	lines = append(lines, fmt.Sprintf("<b>%s</b> (%s)", html.EscapeString(rec.TokenName), html.EscapeString(rec.TokenSymbol)))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Price: <code>$%s</code> (<i>%s%%</i>)",
		p.Sprint(number.Decimal(rec.Price, number.MaxFractionDigits(8))), signed(rec.PriceChange24h)))
	lines = append(lines, fmt.Sprintf("Market Cap: <code>%s</code>", formatUSDShort(rec.MarketCap)))
	lines = append(lines, fmt.Sprintf("Volume 24h: <code>%s</code>", formatUSDShort(rec.Volume24h)))
	lines = append(lines, fmt.Sprintf("Liquidity: <code>%s</code>", formatUSDShort(rec.Liquidity)))
	lines = append(lines, fmt.Sprintf("Holders: <code>%s</code> (<i>%s%%</i>)", p.Sprintf("%d", rec.TotalHolders), signed(rec.HoldersGrowth)))

	if wallets := topWallets(rec.TopWallets); len(wallets) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Top %d holders:", len(wallets)))
		for _, w := range wallets {
			lines = append(lines, fmt.Sprintf("%d. <code>%s</code> – %s (%s%%)",
				w.Rank, html.EscapeString(w.Wallet), w.BalanceFormatted, w.Percentage))
		}
	}
	return strings.Join(lines, "\n")
}

func signed(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v > 0 {
		s = "+" + s
	}
	return s
}

func formatUSDShort(v float64) string {
	trim := func(f float64) string {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
	}
	switch {
	case v >= 1e9:
		return "$" + trim(v/1e9) + "B"
	case v >= 1e6:
		return "$" + trim(v/1e6) + "M"
	case v >= 1e3:
		return "$" + trim(v/1e3) + "K"
	default:
		return "$" + trim(v)
	}
}

package tg_charts

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"uranus-analytics/internal/features/holders"
	logging "uranus-analytics/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	chartWidth  = 1600
	chartHeight = 900

	titleX = 80.0
	titleY = 90.0

	chartAreaLeft   = 120.0
	chartAreaRight  = 1520.0
	chartAreaTop    = 200.0
	chartAreaBottom = 780.0

	barSpacing     = 24.0
	gridLinesCount = 4

	titleFontSize    = 48.0
	barValueFontSize = 26.0
	labelFontSize    = 22.0

	barValueOffsetY = 14.0
	labelOffsetY    = 40.0
)

var (
	backgroundColor = color.RGBA{12, 14, 28, 255}
	gridColor       = color.RGBA{60, 64, 90, 255}
	barColor        = color.RGBA{94, 200, 229, 255}
)

// defaultFontPaths are tried in order when no font path is configured.
var defaultFontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// HoldersChart draws the top-holder leaderboard as a bar chart of supply share.
type HoldersChart struct {
	Title    string
	FontPath string // optional; gg's built-in face is used when nothing loads
}

// RenderPNG returns the encoded chart. An empty leaderboard still yields a valid image.
func (c HoldersChart) RenderPNG(wallets []holders.TopHolderRecord) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(backgroundColor)
	dc.Clear()

	fontPath := c.loadFont(dc)
	setFontSize := func(size float64) {
		if fontPath != "" {
			dc.LoadFontFace(fontPath, size)
		}
	}

	setFontSize(titleFontSize)
	dc.SetColor(color.White)
	dc.DrawString(c.Title, titleX, titleY)

	shares := make([]float64, len(wallets))
	maxShare := 0.0
	for i, w := range wallets {
		share, err := strconv.ParseFloat(w.Percentage, 64)
		if err != nil || share < 0 {
			share = 0
		}
		shares[i] = share
		if share > maxShare {
			maxShare = share
		}
	}
	if maxShare == 0 {
		maxShare = 1.0
	}

	chartAreaHeight := chartAreaBottom - chartAreaTop
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for i := 0; i <= gridLinesCount; i++ {
		y := chartAreaBottom - float64(i)/gridLinesCount*chartAreaHeight
		dc.DrawLine(chartAreaLeft, y, chartAreaRight, y)
		dc.Stroke()
	}

	if len(wallets) > 0 {
		slot := (chartAreaRight - chartAreaLeft) / float64(len(wallets))
		barWidth := slot - barSpacing
		for i, w := range wallets {
			barX := chartAreaLeft + float64(i)*slot + barSpacing/2
			barHeight := shares[i] / maxShare * chartAreaHeight
			barY := chartAreaBottom - barHeight

			dc.SetColor(barColor)
			dc.DrawRectangle(barX, barY, barWidth, barHeight)
			dc.Fill()

			dc.SetColor(color.White)
			setFontSize(barValueFontSize)
			valueText := w.Percentage + "%"
			textWidth, _ := dc.MeasureString(valueText)
			dc.DrawString(valueText, barX+(barWidth-textWidth)/2, barY-barValueOffsetY)

			setFontSize(labelFontSize)
			label := fmt.Sprintf("#%d %s", w.Rank, shortWallet(w.Wallet))
			labelWidth, _ := dc.MeasureString(label)
			dc.DrawString(label, barX+(barWidth-labelWidth)/2, chartAreaBottom+labelOffsetY)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("chart is empty after rendering")
	}

	logging.LogDebug("Holders chart rendered",
		zap.Int("bars", len(wallets)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// loadFont returns the path of the face it loaded, or "" when none could be loaded.
func (c HoldersChart) loadFont(dc *gg.Context) string {
	paths := defaultFontPaths
	if c.FontPath != "" {
		paths = append([]string{c.FontPath}, defaultFontPaths...)
	}
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := dc.LoadFontFace(p, titleFontSize); err != nil {
			logging.LogWarn("Font file exists but failed to load", zap.String("path", p), zap.Error(err))
			continue
		}
		return p
	}
	logging.LogDebug("No font loaded, using built-in face", zap.Int("paths_checked", len(paths)))
	return ""
}

// shortWallet keeps the first and last 4 characters of long addresses.
func shortWallet(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:4] + "..." + wallet[len(wallet)-4:]
}

package tg_charts

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"uranus-analytics/internal/features/holders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNG_DecodesToChartSize(t *testing.T) {
	wallets := []holders.TopHolderRecord{
		{Rank: 1, Wallet: "BFgdzMkTPdKKJeTipv2njtDEwhKxkgFueJQfJGt1jups", Percentage: "12.50"},
		{Rank: 2, Wallet: "W2", Percentage: "7.25"},
		{Rank: 3, Wallet: "W3", Percentage: "0.00"},
	}
	chart := HoldersChart{Title: "URANUS top holders", FontPath: filepath.Join(t.TempDir(), "missing.ttf")}

	raw, err := chart.RenderPNG(wallets)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight, img.Bounds().Dy())
}

func TestRenderPNG_EmptyLeaderboard(t *testing.T) {
	raw, err := HoldersChart{}.RenderPNG(nil)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestShortWallet(t *testing.T) {
	assert.Equal(t, "BFgd...jups", shortWallet("BFgdzMkTPdKKJeTipv2njtDEwhKxkgFueJQfJGt1jups"))
	assert.Equal(t, "short", shortWallet("short"))
}

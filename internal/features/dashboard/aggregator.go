package dashboard

// Builds the dashboard record from three upstream documents
// token (required) -> top holders + holder chart (optional, fetched concurrently)
// Optional failures downgrade one field to synthetic data; a token failure downgrades the whole record

import (
	"context"
	"fmt"
	"sync"
	"time"

	"uranus-analytics/internal/features/holders"
	"uranus-analytics/internal/features/synthetic"
	"uranus-analytics/internal/infra/log"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Source is the subset of the upstream client the aggregator needs.
type Source interface {
	GetToken(ctx context.Context, address string) ([]byte, error)
	GetTopHolders(ctx context.Context, address string) ([]byte, error)
	GetHolderChart(ctx context.Context, address string) ([]byte, error)
}

// Feature names used in Degradation.
const (
	FeatureToken         = "token"
	FeatureTokenShape    = "token_shape"
	FeatureTopHolders    = "top_holders"
	FeatureHoldersGrowth = "holders_growth"
)

// Degradation records one part of the record that is not real upstream data.
type Degradation struct {
	Feature string `json:"feature"`
	Reason  string `json:"reason"`
}

// Result keeps the degradation decision visible next to the record.
// volumeGrowth is always synthetic and is not listed.
type Result struct {
	Record       Record
	Degradations []Degradation
}

func (r Result) Degraded() bool { return len(r.Degradations) > 0 }

// Synthetic reports whether the whole record is the fallback record.
func (r Result) Synthetic() bool {
	for _, d := range r.Degradations {
		if d.Feature == FeatureToken {
			return true
		}
	}
	return false
}

type Options struct {
	Address          string
	FetchTopHolders  bool
	FetchHolderChart bool
	Rand             synthetic.Source
	Now              func() time.Time
}

type Aggregator struct {
	source Source
	opts   Options

	degradedLog rate.Sometimes
}

func NewAggregator(source Source, opts Options) *Aggregator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Rand = synthetic.Or(opts.Rand)
	return &Aggregator{
		source:      source,
		opts:        opts,
		degradedLog: rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// BuildDashboard always returns a fully populated record.
func (a *Aggregator) BuildDashboard(ctx context.Context) Record {
	return a.Build(ctx).Record
}

// Build fetches, normalizes and merges. It never returns an error: every failure
// ends up as a Degradation with synthetic data in its place.
func (a *Aggregator) Build(ctx context.Context) (res Result) {
	startTime := time.Now()
	defer func() {
		if p := recover(); p != nil {
			log.LogError("Dashboard build panicked, serving fallback", zap.Any("panic", p))
			res = a.fallback(fmt.Sprintf("panic: %v", p))
		}
		if res.Degraded() {
			a.degradedLog.Do(func() {
				log.LogError("Serving degraded dashboard data",
					zap.Any("degradations", res.Degradations),
					zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))
			})
		}
	}()

	tokenDoc, err := a.source.GetToken(ctx, a.opts.Address)
	if err != nil {
		log.LogWarn("Token fetch failed, serving fallback dashboard", zap.String("address", a.opts.Address), zap.Error(err))
		return a.fallback(err.Error())
	}

	var degradations []Degradation
	if !hasTokenShape(tokenDoc) {
		degradations = append(degradations, Degradation{Feature: FeatureTokenShape, Reason: "token document has no token object"})
	}

	var (
		wg        sync.WaitGroup
		topRaw    []byte
		topErr    error
		chartRaw  []byte
		chartErr  error
		chartSkip bool
		topSkip   bool
	)

	if a.opts.FetchTopHolders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			topRaw, topErr = a.source.GetTopHolders(ctx, a.opts.Address)
		}()
	} else {
		topSkip = true
	}
	if a.opts.FetchHolderChart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chartRaw, chartErr = a.source.GetHolderChart(ctx, a.opts.Address)
		}()
	} else {
		chartSkip = true
	}
	wg.Wait()

	topWallets, topSynthetic := a.topHolders(topRaw, topErr, topSkip)
	if topSynthetic != "" {
		degradations = append(degradations, Degradation{Feature: FeatureTopHolders, Reason: topSynthetic})
	}

	growth := a.holdersGrowth(chartRaw, chartErr, chartSkip)
	if growth.Synthetic {
		degradations = append(degradations, Degradation{Feature: FeatureHoldersGrowth, Reason: growth.Reason})
	}

	record := Merge(tokenDoc, Parts{
		TopWallets:    topWallets,
		HoldersGrowth: growth.Percent,
		VolumeGrowth:  synthetic.VolumeGrowth(a.opts.Rand),
		Now:           a.opts.Now(),
	})

	log.LogDebug("Dashboard built",
		zap.String("symbol", record.TokenSymbol),
		zap.Int("top_wallets", len(record.TopWallets)),
		zap.Int("degradations", len(degradations)))

	return Result{Record: record, Degradations: degradations}
}

// topHolders returns the leaderboard and, when it is synthetic, the reason.
func (a *Aggregator) topHolders(raw []byte, err error, skipped bool) ([]holders.TopHolderRecord, string) {
	normalizer := holders.TopHoldersNormalizer{Rand: a.opts.Rand}
	switch {
	case skipped:
		return normalizer.Synthetic(), "top holders fetch disabled"
	case err != nil:
		log.LogWarn("Top holders fetch failed, using synthetic leaderboard", zap.Error(err))
		return normalizer.Synthetic(), err.Error()
	}
	records, isSynthetic := normalizer.Normalize(raw)
	if isSynthetic {
		return records, "top holders response is not a list"
	}
	return records, ""
}

func (a *Aggregator) holdersGrowth(raw []byte, err error, skipped bool) holders.Growth {
	estimator := holders.GrowthEstimator{Now: a.opts.Now, Rand: a.opts.Rand}
	switch {
	case skipped:
		g := estimator.Estimate(nil)
		g.Reason = "holder chart fetch disabled"
		return g
	case err != nil:
		log.LogWarn("Holder chart fetch failed, using synthetic growth", zap.Error(err))
		g := estimator.Estimate(nil)
		g.Reason = err.Error()
		return g
	}
	series, _ := holders.ParseHolderSeries(raw)
	return estimator.Estimate(series)
}

func (a *Aggregator) fallback(reason string) Result {
	return Result{
		Record:       FallbackRecord(a.opts.Rand, a.opts.Now()),
		Degradations: []Degradation{{Feature: FeatureToken, Reason: reason}},
	}
}

package valuation

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Resolver finds the rates in force for a category on a date or over a window
type Resolver struct {
	store RateStore
}

// NewResolver creates a resolver reading from store
func NewResolver(store RateStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveAt returns the rate effective on date. When several windows contain
// the date the latest EffectiveFrom wins, then the latest CreatedAt, then the
// greater id. found is false when no rate covers the date.
func (r *Resolver) ResolveAt(ctx context.Context, categoryID uuid.UUID, assetType string, date civil.Date) (rate *DepreciationRate, found bool, err error) {
	rates, err := r.candidates(ctx, categoryID, assetType)
	if err != nil {
		return nil, false, err
	}

	best := winnerOn(rates, date)
	if best == nil {
		return nil, false, nil
	}
	return best, true, nil
}

// RatePeriod is a stretch of days charged under a single rate. From and To
// are inclusive.
type RatePeriod struct {
	Rate DepreciationRate
	From civil.Date
	To   civil.Date
}

// Schedule splits [from, to] into consecutive periods, each charged under the
// rate ResolveAt would return for its days. A newer overlapping rate takes
// over from its EffectiveFrom; an older one resumes once the newer window
// closes. Days no rate covers are left out.
func (r *Resolver) Schedule(ctx context.Context, categoryID uuid.UUID, assetType string, from, to civil.Date) ([]RatePeriod, error) {
	rates, err := r.ResolveOverlapping(ctx, categoryID, assetType, from, to)
	if err != nil || len(rates) == 0 {
		return nil, err
	}

	// coverage only changes where a window opens or the day after one closes
	bounds := []civil.Date{from}
	for _, rate := range rates {
		if rate.EffectiveFrom.After(from) {
			bounds = append(bounds, rate.EffectiveFrom)
		}
		if rate.EffectiveTo != nil && rate.EffectiveTo.Before(to) {
			bounds = append(bounds, rate.EffectiveTo.AddDays(1))
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })

	var periods []RatePeriod
	for i, start := range bounds {
		if i > 0 && start == bounds[i-1] {
			continue
		}
		end := to
		for _, next := range bounds[i+1:] {
			if next.After(start) {
				end = next.AddDays(-1)
				break
			}
		}

		best := winnerOn(rates, start)
		if best == nil {
			continue
		}
		if n := len(periods); n > 0 && periods[n-1].Rate.ID == best.ID && periods[n-1].To.AddDays(1) == start {
			periods[n-1].To = end
			continue
		}
		periods = append(periods, RatePeriod{Rate: *best, From: start, To: end})
	}
	return periods, nil
}

// winnerOn returns the rate covering date with the latest EffectiveFrom,
// CreatedAt and id, or nil
func winnerOn(rates []DepreciationRate, date civil.Date) *DepreciationRate {
	var best *DepreciationRate
	for i := range rates {
		c := &rates[i]
		if !c.Covers(date) {
			continue
		}
		if best == nil || precedes(best, c) {
			best = c
		}
	}
	return best
}

// ResolveOverlapping returns every rate whose window intersects [from, to],
// ascending by EffectiveFrom
func (r *Resolver) ResolveOverlapping(ctx context.Context, categoryID uuid.UUID, assetType string, from, to civil.Date) ([]DepreciationRate, error) {
	if to.Before(from) {
		return nil, nil
	}
	rates, err := r.candidates(ctx, categoryID, assetType)
	if err != nil {
		return nil, err
	}

	overlapping := make([]DepreciationRate, 0, len(rates))
	for _, c := range rates {
		if c.Intersects(from, to) {
			overlapping = append(overlapping, c)
		}
	}
	sort.SliceStable(overlapping, func(i, j int) bool {
		return precedes(&overlapping[i], &overlapping[j])
	})
	return overlapping, nil
}

func (r *Resolver) candidates(ctx context.Context, categoryID uuid.UUID, assetType string) ([]DepreciationRate, error) {
	rates, err := r.store.RatesFor(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load rates for category %s: %w", categoryID, err)
	}
	return narrowByAssetType(rates, assetType), nil
}

// narrowByAssetType keeps the rates of the asset type, or the untyped rates
// when the category defines none for it. An empty asset type keeps everything.
func narrowByAssetType(rates []DepreciationRate, assetType string) []DepreciationRate {
	if assetType == "" {
		return rates
	}
	var typed, generic []DepreciationRate
	for _, rate := range rates {
		switch rate.AssetType {
		case assetType:
			typed = append(typed, rate)
		case "":
			generic = append(generic, rate)
		}
	}
	if len(typed) > 0 {
		return typed
	}
	return generic
}

// precedes orders rates by EffectiveFrom, CreatedAt and id
func precedes(a, b *DepreciationRate) bool {
	if a.EffectiveFrom != b.EffectiveFrom {
		return a.EffectiveFrom.Before(b.EffectiveFrom)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

package asset

import (
	"context"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// DashboardService assembles the register overview
type DashboardService struct {
	assetRepo    asset.AssetRepository
	purchaseRepo asset.PurchaseRepository
	userRepo     identity.UserRepository
	population   valuation.AssetPopulation
	today        appval.Clock
	windowDays   int
}

// NewDashboardService creates a new DashboardService. Warranties expiring
// within windowDays of today count as expiring soon.
func NewDashboardService(
	assetRepo asset.AssetRepository,
	purchaseRepo asset.PurchaseRepository,
	userRepo identity.UserRepository,
	population valuation.AssetPopulation,
	today appval.Clock,
	windowDays int,
) *DashboardService {
	return &DashboardService{
		assetRepo:    assetRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		population:   population,
		today:        today,
		windowDays:   windowDays,
	}
}

// Stats returns the dashboard figures
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.assetRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.assetRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	expiring, err := s.purchaseRepo.CountExpiringBetween(ctx, today, today.AddDays(s.windowDays))
	if err != nil {
		return nil, err
	}
	expired, err := s.purchaseRepo.CountExpiredBefore(ctx, today)
	if err != nil {
		return nil, err
	}
	totalValue, err := s.purchaseRepo.SumPurchasePrice(ctx)
	if err != nil {
		return nil, err
	}
	latestValue, err := s.latestPurchaseTotal(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:               users,
		AssetsByStatus:           make(map[string]int64, len(byStatus)),
		AssetsByCategory:         byCategory,
		WarrantiesExpiringSoon:   expiring,
		WarrantiesExpired:        expired,
		TotalPurchaseValue:       totalValue,
		TotalLatestPurchaseValue: latestValue,
	}
	for status, n := range byStatus {
		stats.AssetsByStatus[status.String()] = n
		stats.TotalAssets += n
	}
	stats.AssignedAssets = byStatus[asset.StatusAssigned]
	stats.UnassignedAssets = byStatus[asset.StatusAvailable]
	return stats, nil
}

// latestPurchaseTotal sums the price of each asset's most recent purchase
func (s *DashboardService) latestPurchaseTotal(ctx context.Context) (decimal.Decimal, error) {
	holdings, err := s.population.ValuedAssets(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, h := range holdings {
		var latest *asset.PurchaseRecord
		for i := range h.Purchases {
			p := &h.Purchases[i]
			if latest == nil ||
				p.PurchaseDate.After(latest.PurchaseDate) ||
				(p.PurchaseDate == latest.PurchaseDate && p.CreatedAt.After(latest.CreatedAt)) {
				latest = p
			}
		}
		if latest != nil {
			total = total.Add(latest.PurchasePrice)
		}
	}
	return total, nil
}

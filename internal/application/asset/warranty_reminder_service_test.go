package asset

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishWarrantyNotification(ctx context.Context, n WarrantyNotification) error {
	return m.Called(ctx, n).Error(0)
}

func TestWarrantyReminderService_Run(t *testing.T) {
	ctx := context.Background()
	today := day(2024, time.May, 10)
	windowEnd := day(2024, time.June, 9)

	newExpiring := func(t *testing.T, a *asset.Asset, invoice string) asset.PurchaseRecord {
		expiry := day(2024, time.May, 20)
		p, err := asset.NewPurchaseRecord(asset.NewPurchaseInput{
			AssetID:        a.ID,
			PurchasePrice:  decimal.NewFromInt(100),
			PurchaseDate:   day(2023, time.May, 20),
			InvoiceNumber:  invoice,
			WarrantyMonths: 12,
			ExpiryDate:     &expiry,
			Notify:         true,
		})
		require.NoError(t, err)
		return *p
	}

	admin := identity.User{Email: "admin@example.com", Role: identity.RoleAdmin, Active: true}
	holder := activeUser("holder@example.com")

	assigned := newTestAsset(t, uuid.New())
	require.NoError(t, assigned.AssignTo(holder.ID, nil))
	unassigned := newTestAsset(t, uuid.New())
	disposed := newTestAsset(t, uuid.New())
	require.NoError(t, disposed.MarkDisposed(day(2024, time.January, 1), "", nil))

	purchases := new(MockPurchaseRepository)
	assets := new(MockAssetRepository)
	users := new(MockUserRepository)
	publisher := new(MockNotificationPublisher)

	purchases.On("FindExpiringBetween", ctx, today, windowEnd).Return([]asset.PurchaseRecord{
		newExpiring(t, assigned, "INV-1"),
		newExpiring(t, unassigned, "INV-2"),
		newExpiring(t, disposed, "INV-3"),
	}, nil)
	users.On("FindAdmins", ctx).Return([]identity.User{admin}, nil)
	users.On("FindByID", ctx, holder.ID).Return(holder, nil)
	assets.On("FindByID", ctx, assigned.ID).Return(assigned, nil)
	assets.On("FindByID", ctx, unassigned.ID).Return(unassigned, nil)
	assets.On("FindByID", ctx, disposed.ID).Return(disposed, nil)

	publisher.On("PublishWarrantyNotification", ctx, mock.MatchedBy(func(n WarrantyNotification) bool {
		return n.InvoiceNumber == "INV-1"
	})).Return(nil).Run(func(args mock.Arguments) {
		n := args.Get(1).(WarrantyNotification)
		assert.Equal(t, []string{"holder@example.com"}, n.To)
		assert.Equal(t, []string{"admin@example.com"}, n.Cc)
		assert.Equal(t, "Asset Expiry Alert: ThinkPad T14", n.Subject)
		assert.Contains(t, n.Body, "expiring on 2024-05-20")
		assert.False(t, n.Unassigned)
	})
	publisher.On("PublishWarrantyNotification", ctx, mock.MatchedBy(func(n WarrantyNotification) bool {
		return n.InvoiceNumber == "INV-2"
	})).Return(errors.New("broker down")).Run(func(args mock.Arguments) {
		n := args.Get(1).(WarrantyNotification)
		assert.Equal(t, []string{"admin@example.com"}, n.To)
		assert.Empty(t, n.Cc)
		assert.Equal(t, "[Unassigned] Asset Expiry Alert: ThinkPad T14", n.Subject)
		assert.Contains(t, n.Body, "currently unassigned")
		assert.True(t, n.Unassigned)
	})

	svc := NewWarrantyReminderService(purchases, assets, users, publisher,
		func() civil.Date { return today }, 30, "[Unassigned]", zap.NewNop())

	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Expiring)
	assert.Equal(t, 1, result.Published)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	publisher.AssertNumberOfCalls(t, "PublishWarrantyNotification", 2)
}

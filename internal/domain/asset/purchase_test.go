package asset

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPurchaseInput() NewPurchaseInput {
	return NewPurchaseInput{
		AssetID:        uuid.New(),
		PurchasePrice:  decimal.NewFromInt(100000),
		PurchaseDate:   civil.Date{Year: 2023, Month: 4, Day: 1},
		VendorName:     " Acme Traders ",
		InvoiceNumber:  "INV-001",
		WarrantyMonths: 12,
		Notify:         true,
	}
}

func TestNewPurchaseRecord(t *testing.T) {
	t.Run("creates record and derives expiry from warranty", func(t *testing.T) {
		p, err := NewPurchaseRecord(validPurchaseInput())
		require.NoError(t, err)

		assert.Equal(t, "Acme Traders", p.VendorName)
		assert.Equal(t, 1, p.Quantity)
		require.NotNil(t, p.ExpiryDate)
		assert.Equal(t, civil.Date{Year: 2024, Month: 4, Day: 1}, *p.ExpiryDate)
		assert.Nil(t, p.StolenSnapshot)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseRecorded, events[0].EventType())
	})

	t.Run("keeps explicit expiry", func(t *testing.T) {
		in := validPurchaseInput()
		expiry := civil.Date{Year: 2025, Month: 1, Day: 31}
		in.ExpiryDate = &expiry
		p, err := NewPurchaseRecord(in)
		require.NoError(t, err)
		assert.Equal(t, expiry, *p.ExpiryDate)
	})

	tests := []struct {
		name   string
		mutate func(in *NewPurchaseInput)
		msg    string
	}{
		{"zero price", func(in *NewPurchaseInput) { in.PurchasePrice = decimal.Zero }, "price must be positive"},
		{"negative price", func(in *NewPurchaseInput) { in.PurchasePrice = decimal.NewFromInt(-5) }, "price must be positive"},
		{"missing invoice", func(in *NewPurchaseInput) { in.InvoiceNumber = " " }, "Invoice number is required"},
		{"negative warranty", func(in *NewPurchaseInput) { in.WarrantyMonths = -1 }, "Warranty period"},
		{"negative quantity", func(in *NewPurchaseInput) { in.Quantity = -2 }, "Quantity"},
		{"missing asset", func(in *NewPurchaseInput) { in.AssetID = uuid.Nil }, "Asset is required"},
		{"expiry before purchase", func(in *NewPurchaseInput) {
			d := civil.Date{Year: 2023, Month: 3, Day: 1}
			in.ExpiryDate = &d
		}, "Expiry date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPurchaseInput()
			tt.mutate(&in)
			_, err := NewPurchaseRecord(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPurchaseRecord_RecordSnapshot(t *testing.T) {
	on := civil.Date{Year: 2024, Month: 1, Day: 10}

	t.Run("writes stolen snapshot once", func(t *testing.T) {
		p, err := NewPurchaseRecord(validPurchaseInput())
		require.NoError(t, err)

		require.NoError(t, p.RecordSnapshot(StatusStolen, decimal.NewFromInt(80000), on))
		snap := p.SnapshotFor(StatusStolen)
		require.NotNil(t, snap)
		assert.True(t, snap.Value.Equal(decimal.NewFromInt(80000)))
		assert.Equal(t, on, snap.TakenOn)
		assert.Nil(t, p.SnapshotFor(StatusDisposed))

		err = p.RecordSnapshot(StatusStolen, decimal.NewFromInt(1), on)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.True(t, p.StolenSnapshot.Value.Equal(decimal.NewFromInt(80000)))
	})

	t.Run("rejects non-terminal status", func(t *testing.T) {
		p, err := NewPurchaseRecord(validPurchaseInput())
		require.NoError(t, err)
		assert.ErrorIs(t, p.RecordSnapshot(StatusAssigned, decimal.Zero, on), shared.ErrInvalidState)
		assert.Nil(t, p.SnapshotFor(StatusAvailable))
	})
}

func TestPurchaseRecord_Warranty(t *testing.T) {
	p, err := NewPurchaseRecord(validPurchaseInput())
	require.NoError(t, err)

	assert.True(t, p.ExpiresBetween(civil.Date{Year: 2024, Month: 3, Day: 15}, civil.Date{Year: 2024, Month: 4, Day: 14}))
	assert.True(t, p.ExpiresBetween(civil.Date{Year: 2024, Month: 4, Day: 1}, civil.Date{Year: 2024, Month: 4, Day: 1}))
	assert.False(t, p.ExpiresBetween(civil.Date{Year: 2024, Month: 4, Day: 2}, civil.Date{Year: 2024, Month: 5, Day: 1}))
	assert.False(t, p.IsExpired(civil.Date{Year: 2024, Month: 4, Day: 1}))
	assert.True(t, p.IsExpired(civil.Date{Year: 2024, Month: 4, Day: 2}))

	require.Error(t, p.AttachBill("", nil))
	require.NoError(t, p.AttachBill("bills/inv-001.pdf", nil))
	assert.Equal(t, "bills/inv-001.pdf", p.BillKey)
}

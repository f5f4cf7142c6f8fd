package asset

import (
	"context"
	"errors"
	"testing"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateSummaries(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("ExistsByName", ctx, "Laptops").Return(false, nil)
		categories.On("Save", ctx, mock.AnythingOfType("*asset.Category")).Return(nil)
		svc := NewCategoryService(categories, new(MockAssetRepository), nil, zap.NewNop())

		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "Laptops"})
		require.NoError(t, err)
		assert.Equal(t, "Laptops", resp.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("ExistsByName", ctx, "Laptops").Return(true, nil)
		svc := NewCategoryService(categories, new(MockAssetRepository), nil, zap.NewNop())

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Laptops"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()
	category, err := asset.NewCategory("Laptops", "")
	require.NoError(t, err)

	t.Run("same name with different case skips the uniqueness check", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		categories.On("Save", ctx, category).Return(nil)
		svc := NewCategoryService(categories, new(MockAssetRepository), nil, zap.NewNop())

		resp, err := svc.Update(ctx, category.ID, UpdateCategoryRequest{Name: "laptops", Description: "portable"})
		require.NoError(t, err)
		assert.Equal(t, "portable", resp.Description)
		categories.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
	})

	t.Run("rename onto an existing name", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		categories.On("ExistsByName", ctx, "Monitors").Return(true, nil)
		svc := NewCategoryService(categories, new(MockAssetRepository), nil, zap.NewNop())

		_, err := svc.Update(ctx, category.ID, UpdateCategoryRequest{Name: "Monitors"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		inUse      bool
		force      bool
		wantDelete bool
		wantCode   string
	}{
		{name: "unused category", inUse: false, force: false, wantDelete: true},
		{name: "in use without force", inUse: true, force: false, wantCode: "INVALID_STATE"},
		{name: "in use with force", inUse: true, force: true, wantDelete: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			categories := new(MockCategoryRepository)
			assets := new(MockAssetRepository)
			invalidator := new(mockInvalidator)
			categories.On("FindByID", ctx, id).Return(&asset.Category{}, nil)
			assets.On("ExistsInCategory", ctx, id).Return(tt.inUse, nil)
			categories.On("Delete", ctx, id).Return(nil)
			invalidator.On("InvalidateSummaries", ctx).Return(nil)
			svc := NewCategoryService(categories, assets, invalidator, zap.NewNop())

			err := svc.Delete(ctx, id, tt.force)
			if tt.wantCode != "" {
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, tt.wantCode, domainErr.Code)
				categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			categories.AssertCalled(t, "Delete", ctx, id)
			invalidator.AssertExpectations(t)
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		id := uuid.New()
		categories := new(MockCategoryRepository)
		categories.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)
		svc := NewCategoryService(categories, new(MockAssetRepository), nil, zap.NewNop())

		assert.True(t, errors.Is(svc.Delete(ctx, id, true), shared.ErrNotFound))
	})
}

package asset

import (
	"context"
	"strings"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SummaryInvalidator drops cached valuation summaries
type SummaryInvalidator interface {
	InvalidateSummaries(ctx context.Context) error
}

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo asset.CategoryRepository
	assetRepo    asset.AssetRepository
	invalidator  SummaryInvalidator
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo asset.CategoryRepository,
	assetRepo asset.AssetRepository,
	invalidator SummaryInvalidator,
	zapLogger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
		invalidator:  invalidator,
		logger:       zapLogger.Named("category"),
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}

	category, err := asset.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves categories, ordered by name unless told otherwise
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) ([]CategoryResponse, int64, error) {
	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update renames or re-describes a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(req.Name), category.Name) {
		exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
		}
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. A category still referenced by assets is only
// removed when force is set; those assets are then reported at cost in
// valuations until they are moved to another category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.assetRepo.ExistsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse && !force {
		return shared.NewDomainError("INVALID_STATE", "Category has assets; move them first or delete with force")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	if inUse {
		s.logger.Warn("category deleted while assets still reference it",
			zap.String("category_id", id.String()))
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateSummaries(ctx); err != nil {
			s.logger.Error("failed to invalidate valuation summaries",
				zap.String("category_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

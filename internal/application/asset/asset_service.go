package asset

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetService handles the asset lifecycle
type AssetService struct {
	scope          TransactionScope
	assetRepo      asset.AssetRepository
	assignmentRepo asset.AssignmentRepository
	categoryRepo   asset.CategoryRepository
	userRepo       identity.UserRepository
	strategies     valuation.StrategyProvider
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(
	scope TransactionScope,
	assetRepo asset.AssetRepository,
	assignmentRepo asset.AssignmentRepository,
	categoryRepo asset.CategoryRepository,
	userRepo identity.UserRepository,
	strategies valuation.StrategyProvider,
	zapLogger *zap.Logger,
) *AssetService {
	return &AssetService{
		scope:          scope,
		assetRepo:      assetRepo,
		assignmentRepo: assignmentRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		strategies:     strategies,
		logger:         zapLogger.Named("asset"),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AssetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents publishes and clears the aggregate's pending events
func (s *AssetService) publishEvents(ctx context.Context, a *asset.Asset) {
	if s.eventPublisher == nil {
		return
	}
	events := a.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish asset events",
			zap.String("asset_id", a.ID.String()), zap.Error(err))
	}
	a.ClearDomainEvents()
}

// Create registers a new asset
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest, by *uuid.UUID) (*AssetResponse, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	a, err := asset.NewAsset(req.Name, req.Description, req.CategoryID, req.AssetType)
	if err != nil {
		return nil, err
	}
	if req.ImageKey != "" {
		a.SetImage(req.ImageKey)
	}
	a.LastModifiedBy = by

	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// GetByID retrieves an asset by ID
func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAssetResponse(a)
	return &resp, nil
}

// List retrieves assets matching the filter
func (s *AssetService) List(ctx context.Context, filter AssetListFilter) ([]AssetResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Status != "" {
		status := asset.Status(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown asset status "+filter.Status)
		}
		domainFilter.Filters["status"] = status
	}
	if filter.AssetType != "" {
		domainFilter.Filters["asset_type"] = filter.AssetType
	}
	if filter.AssignedTo != nil {
		domainFilter.Filters["assigned_to"] = *filter.AssignedTo
	}

	assets, total, err := s.assetRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AssetResponse, len(assets))
	for i := range assets {
		responses[i] = ToAssetResponse(&assets[i])
	}
	return responses, total, nil
}

// Update changes an asset's descriptive fields and category
func (s *AssetService) Update(ctx context.Context, id uuid.UUID, req UpdateAssetRequest, by *uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != a.CategoryID {
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := a.Update(req.Name, req.Description, req.CategoryID, req.AssetType, by); err != nil {
		return nil, err
	}
	if req.ImageKey != nil {
		a.SetImage(*req.ImageKey)
	}

	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// Assign hands an asset to an active user and records the history row
func (s *AssetService) Assign(ctx context.Context, id uuid.UUID, req AssignAssetRequest, by *uuid.UUID) (*AssetResponse, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT", "User not found")
		}
		return nil, err
	}
	if !user.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot assign an asset to an inactive user")
	}

	var a *asset.Asset
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		a, err = repos.Assets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if a.AssignedTo != nil && *a.AssignedTo == req.UserID {
			return shared.NewDomainError("INVALID_STATE", "Asset is already assigned to this user")
		}
		if previous := a.AssignedTo; previous != nil {
			// Reassignment closes the previous holder's row first.
			row := asset.NewAssignmentRecord(a.ID, *previous, asset.AssignmentActionReturned, by, "reassigned")
			if err := repos.Assignments().Save(ctx, row); err != nil {
				return err
			}
		}
		if err := a.AssignTo(req.UserID, by); err != nil {
			return err
		}
		if err := repos.Assets().Save(ctx, a); err != nil {
			return err
		}
		row := asset.NewAssignmentRecord(a.ID, req.UserID, asset.AssignmentActionAssigned, by, req.Notes)
		return repos.Assignments().Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// Return takes an asset back from its holder
func (s *AssetService) Return(ctx context.Context, id uuid.UUID, req ReturnAssetRequest, by *uuid.UUID) (*AssetResponse, error) {
	var a *asset.Asset
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		a, err = repos.Assets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous, err := a.Return(by)
		if err != nil {
			return err
		}
		if err := repos.Assets().Save(ctx, a); err != nil {
			return err
		}
		if previous == nil {
			return nil
		}
		row := asset.NewAssignmentRecord(a.ID, *previous, asset.AssignmentActionReturned, by, req.Notes)
		return repos.Assignments().Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// Deactivate takes an asset out of circulation
func (s *AssetService) Deactivate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*AssetResponse, error) {
	return s.transition(ctx, id, func(a *asset.Asset) error { return a.Deactivate(by) })
}

// Activate puts an inactive asset back into circulation
func (s *AssetService) Activate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*AssetResponse, error) {
	return s.transition(ctx, id, func(a *asset.Asset) error { return a.Activate(by) })
}

func (s *AssetService) transition(ctx context.Context, id uuid.UUID, apply func(a *asset.Asset) error) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// MarkStolen records a theft and freezes the value of every purchase record
// of the asset at its live value on the stolen date
func (s *AssetService) MarkStolen(ctx context.Context, id uuid.UUID, req MarkStolenRequest, by *uuid.UUID) (*AssetResponse, error) {
	return s.freeze(ctx, id, asset.StatusStolen, req.On, by, func(a *asset.Asset) error {
		return a.MarkStolen(req.On, req.ReportedBy, req.Notes, by)
	})
}

// MarkDisposed records a disposal and freezes the value of every purchase
// record of the asset at its live value on the disposal date
func (s *AssetService) MarkDisposed(ctx context.Context, id uuid.UUID, req MarkDisposedRequest, by *uuid.UUID) (*AssetResponse, error) {
	return s.freeze(ctx, id, asset.StatusDisposed, req.On, by, func(a *asset.Asset) error {
		return a.MarkDisposed(req.On, req.Notes, by)
	})
}

// freeze values the purchases under the asset's current status, applies the
// terminal transition and writes the snapshots, all in one transaction
func (s *AssetService) freeze(ctx context.Context, id uuid.UUID, status asset.Status, on civil.Date, by *uuid.UUID, apply func(a *asset.Asset) error) (*AssetResponse, error) {
	var a *asset.Asset
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		a, err = repos.Assets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Status.IsTerminal() {
			return shared.NewDomainError("INVALID_STATE", "Asset is already "+a.Status.String())
		}

		records, err := repos.Purchases().FindByAsset(ctx, a.ID)
		if err != nil {
			return err
		}
		engine := valuation.NewEngine(valuation.NewResolver(repos.Rates()), repos.Categories(), s.strategies)
		presenter := valuation.NewPresenter(engine)
		values := make([]valuation.Valuation, len(records))
		for i := range records {
			values[i], err = s.liveValue(ctx, presenter, records[i], a.Status, on)
			if err != nil {
				return err
			}
		}

		holder := a.AssignedTo
		if err := apply(a); err != nil {
			return err
		}
		if err := repos.Assets().Save(ctx, a); err != nil {
			return err
		}
		for i := range records {
			if err := records[i].RecordSnapshot(status, values[i].CurrentValue, on); err != nil {
				return err
			}
			records[i].LastChangedBy = by
			if err := repos.Purchases().Save(ctx, &records[i]); err != nil {
				return fmt.Errorf("save snapshot of purchase %s: %w", records[i].ID, err)
			}
		}
		if holder != nil {
			row := asset.NewAssignmentRecord(a.ID, *holder, asset.AssignmentActionReturned, by, "asset "+status.String())
			return repos.Assignments().Save(ctx, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a)

	resp := ToAssetResponse(a)
	return &resp, nil
}

// liveValue presents a purchase before the transition. A purchase that cannot
// be valued is frozen at its price, and the fallback is logged.
func (s *AssetService) liveValue(ctx context.Context, presenter *valuation.Presenter, record asset.PurchaseRecord, status asset.Status, on civil.Date) (valuation.Valuation, error) {
	v, err := presenter.Present(ctx, record, status, on)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, valuation.ErrCategoryNotFound) {
		return valuation.Valuation{}, err
	}
	s.logger.Warn("snapshot taken at cost, valuation unavailable",
		zap.String("purchase_id", record.ID.String()),
		zap.String("asset_id", record.AssetID.String()),
		zap.String("category_id", record.CategoryID.String()),
		zap.Error(err),
	)
	return valuation.Valuation{
		PurchaseID:    record.ID,
		AsOf:          on,
		Status:        status,
		PurchasePrice: valuation.Round(record.PurchasePrice),
		CurrentValue:  valuation.Round(record.PurchasePrice),
	}, nil
}

// History returns the assignment history of an asset, newest first
func (s *AssetService) History(ctx context.Context, id uuid.UUID) ([]AssignmentResponse, error) {
	if _, err := s.assetRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.assignmentRepo.FindByAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]AssignmentResponse, len(rows))
	for i := range rows {
		responses[i] = ToAssignmentResponse(&rows[i])
	}
	return responses, nil
}

func (s *AssetService) requireCategory(ctx context.Context, categoryID uuid.UUID) error {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError(valuation.ErrCategoryNotFound.Code,
			fmt.Sprintf("Category %s not found", categoryID))
	}
	return nil
}

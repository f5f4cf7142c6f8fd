package asset

import (
	"context"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseService records acquisitions and serves them with their live valuation
type PurchaseService struct {
	purchaseRepo   asset.PurchaseRepository
	assetRepo      asset.AssetRepository
	valuations     *appval.Service
	storage        ObjectStorageService
	layout         StorageLayout
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo asset.PurchaseRepository,
	assetRepo asset.AssetRepository,
	valuations *appval.Service,
	storage ObjectStorageService,
	layout StorageLayout,
	zapLogger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		assetRepo:    assetRepo,
		valuations:   valuations,
		storage:      storage,
		layout:       layout,
		logger:       zapLogger.Named("purchase"),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a purchase for an asset. Invoice numbers are unique.
func (s *PurchaseService) Create(ctx context.Context, assetID uuid.UUID, req CreatePurchaseRequest, by *uuid.UUID) (*PurchaseResponse, error) {
	owner, err := s.assetRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if owner.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Purchases cannot be recorded for a "+owner.Status.String()+" asset")
	}

	exists, err := s.purchaseRepo.ExistsByInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number "+req.InvoiceNumber+" is already recorded")
	}

	record, err := asset.NewPurchaseRecord(asset.NewPurchaseInput{
		AssetID:        assetID,
		PurchasePrice:  req.PurchasePrice,
		PurchaseDate:   req.PurchaseDate,
		VendorName:     req.VendorName,
		InvoiceNumber:  req.InvoiceNumber,
		Quantity:       req.Quantity,
		WarrantyMonths: req.WarrantyMonths,
		ExpiryDate:     req.ExpiryDate,
		Notify:         req.Notify,
		Description:    req.Description,
		CreatedBy:      by,
	})
	if err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, record)

	record.CategoryID = owner.CategoryID
	record.AssetType = owner.AssetType
	out, err := s.present(ctx, []asset.PurchaseRecord{*record}, owner.Status)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// GetByID retrieves a purchase record with its valuation as of today
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	record, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.assetRepo.FindByID(ctx, record.AssetID)
	if err != nil {
		return nil, err
	}
	out, err := s.present(ctx, []asset.PurchaseRecord{*record}, owner.Status)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListByAsset returns the purchase records of an asset, latest first
func (s *PurchaseService) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]PurchaseResponse, error) {
	owner, err := s.assetRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	records, err := s.purchaseRepo.FindByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, records, owner.Status)
}

// List returns purchase records matching the filter
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.AssetID != nil {
		domainFilter.Filters["asset_id"] = *filter.AssetID
	}
	if filter.VendorName != "" {
		domainFilter.Filters["vendor_name"] = filter.VendorName
	}

	records, total, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Records are valued per owning asset since status lives on the asset.
	statuses := make(map[uuid.UUID]asset.Status)
	out := make([]PurchaseResponse, 0, len(records))
	for i := range records {
		status, ok := statuses[records[i].AssetID]
		if !ok {
			owner, err := s.assetRepo.FindByID(ctx, records[i].AssetID)
			if err != nil {
				return nil, 0, err
			}
			status = owner.Status
			statuses[owner.ID] = status
		}
		presented, err := s.present(ctx, records[i:i+1], status)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, presented...)
	}
	return out, total, nil
}

// BillUploadURL issues a presigned upload URL and attaches its key to the record
func (s *PurchaseService) BillUploadURL(ctx context.Context, id uuid.UUID, req UploadURLRequest, by *uuid.UUID) (*BillURLResponse, error) {
	if err := checkContentType(billContentTypes, req.ContentType); err != nil {
		return nil, err
	}
	record, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storageKey(s.layout.BillPrefix, record.ID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.layout.PresignExpiry)
	if err != nil {
		s.logger.Error("failed to generate bill upload url",
			zap.String("purchase_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	if err := record.AttachBill(key, by); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	return &BillURLResponse{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}

// BillDownloadURL issues a presigned download URL for an uploaded bill
func (s *PurchaseService) BillDownloadURL(ctx context.Context, id uuid.UUID) (*BillURLResponse, error) {
	record, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.BillKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "No bill uploaded for this purchase")
	}

	exists, err := s.storage.ObjectExists(ctx, record.BillKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Bill file not found in storage")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, record.BillKey, s.layout.PresignExpiry)
	if err != nil {
		return nil, err
	}
	return &BillURLResponse{URL: url, Key: record.BillKey, ExpiresAt: expiresAt}, nil
}

// ImageUploadURL issues a presigned upload URL for an asset picture and
// records its key on the asset
func (s *PurchaseService) ImageUploadURL(ctx context.Context, assetID uuid.UUID, req UploadURLRequest) (*BillURLResponse, error) {
	if err := checkContentType(imageContentTypes, req.ContentType); err != nil {
		return nil, err
	}
	owner, err := s.assetRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	key := storageKey(s.layout.ImagePrefix, owner.ID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.layout.PresignExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	owner.SetImage(key)
	if err := s.assetRepo.Save(ctx, owner); err != nil {
		return nil, err
	}
	return &BillURLResponse{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}

func (s *PurchaseService) present(ctx context.Context, records []asset.PurchaseRecord, status asset.Status) ([]PurchaseResponse, error) {
	valuations, err := s.valuations.PresentRecords(ctx, records, status, nil)
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseResponse, len(records))
	for i := range records {
		out[i] = ToPurchaseResponse(&records[i], valuations[i])
	}
	return out, nil
}

func (s *PurchaseService) publishEvents(ctx context.Context, record *asset.PurchaseRecord) {
	if s.eventPublisher == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish purchase events",
			zap.String("purchase_id", record.ID.String()), zap.Error(err))
	}
	record.ClearDomainEvents()
}

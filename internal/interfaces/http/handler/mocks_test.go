package handler

import (
	"context"
	"io"

	"cloud.google.com/go/civil"
	assetapp "github.com/assetreg/backend/internal/application/asset"
	"github.com/assetreg/backend/internal/application/identity"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*identity.RefreshResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.RefreshResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identity.UserDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserDTO), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, input identity.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockPasswordResetService implements PasswordResetService for testing
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockPasswordResetService) ValidateCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, input identity.ResetPasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*identity.UserDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserDTO), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, req identity.CreateUserRequest) (*identity.UserDTO, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) List(ctx context.Context, filter identity.UserListFilter) ([]identity.UserDTO, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.UserDTO), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, req identity.UpdateUserRequest) (*identity.UserDTO, error) {
	return m.user(m.Called(ctx, id, req))
}

func (m *MockUserService) Activate(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*identity.UserDTO, error) {
	return m.user(m.Called(ctx, id, actorID))
}

func (m *MockUserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	return m.Called(ctx, id, newPassword).Error(0)
}

// MockCategoryService implements CategoryService for testing
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) category(args mock.Arguments) (*assetapp.CategoryResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req assetapp.CreateCategoryRequest) (*assetapp.CategoryResponse, error) {
	return m.category(m.Called(ctx, req))
}

func (m *MockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*assetapp.CategoryResponse, error) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCategoryService) List(ctx context.Context, filter shared.Filter) ([]assetapp.CategoryResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]assetapp.CategoryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, req assetapp.UpdateCategoryRequest) (*assetapp.CategoryResponse, error) {
	return m.category(m.Called(ctx, id, req))
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	return m.Called(ctx, id, force).Error(0)
}

// MockRateService implements RateService for testing
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) write(args mock.Arguments) (*appval.RateWriteResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appval.RateWriteResponse), args.Error(1)
}

func (m *MockRateService) Create(ctx context.Context, req appval.RateRequest) (*appval.RateWriteResponse, error) {
	return m.write(m.Called(ctx, req))
}

func (m *MockRateService) Update(ctx context.Context, id uuid.UUID, req appval.RateRequest) (*appval.RateWriteResponse, error) {
	return m.write(m.Called(ctx, id, req))
}

func (m *MockRateService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRateService) GetByID(ctx context.Context, id uuid.UUID) (*appval.RateResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appval.RateResponse), args.Error(1)
}

func (m *MockRateService) List(ctx context.Context, filter appval.RateListFilter) ([]appval.RateResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appval.RateResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockRateService) ForCategoryAndFinancialYear(ctx context.Context, categoryID uuid.UUID, label string) ([]appval.RateResponse, error) {
	args := m.Called(ctx, categoryID, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appval.RateResponse), args.Error(1)
}

func (m *MockRateService) Resolve(ctx context.Context, categoryID uuid.UUID, assetType string, date civil.Date) (*appval.RateResolutionResponse, error) {
	args := m.Called(ctx, categoryID, assetType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appval.RateResolutionResponse), args.Error(1)
}

// MockAssetService implements AssetService for testing
type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) asset(args mock.Arguments) (*assetapp.AssetResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.AssetResponse), args.Error(1)
}

func (m *MockAssetService) Create(ctx context.Context, req assetapp.CreateAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, req, by))
}

func (m *MockAssetService) GetByID(ctx context.Context, id uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id))
}

func (m *MockAssetService) List(ctx context.Context, filter assetapp.AssetListFilter) ([]assetapp.AssetResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]assetapp.AssetResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetService) Update(ctx context.Context, id uuid.UUID, req assetapp.UpdateAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, req, by))
}

func (m *MockAssetService) Assign(ctx context.Context, id uuid.UUID, req assetapp.AssignAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, req, by))
}

func (m *MockAssetService) Return(ctx context.Context, id uuid.UUID, req assetapp.ReturnAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, req, by))
}

func (m *MockAssetService) Deactivate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, by))
}

func (m *MockAssetService) Activate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, by))
}

func (m *MockAssetService) MarkStolen(ctx context.Context, id uuid.UUID, req assetapp.MarkStolenRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, req, by))
}

func (m *MockAssetService) MarkDisposed(ctx context.Context, id uuid.UUID, req assetapp.MarkDisposedRequest, by *uuid.UUID) (*assetapp.AssetResponse, error) {
	return m.asset(m.Called(ctx, id, req, by))
}

func (m *MockAssetService) History(ctx context.Context, id uuid.UUID) ([]assetapp.AssignmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assetapp.AssignmentResponse), args.Error(1)
}

// MockPurchaseService implements PurchaseService and ImageURLIssuer for testing
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) purchase(args mock.Arguments) (*assetapp.PurchaseResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.PurchaseResponse), args.Error(1)
}

func (m *MockPurchaseService) url(args mock.Arguments) (*assetapp.BillURLResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.BillURLResponse), args.Error(1)
}

func (m *MockPurchaseService) Create(ctx context.Context, assetID uuid.UUID, req assetapp.CreatePurchaseRequest, by *uuid.UUID) (*assetapp.PurchaseResponse, error) {
	return m.purchase(m.Called(ctx, assetID, req, by))
}

func (m *MockPurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*assetapp.PurchaseResponse, error) {
	return m.purchase(m.Called(ctx, id))
}

func (m *MockPurchaseService) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]assetapp.PurchaseResponse, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assetapp.PurchaseResponse), args.Error(1)
}

func (m *MockPurchaseService) List(ctx context.Context, filter assetapp.PurchaseListFilter) ([]assetapp.PurchaseResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]assetapp.PurchaseResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseService) BillUploadURL(ctx context.Context, id uuid.UUID, req assetapp.UploadURLRequest, by *uuid.UUID) (*assetapp.BillURLResponse, error) {
	return m.url(m.Called(ctx, id, req, by))
}

func (m *MockPurchaseService) BillDownloadURL(ctx context.Context, id uuid.UUID) (*assetapp.BillURLResponse, error) {
	return m.url(m.Called(ctx, id))
}

func (m *MockPurchaseService) ImageUploadURL(ctx context.Context, assetID uuid.UUID, req assetapp.UploadURLRequest) (*assetapp.BillURLResponse, error) {
	return m.url(m.Called(ctx, assetID, req))
}

// MockValuationService implements ValuationService for testing
type MockValuationService struct {
	mock.Mock
}

func (m *MockValuationService) Today() civil.Date {
	return m.Called().Get(0).(civil.Date)
}

func (m *MockValuationService) FinancialYearOf(d civil.Date) appval.FinancialYearResponse {
	return m.Called(d).Get(0).(appval.FinancialYearResponse)
}

func (m *MockValuationService) PresentPurchase(ctx context.Context, purchaseID uuid.UUID, asOf *civil.Date) (*appval.PurchaseValuationResponse, error) {
	args := m.Called(ctx, purchaseID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appval.PurchaseValuationResponse), args.Error(1)
}

func (m *MockValuationService) SummaryForFiscalYear(ctx context.Context, label string) (*appval.SummaryResponse, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appval.SummaryResponse), args.Error(1)
}

func (m *MockValuationService) SummaryForRange(ctx context.Context, start, end string) ([]appval.SummaryResponse, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appval.SummaryResponse), args.Error(1)
}

func (m *MockValuationService) ExportFinancialYearCSV(ctx context.Context, label string, w io.Writer) error {
	args := m.Called(ctx, label, w)
	if body, ok := args.Get(1).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}

// MockDashboardService implements DashboardService for testing
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context) (*assetapp.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.DashboardStats), args.Error(1)
}

// MockJobController implements JobController for testing
type MockJobController struct {
	mock.Mock
}

func (m *MockJobController) Status() []scheduler.JobState {
	return m.Called().Get(0).([]scheduler.JobState)
}

func (m *MockJobController) TriggerNow(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

package service

import (
	"context"
	"fmt"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
)

// PromoCodeService validates, prices and administers enterable discount
// codes. Validation is read-only; usage is recorded by a separate explicit
// call once a calculation has been committed.
type PromoCodeService interface {
	CreateCode(ctx context.Context, code *discountcode.DiscountCode) (*discountcode.DiscountCode, error)
	GetCode(ctx context.Context, id string) (*discountcode.DiscountCode, error)
	ListCodes(ctx context.Context, tenantID string) ([]*discountcode.DiscountCode, error)
	UpdateCode(ctx context.Context, code *discountcode.DiscountCode) (*discountcode.DiscountCode, error)
	DeleteCode(ctx context.Context, id string) error

	// Validate runs the ordered eligibility checks and prices the code
	// against the order amount. Ineligibility is a result, not an error.
	Validate(ctx context.Context, req dto.ValidateCodeRequest) (*dto.CodeValidationResult, error)

	// RecordUsage commits one application of the code: an atomic conditional
	// usage increment plus an immutable redemption record.
	RecordUsage(ctx context.Context, redemption *discountcode.Redemption) error
}

type promoCodeService struct {
	ServiceParams
}

// NewPromoCodeService creates a new promo code service
func NewPromoCodeService(params ServiceParams) PromoCodeService {
	return &promoCodeService{ServiceParams: params}
}

func (s *promoCodeService) CreateCode(ctx context.Context, code *discountcode.DiscountCode) (*discountcode.DiscountCode, error) {
	code.Code = discountcode.NormalizeCode(code.Code)
	if err := code.Validate(); err != nil {
		return nil, err
	}

	// Codes are unique per tenant, case-insensitive
	existing, err := s.CodeRepo.GetByCode(ctx, code.TenantID, code.Code)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("code already exists").
			WithHintf("The code %s is already configured", code.Code).
			WithReportableDetails(map[string]any{
				"code": code.Code,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if code.ID == "" {
		code.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DISCOUNT_CODE)
	}

	if err := s.CodeRepo.Create(ctx, code); err != nil {
		return nil, err
	}

	s.Logger.Infow("created discount code",
		"code_id", code.ID,
		"code", code.Code,
		"tenant_id", code.TenantID)

	return code, nil
}

func (s *promoCodeService) GetCode(ctx context.Context, id string) (*discountcode.DiscountCode, error) {
	return s.CodeRepo.Get(ctx, id)
}

func (s *promoCodeService) ListCodes(ctx context.Context, tenantID string) ([]*discountcode.DiscountCode, error) {
	return s.CodeRepo.List(ctx, tenantID)
}

func (s *promoCodeService) UpdateCode(ctx context.Context, code *discountcode.DiscountCode) (*discountcode.DiscountCode, error) {
	code.Code = discountcode.NormalizeCode(code.Code)
	if err := code.Validate(); err != nil {
		return nil, err
	}
	if err := s.CodeRepo.Update(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *promoCodeService) DeleteCode(ctx context.Context, id string) error {
	return s.CodeRepo.Delete(ctx, id)
}

// Validate runs the eligibility checks in a fixed order, short-circuiting on
// the first failure: exists/active/started, not expired, total-use cap,
// per-customer cap, minimum order amount.
func (s *promoCodeService) Validate(ctx context.Context, req dto.ValidateCodeRequest) (*dto.CodeValidationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	normalized := discountcode.NormalizeCode(req.Code)
	now := s.Clock.Now()

	code, err := s.CodeRepo.GetByCode(ctx, req.TenantID, normalized)
	if err != nil {
		if ierr.IsNotFound(err) {
			return invalidCode("Invalid discount code"), nil
		}
		return nil, err
	}

	if !code.IsActive || code.Status != types.StatusPublished {
		return invalidCode("Invalid discount code"), nil
	}

	if !code.IsStarted(now) {
		return invalidCode("This code is not active yet"), nil
	}

	if code.IsExpired(now) {
		return invalidCode("This code has expired"), nil
	}

	if code.IsExhausted() {
		return invalidCode("This code has reached its usage limit"), nil
	}

	if code.MaxUsesPerCustomer != nil && (req.CustomerID != "" || req.CustomerEmail != "") {
		uses, err := s.CodeRepo.CountRedemptionsByCustomer(ctx, code.ID, req.CustomerID, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
		if uses >= *code.MaxUsesPerCustomer {
			return invalidCode("You have already used this code the maximum number of times"), nil
		}
	}

	if code.MinOrderAmount != nil && req.OrderAmount.LessThan(*code.MinOrderAmount) {
		return invalidCode(fmt.Sprintf("Order must be at least %s to use this code", code.MinOrderAmount.StringFixed(2))), nil
	}

	amount := types.DiscountAmount(code.Type, code.Value, req.OrderAmount, code.MaxDiscountAmount)

	return &dto.CodeValidationResult{
		Valid:             true,
		CodeID:            code.ID,
		Code:              code.Code,
		DiscountType:      code.Type,
		DiscountValue:     code.Value,
		MaxDiscountAmount: code.MaxDiscountAmount,
		DiscountAmount:    amount,
	}, nil
}

func (s *promoCodeService) RecordUsage(ctx context.Context, redemption *discountcode.Redemption) error {
	if redemption.CodeID == "" {
		return ierr.NewError("code_id is required").
			WithHint("A redemption must reference the code it applies").
			Mark(ierr.ErrValidation)
	}

	code, err := s.CodeRepo.Get(ctx, redemption.CodeID)
	if err != nil {
		return err
	}

	// Conditional increment: must not exceed max_uses_total under a race
	if err := s.CodeRepo.IncrementUsage(ctx, code.ID, redemption.DiscountAmount, code.MaxUsesTotal); err != nil {
		return err
	}

	if redemption.ID == "" {
		redemption.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CODE_REDEMPTION)
	}
	if redemption.RedeemedAt.IsZero() {
		redemption.RedeemedAt = s.Clock.Now()
	}

	if err := s.CodeRepo.CreateRedemption(ctx, redemption); err != nil {
		return err
	}

	s.Logger.Infow("recorded code usage",
		"code_id", code.ID,
		"code", code.Code,
		"customer_id", redemption.CustomerID,
		"discount_amount", redemption.DiscountAmount)

	return nil
}

func invalidCode(reason string) *dto.CodeValidationResult {
	return &dto.CodeValidationResult{
		Valid:  false,
		Reason: reason,
	}
}

package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/quotekit/quotekit/internal/api/dto"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// UnitSquareFeet is the service line unit that feeds area-measured volume
// tiers
const UnitSquareFeet = "sqft"

// DiscountOrchestrator runs the full calculation for one discount context:
// it discovers every candidate, resolves stacking, applies the winning set in
// priority order against a running subtotal, and layers the manual discount
// last with its approval determination. Calculate never writes anything;
// committing usage is the caller's explicit follow-up.
type DiscountOrchestrator interface {
	Calculate(ctx context.Context, dctx *dto.DiscountContext) (*dto.DiscountCalculationResponse, error)
}

type discountOrchestrator struct {
	ServiceParams
	codes     PromoCodeService
	rules     RuleEvaluationService
	loyalty   LoyaltyService
	tiers     VolumeTierService
	campaigns CampaignService
	approvals ApprovalService
}

// NewDiscountOrchestrator creates the orchestrator with its collaborating
// services built from the same params
func NewDiscountOrchestrator(params ServiceParams) DiscountOrchestrator {
	return &discountOrchestrator{
		ServiceParams: params,
		codes:         NewPromoCodeService(params),
		rules:         NewRuleEvaluationService(params),
		loyalty:       NewLoyaltyService(params),
		tiers:         NewVolumeTierService(params),
		campaigns:     NewCampaignService(params),
		approvals:     NewApprovalService(params),
	}
}

func (s *discountOrchestrator) Calculate(ctx context.Context, dctx *dto.DiscountContext) (*dto.DiscountCalculationResponse, error) {
	if err := dctx.Validate(); err != nil {
		return nil, err
	}

	subtotal := dctx.Subtotal

	candidates, tierResult, codeValid, err := s.discoverCandidates(ctx, dctx)
	if err != nil {
		return nil, err
	}

	toApply := s.resolveStacking(candidates, codeValid)

	// Sequential application: each discount is computed against the subtotal
	// left by the ones before it, rounded to cents before subtracting
	running := subtotal
	applied := make([]dto.AppliedDiscount, 0, len(toApply)+1)
	for _, cand := range toApply {
		amount := types.DiscountAmount(cand.DiscountType, cand.DiscountValue, running, cand.MaxDiscountAmount)
		if amount.IsZero() {
			continue
		}
		applied = append(applied, dto.AppliedDiscount{
			Source:            cand.Source,
			SourceID:          cand.SourceID,
			Name:              cand.Name,
			Type:              cand.DiscountType,
			Value:             cand.DiscountValue,
			Amount:            amount,
			AppliedToSubtotal: running,
			Position:          len(applied) + 1,
		})
		running = running.Sub(amount)
	}

	requiresApproval := false
	approvalReason := ""

	// The manual discount always lands last, on whatever subtotal the
	// automatic discounts left behind
	if dctx.ManualDiscount != nil {
		manual := dctx.ManualDiscount
		amount := types.DiscountAmount(manual.Type, manual.Value, running, nil)

		percent := manual.Value
		if manual.Type == types.DiscountTypeFixed {
			percent = decimal.Zero
			if subtotal.IsPositive() {
				percent = amount.Div(subtotal).Mul(decimal.NewFromInt(100))
			}
		}

		decision, err := s.approvals.CheckApprovalRequired(ctx, dctx.TenantID, percent, amount, subtotal, dctx.UserRole)
		if err != nil {
			return nil, err
		}
		requiresApproval = decision.Required
		approvalReason = decision.Reason

		name := "Manual discount"
		if manual.Reason != "" {
			name = manual.Reason
		}
		applied = append(applied, dto.AppliedDiscount{
			Source:            types.DiscountSourceManual,
			Name:              name,
			Type:              manual.Type,
			Value:             manual.Value,
			Amount:            amount,
			AppliedToSubtotal: running,
			Position:          len(applied) + 1,
			RequiresApproval:  decision.Required,
		})
		running = running.Sub(amount)
	}

	upsells, err := s.upsellSuggestions(ctx, dctx, candidates, tierResult)
	if err != nil {
		return nil, err
	}

	response := &dto.DiscountCalculationResponse{
		AvailableDiscounts: lo.Map(candidates, func(c CandidateDiscount, _ int) dto.AvailableDiscount {
			return dto.AvailableDiscount{
				Source:           c.Source,
				SourceID:         c.SourceID,
				Name:             c.Name,
				Type:             c.DiscountType,
				Value:            c.DiscountValue,
				EstimatedSavings: c.EstimatedSavings,
				Stackable:        c.Stackable,
				CanApply:         c.CanApply,
				Reason:           c.Reason,
			}
		}),
		AppliedDiscounts:  applied,
		OriginalSubtotal:  subtotal,
		TotalDiscount:     subtotal.Sub(running),
		FinalSubtotal:     running,
		RequiresApproval:  requiresApproval,
		ApprovalReason:    approvalReason,
		UpsellSuggestions: upsells,
	}

	s.Logger.Debugw("calculated discounts",
		"tenant_id", dctx.TenantID,
		"proposal_id", dctx.ProposalID,
		"candidates", len(candidates),
		"applied", len(applied),
		"original_subtotal", subtotal,
		"final_subtotal", running)

	return response, nil
}

// discoverCandidates collects candidates in a fixed order: campaigns, auto
// rules, volume tier, loyalty tier, promo code. The order never changes
// because it is the deterministic tie-break when savings are equal.
func (s *discountOrchestrator) discoverCandidates(ctx context.Context, dctx *dto.DiscountContext) ([]CandidateDiscount, *TierResult, bool, error) {
	subtotal := dctx.Subtotal
	candidates := make([]CandidateDiscount, 0, 8)

	activeCampaigns, err := s.campaigns.GetActive(ctx, dctx.TenantID)
	if err != nil {
		return nil, nil, false, err
	}
	for _, ac := range activeCampaigns {
		c := ac.Campaign
		cand := CandidateDiscount{
			Source:        types.DiscountSourceCampaign,
			SourceID:      c.ID,
			Name:          c.Name,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
			Stackable:     c.Stackable,
			Priority:      priorityCampaign,
			CanApply:      true,
		}
		if c.MinOrderAmount != nil && subtotal.LessThan(*c.MinOrderAmount) {
			cand.CanApply = false
			cand.Reason = fmt.Sprintf("Order must be at least %s for this campaign", c.MinOrderAmount.StringFixed(2))
		}
		// A code-gated campaign is redeemed through its code, which is priced
		// by the promo code path; it surfaces here as advertising only
		if c.PromoCode != nil && *c.PromoCode != "" {
			cand.CanApply = false
			cand.Reason = fmt.Sprintf("Enter code %s to redeem this campaign", *c.PromoCode)
		}
		cand.estimate(subtotal)
		candidates = append(candidates, cand)
	}

	ruleCandidates, err := s.rules.Evaluate(ctx, dctx)
	if err != nil {
		return nil, nil, false, err
	}
	candidates = append(candidates, ruleCandidates...)

	tierResult, err := s.volumeTier(ctx, dctx)
	if err != nil {
		return nil, nil, false, err
	}
	if tierResult != nil {
		cand := CandidateDiscount{
			Source:        types.DiscountSourceVolumeTier,
			SourceID:      tierResult.SetID,
			Name:          tierResult.SetName,
			DiscountType:  types.DiscountTypePercent,
			DiscountValue: tierResult.DiscountPercent,
			Stackable:     tierResult.Stackable,
			Priority:      priorityVolumeTier,
			CanApply:      true,
		}
		cand.estimate(subtotal)
		candidates = append(candidates, cand)
	}

	loyaltyCandidate, err := s.loyalty.TierCandidate(ctx, dctx.TenantID, dctx.CustomerID)
	if err != nil {
		return nil, nil, false, err
	}
	if loyaltyCandidate != nil {
		loyaltyCandidate.estimate(subtotal)
		candidates = append(candidates, *loyaltyCandidate)
	}

	codeValid := false
	if dctx.PromoCode != "" {
		result, err := s.codes.Validate(ctx, dto.ValidateCodeRequest{
			TenantID:      dctx.TenantID,
			Code:          dctx.PromoCode,
			CustomerID:    dctx.CustomerID,
			CustomerEmail: dctx.CustomerEmail,
			OrderAmount:   subtotal,
		})
		if err != nil {
			return nil, nil, false, err
		}
		if result.Valid {
			codeValid = true
			candidates = append(candidates, CandidateDiscount{
				Source:            types.DiscountSourcePromoCode,
				SourceID:          result.CodeID,
				Name:              result.Code,
				DiscountType:      result.DiscountType,
				DiscountValue:     result.DiscountValue,
				MaxDiscountAmount: result.MaxDiscountAmount,
				Stackable:         true,
				Priority:          priorityPromoCode,
				EstimatedSavings:  result.DiscountAmount,
				CanApply:          true,
			})
		} else {
			candidates = append(candidates, CandidateDiscount{
				Source:   types.DiscountSourcePromoCode,
				Name:     dctx.PromoCode,
				Priority: priorityPromoCode,
				CanApply: false,
				Reason:   result.Reason,
			})
		}
	}

	return candidates, tierResult, codeValid, nil
}

// volumeTier probes the configured measurements in order: monetary subtotal,
// then service area, then unit quantity. The first tier set that resolves
// wins.
func (s *discountOrchestrator) volumeTier(ctx context.Context, dctx *dto.DiscountContext) (*TierResult, error) {
	result, err := s.tiers.Calculate(ctx, dctx.TenantID, types.MeasurementTypeAmount, dctx.Subtotal, "")
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	if area := dctx.ServiceAreaTotal(UnitSquareFeet); area.IsPositive() {
		result, err = s.tiers.Calculate(ctx, dctx.TenantID, types.MeasurementTypeArea, area, "")
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	quantity := decimal.Zero
	for _, svc := range dctx.Services {
		quantity = quantity.Add(svc.Quantity)
	}
	if quantity.IsPositive() {
		result, err = s.tiers.Calculate(ctx, dctx.TenantID, types.MeasurementTypeQuantity, quantity, "")
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveStacking picks the set of candidates to apply. The best single
// non-stackable discount wins only when it strictly beats the combined
// stackable savings; otherwise the stackables apply together, ordered by
// descending priority with discovery order breaking ties.
func (s *discountOrchestrator) resolveStacking(candidates []CandidateDiscount, codeValid bool) []CandidateDiscount {
	stackable := make([]CandidateDiscount, 0, len(candidates))
	var best *CandidateDiscount
	stackableSum := decimal.Zero

	for i := range candidates {
		cand := candidates[i]
		if !cand.CanApply {
			continue
		}
		if s.isStackable(cand, codeValid) {
			stackable = append(stackable, cand)
			stackableSum = stackableSum.Add(cand.EstimatedSavings)
			continue
		}
		if best == nil || cand.EstimatedSavings.GreaterThan(best.EstimatedSavings) {
			best = &candidates[i]
		}
	}

	if best != nil && best.EstimatedSavings.GreaterThan(stackableSum) {
		return []CandidateDiscount{*best}
	}

	// Stable sort keeps discovery order for equal priorities
	sort.SliceStable(stackable, func(i, j int) bool {
		return stackable[i].Priority > stackable[j].Priority
	})
	return stackable
}

// isStackable resolves a candidate's effective stackability: a rule marked
// stackable but not with codes competes instead when a valid code was entered
func (s *discountOrchestrator) isStackable(cand CandidateDiscount, codeValid bool) bool {
	if !cand.Stackable {
		return false
	}
	if cand.Source == types.DiscountSourceAutoRule && codeValid && !cand.StackWithCodes {
		return false
	}
	return true
}

// upsellSuggestions derives nudges from near-miss discounts; they are
// informational and never change totals
func (s *discountOrchestrator) upsellSuggestions(ctx context.Context, dctx *dto.DiscountContext, candidates []CandidateDiscount, tierResult *TierResult) ([]dto.UpsellSuggestion, error) {
	suggestions := make([]dto.UpsellSuggestion, 0)

	if tierResult != nil && tierResult.NextTier != nil {
		currentSavings := types.DiscountAmount(types.DiscountTypePercent, tierResult.DiscountPercent, dctx.Subtotal, nil)
		nextSavings := types.DiscountAmount(types.DiscountTypePercent, tierResult.NextDiscountPercent, dctx.Subtotal, nil)
		suggestions = append(suggestions, dto.UpsellSuggestion{
			Type: dto.UpsellTypeNextVolumeTier,
			Message: fmt.Sprintf("Add %s more to reach the next volume tier (%s%% off)",
				tierResult.AmountToNext.String(), tierResult.NextDiscountPercent.String()),
			PotentialSavings: nextSavings.Sub(currentSavings),
		})
	}

	comboSuggestions, err := s.rules.ComboSuggestions(ctx, dctx)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, comboSuggestions...)

	if dctx.CustomerID != "" && !s.hasLoyaltyCandidate(candidates) {
		program, err := s.LoyaltyRepo.GetProgram(ctx, dctx.TenantID)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
		if program != nil && program.IsActive {
			_, err := s.LoyaltyRepo.GetAccountByCustomer(ctx, dctx.TenantID, dctx.CustomerID)
			if err != nil {
				if !ierr.IsNotFound(err) {
					return nil, err
				}
				suggestions = append(suggestions, dto.UpsellSuggestion{
					Type:    dto.UpsellTypeLoyaltyEnrollment,
					Message: "Enroll in the loyalty program to start earning points on this order",
				})
			}
		}
	}

	return suggestions, nil
}

func (s *discountOrchestrator) hasLoyaltyCandidate(candidates []CandidateDiscount) bool {
	return lo.SomeBy(candidates, func(c CandidateDiscount) bool {
		return c.Source == types.DiscountSourceLoyaltyTier
	})
}

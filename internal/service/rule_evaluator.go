package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/cache"
	"github.com/quotekit/quotekit/internal/domain/discountrule"
	"github.com/quotekit/quotekit/internal/types"
)

// RuleEvaluationService administers automatic discount rules and evaluates
// them against a discount context. Evaluation is pure: it reads the rule set
// and the context, mutates nothing, and is deterministic for a pinned clock.
type RuleEvaluationService interface {
	CreateRule(ctx context.Context, rule *discountrule.AutoDiscountRule) (*discountrule.AutoDiscountRule, error)
	GetRule(ctx context.Context, id string) (*discountrule.AutoDiscountRule, error)
	ListRules(ctx context.Context, tenantID string) ([]*discountrule.AutoDiscountRule, error)
	UpdateRule(ctx context.Context, rule *discountrule.AutoDiscountRule) (*discountrule.AutoDiscountRule, error)
	DeleteRule(ctx context.Context, id string) error

	// Evaluate returns candidates for every active, in-window rule whose
	// condition matches the context, ordered by descending priority
	Evaluate(ctx context.Context, dctx *dto.DiscountContext) ([]CandidateDiscount, error)

	// ComboSuggestions returns upsell nudges for combo rules the context
	// nearly satisfies: at least one required service present, at least one
	// missing
	ComboSuggestions(ctx context.Context, dctx *dto.DiscountContext) ([]dto.UpsellSuggestion, error)
}

type ruleEvaluationService struct {
	ServiceParams
}

// NewRuleEvaluationService creates a new rule evaluation service
func NewRuleEvaluationService(params ServiceParams) RuleEvaluationService {
	return &ruleEvaluationService{ServiceParams: params}
}

func (s *ruleEvaluationService) CreateRule(ctx context.Context, rule *discountrule.AutoDiscountRule) (*discountrule.AutoDiscountRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if rule.ID == "" {
		rule.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DISCOUNT_RULE)
	}

	if err := s.RuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.TenantID)

	s.Logger.Infow("created auto discount rule",
		"rule_id", rule.ID,
		"rule_type", rule.RuleType,
		"tenant_id", rule.TenantID)

	return rule, nil
}

func (s *ruleEvaluationService) GetRule(ctx context.Context, id string) (*discountrule.AutoDiscountRule, error) {
	return s.RuleRepo.Get(ctx, id)
}

func (s *ruleEvaluationService) ListRules(ctx context.Context, tenantID string) ([]*discountrule.AutoDiscountRule, error) {
	return s.RuleRepo.List(ctx, tenantID)
}

func (s *ruleEvaluationService) UpdateRule(ctx context.Context, rule *discountrule.AutoDiscountRule) (*discountrule.AutoDiscountRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.RuleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidateRuleCache(ctx, rule.TenantID)
	return rule, nil
}

func (s *ruleEvaluationService) DeleteRule(ctx context.Context, id string) error {
	rule, err := s.RuleRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.RuleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRuleCache(ctx, rule.TenantID)
	return nil
}

func (s *ruleEvaluationService) Evaluate(ctx context.Context, dctx *dto.DiscountContext) ([]CandidateDiscount, error) {
	rules, err := s.activeRules(ctx, dctx.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()

	// Higher priority rules are evaluated and preferred first
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	candidates := make([]CandidateDiscount, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsWithinWindow(now) {
			continue
		}

		matched, known := s.matches(rule, dctx, now)
		if !known {
			// Partially migrated configuration can carry tags this build does
			// not understand; they are excluded, never silently matched.
			s.Logger.Warnw("skipping rule with unrecognized type",
				"rule_id", rule.ID,
				"rule_type", rule.RuleType,
				"tenant_id", rule.TenantID)
			continue
		}
		if !matched {
			continue
		}

		candidate := CandidateDiscount{
			Source:            types.DiscountSourceAutoRule,
			SourceID:          rule.ID,
			Name:              rule.Name,
			DiscountType:      rule.DiscountType,
			DiscountValue:     rule.DiscountValue,
			MaxDiscountAmount: rule.MaxDiscountAmount,
			Stackable:         rule.Stackable,
			StackWithCodes:    rule.StackWithCodes,
			Priority:          rule.Priority,
			CanApply:          true,
		}
		candidate.estimate(dctx.Subtotal)
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// matches evaluates one rule's condition against the context. The second
// return value is false only for a rule type this build does not know.
func (s *ruleEvaluationService) matches(rule *discountrule.AutoDiscountRule, dctx *dto.DiscountContext, now time.Time) (bool, bool) {
	switch rule.RuleType {
	case types.RuleTypeOrderMinimum:
		cond := rule.Condition.OrderMinimum
		return cond != nil && dctx.Subtotal.GreaterThanOrEqual(cond.MinAmount), true

	case types.RuleTypeFirstOrder:
		return dctx.IsNewCustomer, true

	case types.RuleTypeRepeatCustomer:
		cond := rule.Condition.RepeatCustomer
		if cond == nil || dctx.IsNewCustomer {
			return false, true
		}
		minOrders := cond.MinPriorOrders
		if minOrders <= 0 {
			minOrders = 1
		}
		return dctx.PriorOrderCount >= minOrders, true

	case types.RuleTypeServiceCombo:
		cond := rule.Condition.ServiceCombo
		if cond == nil || len(cond.ServiceTypes) == 0 {
			return false, true
		}
		matched := 0
		for _, serviceType := range cond.ServiceTypes {
			if dctx.HasServiceType(serviceType) {
				matched++
			}
		}
		if cond.MatchAny {
			return matched > 0, true
		}
		return matched == len(cond.ServiceTypes), true

	case types.RuleTypeServiceQuantity:
		cond := rule.Condition.ServiceQuantity
		if cond == nil {
			return false, true
		}
		for _, svc := range dctx.Services {
			if svc.Name == cond.ServiceName && svc.Quantity.GreaterThanOrEqual(cond.MinQuantity) {
				return true, true
			}
		}
		return false, true

	case types.RuleTypeSeasonal:
		cond := rule.Condition.Seasonal
		if cond == nil {
			return false, true
		}
		// Inclusive month range. A window with start > end (spanning the
		// year boundary) never matches; see the condition type's doc.
		month := now.Month()
		return month >= cond.StartMonth && month <= cond.EndMonth, true

	case types.RuleTypeDayOfWeek:
		cond := rule.Condition.DayOfWeek
		if cond == nil {
			return false, true
		}
		weekday := now.Weekday()
		for _, day := range cond.Days {
			if day == weekday {
				return true, true
			}
		}
		return false, true
	}

	return false, false
}

func (s *ruleEvaluationService) ComboSuggestions(ctx context.Context, dctx *dto.DiscountContext) ([]dto.UpsellSuggestion, error) {
	rules, err := s.activeRules(ctx, dctx.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	suggestions := make([]dto.UpsellSuggestion, 0)

	for _, rule := range rules {
		if rule.RuleType != types.RuleTypeServiceCombo || !rule.IsWithinWindow(now) {
			continue
		}
		cond := rule.Condition.ServiceCombo
		if cond == nil || cond.MatchAny {
			continue
		}

		missing := make([]string, 0, len(cond.ServiceTypes))
		for _, serviceType := range cond.ServiceTypes {
			if !dctx.HasServiceType(serviceType) {
				missing = append(missing, serviceType)
			}
		}
		// A near miss has some of the combo on the proposal already
		if len(missing) == 0 || len(missing) == len(cond.ServiceTypes) {
			continue
		}

		suggestions = append(suggestions, dto.UpsellSuggestion{
			Type: dto.UpsellTypeServiceCombo,
			Message: fmt.Sprintf("Add %s to unlock %s",
				strings.Join(missing, ", "), rule.Name),
			PotentialSavings: types.DiscountAmount(rule.DiscountType, rule.DiscountValue, dctx.Subtotal, rule.MaxDiscountAmount),
		})
	}

	return suggestions, nil
}

// activeRules loads the tenant's active rule set through the injected cache
func (s *ruleEvaluationService) activeRules(ctx context.Context, tenantID string) ([]*discountrule.AutoDiscountRule, error) {
	key := cache.GenerateKey(cache.PrefixDiscountRule, tenantID)
	if cached, found := s.Cache.Get(ctx, key); found {
		if rules, ok := cached.([]*discountrule.AutoDiscountRule); ok {
			return rules, nil
		}
	}

	rules, err := s.RuleRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, rules, cache.DefaultExpiration)
	return rules, nil
}

func (s *ruleEvaluationService) invalidateRuleCache(ctx context.Context, tenantID string) {
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixDiscountRule, tenantID))
}

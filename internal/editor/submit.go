package editor

import (
	"context"
	"fmt"
	"strings"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// SubmitResult reports what a submit saved. Result is populated even when the
// variant batch failed so callers can show which calls went through.
type SubmitResult struct {
	Product product.Product    `json:"product"`
	Plan    variants.Plan      `json:"plan"`
	Result  variants.Result    `json:"result"`
	Working []variants.Variant `json:"variants"`
}

// Submit validates the session, saves the base product fields and then runs the
// variant batch. Validation failures make no calls. A failed batch leaves the
// working list and the original id set untouched so a retry re-attempts the same
// plan; a successful one promotes created ids into the working list and
// re-baselines the original id set.
func (s *Session) Submit(ctx context.Context, input product.UpdateInput) (SubmitResult, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return SubmitResult{}, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	if err := s.validate(input); err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	plan := variants.Diff(s.originalIDs, s.working)
	s.mu.Unlock()

	if s.logg != nil {
		ctx = s.logg.WithProductID(ctx, s.productID)
	}

	out := SubmitResult{Plan: plan}
	if !input.Empty() {
		saved, err := s.catalog.UpdateProduct(ctx, s.sellerID, s.productID, input)
		if err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "product update failed", err)
			}
			return out, err
		}
		s.mu.Lock()
		s.product = saved
		s.base = variants.Defaults{Price: saved.Price, Stock: saved.Stock}
		s.mu.Unlock()
	}

	result, err := s.exec.Apply(ctx, s.productID, plan)
	out.Result = result

	s.mu.Lock()
	defer s.mu.Unlock()
	out.Product = *s.product
	if err != nil {
		out.Working = cloneVariants(s.working)
		return out, err
	}
	s.promote(plan, result)
	out.Working = cloneVariants(s.working)
	return out, nil
}

// promote writes created ids into the matching working entries and makes the
// persisted set the new reconciliation baseline. Created entries are matched by
// plan position, or by attribute key when some creates are missing; the returned
// name is not trusted. Must be called with mu held.
func (s *Session) promote(plan variants.Plan, result variants.Result) {
	createdByKey := make(map[string]string, len(result.Created))
	if len(result.Created) == len(plan.Create) {
		for i, want := range plan.Create {
			createdByKey[want.Attributes.Key()] = result.Created[i].ID
		}
	} else {
		for _, v := range result.Created {
			createdByKey[v.Attributes.Key()] = v.ID
		}
	}
	for i := range s.working {
		if s.working[i].Persisted() {
			continue
		}
		if id, ok := createdByKey[s.working[i].Attributes.Key()]; ok && id != "" {
			s.working[i].ID = id
			s.working[i].ProductID = s.productID
		}
	}

	baseline := make([]string, 0, len(plan.Update)+len(result.Created))
	for _, v := range plan.Update {
		baseline = append(baseline, v.ID)
	}
	for _, v := range result.Created {
		if v.ID != "" {
			baseline = append(baseline, v.ID)
		}
	}
	s.originalIDs = baseline
}

// validate runs every submit-time check. Must be called with mu held.
func (s *Session) validate(input product.UpdateInput) error {
	if err := s.options.Validate(); err != nil {
		return err
	}
	if err := s.options.EnsureWithinLimit(s.maxOptions); err != nil {
		return err
	}

	details := map[string]string{}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		details["title"] = "is required"
	}
	if input.Price != nil && input.Price.IsNegative() {
		details["price"] = "must be non-negative"
	}
	if input.Stock != nil && *input.Stock < 0 {
		details["stock"] = "must be non-negative"
	}
	names := make(map[string]struct{}, len(s.working))
	for i, v := range s.working {
		if v.Price.IsNegative() {
			details[fmt.Sprintf("variants[%d].price", i)] = "must be non-negative"
		}
		if v.Stock < 0 {
			details[fmt.Sprintf("variants[%d].stock", i)] = "must be non-negative"
		}
		if _, dup := names[v.Name]; dup {
			details[fmt.Sprintf("variants[%d].name", i)] = "is duplicated"
		}
		names[v.Name] = struct{}{}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid submission").WithDetails(details)
	}
	return nil
}

package enums

import "fmt"

// PromotionScope controls which products a promotion applies to.
type PromotionScope string

const (
	PromotionScopeAll      PromotionScope = "all"
	PromotionScopeCategory PromotionScope = "category"
	PromotionScopeProduct  PromotionScope = "product"
)

var validPromotionScopes = []PromotionScope{
	PromotionScopeAll,
	PromotionScopeCategory,
	PromotionScopeProduct,
}

// String implements fmt.Stringer.
func (s PromotionScope) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PromotionScope.
func (s PromotionScope) IsValid() bool {
	for _, candidate := range validPromotionScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePromotionScope converts raw input into a PromotionScope.
func ParsePromotionScope(value string) (PromotionScope, error) {
	for _, candidate := range validPromotionScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion scope %q", value)
}

// DiscountType distinguishes percentage cuts from fixed FCFA amounts.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

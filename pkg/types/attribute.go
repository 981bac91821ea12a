package types

import (
	"sort"
	"strings"
)

// VariantAttribute is one (option name, chosen value) pair of a variant.
type VariantAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariantAttributes keeps option order; it is stored as jsonb.
type VariantAttributes []VariantAttribute

// Key returns an order-independent representation of the attribute set, used to
// enforce per-product uniqueness regardless of how the pairs were listed.
func (a VariantAttributes) Key() string {
	if len(a) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(a))
	for _, attr := range a {
		pairs = append(pairs, strings.ToUpper(strings.TrimSpace(attr.Name))+"="+strings.ToUpper(strings.TrimSpace(attr.Value)))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x1f")
}

// Clone returns a copy that does not share the backing array.
func (a VariantAttributes) Clone() VariantAttributes {
	if a == nil {
		return nil
	}
	out := make(VariantAttributes, len(a))
	copy(out, a)
	return out
}

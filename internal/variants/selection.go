package variants

import (
	"github.com/angelmondragon/storefront/internal/options"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Resolve finds the variant whose attribute set equals the selection, ignoring
// pair order. ok is false when no variant matches; callers treat that as the
// combination being unavailable, not as an error.
func Resolve(list []Variant, selection types.VariantAttributes) (Variant, bool) {
	if len(selection) == 0 {
		return Variant{}, false
	}
	key := selection.Key()
	for _, v := range list {
		if len(v.Attributes) == len(selection) && v.Attributes.Key() == key {
			return v, true
		}
	}
	return Variant{}, false
}

// FindByID returns the variant with the given id.
func FindByID(list []Variant, id string) (Variant, bool) {
	if id == "" {
		return Variant{}, false
	}
	for _, v := range list {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// OptionsFromVariants rebuilds the option groups a variant list was generated
// from, in first-seen order. It seeds an edit session from persisted variants and
// feeds the buyer's attribute pickers.
func OptionsFromVariants(list []Variant) []options.Option {
	var (
		out     []options.Option
		byName  = map[string]int{}
		seenVal = map[string]map[string]struct{}{}
	)
	for _, v := range list {
		for _, attr := range v.Attributes {
			idx, ok := byName[attr.Name]
			if !ok {
				idx = len(out)
				byName[attr.Name] = idx
				seenVal[attr.Name] = map[string]struct{}{}
				out = append(out, options.Option{Name: attr.Name, Values: []string{}})
			}
			if _, dup := seenVal[attr.Name][attr.Value]; dup {
				continue
			}
			seenVal[attr.Name][attr.Value] = struct{}{}
			out[idx].Values = append(out[idx].Values, attr.Value)
		}
	}
	if out == nil {
		return []options.Option{}
	}
	return out
}

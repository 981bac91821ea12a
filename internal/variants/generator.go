package variants

import (
	"strings"

	"github.com/angelmondragon/storefront/internal/options"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Generate returns one draft per combination of option values. Options without
// values are skipped. Output order follows option order, then value order, with
// the first option varying slowest.
func Generate(opts []options.Option) []Variant {
	active := make([]options.Option, 0, len(opts))
	for _, opt := range opts {
		if len(opt.Values) > 0 {
			active = append(active, opt)
		}
	}
	drafts := []Variant{}
	if len(active) == 0 {
		return drafts
	}

	combos := [][]string{{}}
	for _, opt := range active {
		next := make([][]string, 0, len(combos)*len(opt.Values))
		for _, combo := range combos {
			for _, value := range opt.Values {
				tuple := make([]string, len(combo), len(combo)+1)
				copy(tuple, combo)
				next = append(next, append(tuple, value))
			}
		}
		combos = next
	}

	for _, combo := range combos {
		attrs := make(types.VariantAttributes, len(combo))
		for i, value := range combo {
			attrs[i] = types.VariantAttribute{Name: active[i].Name, Value: value}
		}
		drafts = append(drafts, Variant{
			Name:       strings.Join(combo, options.NameSeparator),
			Attributes: attrs,
		})
	}
	return drafts
}

// DeriveName joins attribute values in order, matching Generate.
func DeriveName(attrs types.VariantAttributes) string {
	values := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		values = append(values, attr.Value)
	}
	return strings.Join(values, options.NameSeparator)
}

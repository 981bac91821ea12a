package cart

import (
	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
)

// The functions below never modify their input slice; each returns a fresh one.
// After any sequence of Add, UpdateQty and Remove there is at most one line per
// Key. Deduplicate repairs lists that were merged from elsewhere.

// Add merges qty into the line for (p.ID, v.ID) or appends a new line. A new line
// takes price, attributes and first image from v when given, falling back to the
// product image when v has none. Stock is the caller's concern.
func Add(lines []Line, p product.Product, qty int, v *variants.Variant) []Line {
	var variantID *string
	if v != nil {
		id := v.ID
		variantID = &id
	}
	key := KeyOf(p.ID, variantID)

	out := cloneLines(lines)
	for i := range out {
		if out[i].Key() == key {
			out[i].Qty += qty
			return out
		}
	}

	line := Line{
		ProductID:  p.ID,
		VariantID:  variantID,
		Title:      p.Title,
		Price:      p.Price,
		Qty:        qty,
		SellerID:   p.SellerID,
		SellerName: p.SellerName,
	}
	if p.Image != nil {
		line.Image = *p.Image
	}
	if v != nil {
		line.Price = v.Price
		line.Attributes = v.Attributes.Clone()
		if len(v.Images) > 0 {
			line.Image = v.Images[0]
		}
	}
	return append(out, line)
}

// Remove drops the line matching the key exactly. A variant line is not removed
// by a call without its variant id, and vice versa.
func Remove(lines []Line, productID string, variantID *string) []Line {
	key := KeyOf(productID, variantID)
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Key() == key {
			continue
		}
		out = append(out, line.clone())
	}
	return out
}

// UpdateQty sets qty on the matching line without clamping.
func UpdateQty(lines []Line, productID string, qty int, variantID *string) []Line {
	key := KeyOf(productID, variantID)
	out := cloneLines(lines)
	for i := range out {
		if out[i].Key() == key {
			out[i].Qty = qty
		}
	}
	return out
}

// Deduplicate folds lines sharing a key into the first occurrence, summing qty.
func Deduplicate(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	index := make(map[Key]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.Key()]; ok {
			out[i].Qty += line.Qty
			continue
		}
		index[line.Key()] = len(out)
		out = append(out, line.clone())
	}
	return out
}

func Find(lines []Line, productID string, variantID *string) (Line, bool) {
	key := KeyOf(productID, variantID)
	for _, line := range lines {
		if line.Key() == key {
			return line.clone(), true
		}
	}
	return Line{}, false
}

// Count is the total quantity across lines.
func Count(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += line.Qty
	}
	return total
}

func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = line.clone()
	}
	return out
}

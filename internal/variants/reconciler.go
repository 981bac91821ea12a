package variants

// Plan is the set of calls that brings the persisted variants in line with the
// working list.
type Plan struct {
	Create []Variant `json:"create"`
	Update []Variant `json:"update"`
	Delete []string  `json:"delete"`
}

func (p Plan) Size() int {
	return len(p.Create) + len(p.Update) + len(p.Delete)
}

func (p Plan) Empty() bool {
	return p.Size() == 0
}

// Merge carries id, price and stock from previous variants onto drafts with the
// same name. Drafts without a match take the product defaults. Previous variants
// whose name is gone are dropped; Diff turns them into deletes.
func Merge(drafts, previous []Variant, base Defaults) []Variant {
	byName := make(map[string]Variant, len(previous))
	for _, prev := range previous {
		if _, seen := byName[prev.Name]; !seen {
			byName[prev.Name] = prev
		}
	}

	merged := make([]Variant, 0, len(drafts))
	for _, draft := range drafts {
		v := Variant{
			Name:       draft.Name,
			Attributes: draft.Attributes.Clone(),
			Price:      base.Price,
			Stock:      base.Stock,
		}
		if prev, ok := byName[draft.Name]; ok {
			v.ID = prev.ID
			v.ProductID = prev.ProductID
			v.Price = prev.Price
			v.Stock = prev.Stock
			v.Images = append([]string(nil), prev.Images...)
		}
		merged = append(merged, v)
	}
	return merged
}

// Diff computes the submit plan against the ids fetched when the edit session
// started. Deletes are decided by id survival only, so a renamed combination is a
// delete of the old id plus a create of the new name.
func Diff(originalIDs []string, working []Variant) Plan {
	plan := Plan{Create: []Variant{}, Update: []Variant{}, Delete: []string{}}

	alive := make(map[string]struct{}, len(working))
	for _, v := range working {
		if v.Persisted() {
			alive[v.ID] = struct{}{}
			plan.Update = append(plan.Update, v)
			continue
		}
		plan.Create = append(plan.Create, v)
	}

	seen := make(map[string]struct{}, len(originalIDs))
	for _, id := range originalIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := alive[id]; !ok {
			plan.Delete = append(plan.Delete, id)
		}
	}
	return plan
}

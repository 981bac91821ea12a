package variants

import (
	"reflect"
	"sort"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/options"
)

var base = Defaults{Price: decimal.NewFromInt(50), Stock: 10}

func TestMergeCarriesIdentityAfterAddingValue(t *testing.T) {
	previous := []Variant{{ID: "v1", Name: "S / RED", Price: decimal.NewFromInt(100), Stock: 5}}
	drafts := Generate([]options.Option{
		{Name: "SIZE", Values: []string{"S", "M"}},
		{Name: "COLOR", Values: []string{"RED", "BLUE"}},
	})
	merged := Merge(drafts, previous, base)

	if len(merged) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(merged))
	}
	for _, v := range merged {
		if v.Name == "S / RED" {
			if v.ID != "v1" || !v.Price.Equal(decimal.NewFromInt(100)) || v.Stock != 5 {
				t.Fatalf("S / RED lost its persisted data: %+v", v)
			}
			continue
		}
		if v.ID != "" {
			t.Fatalf("%s should be unsaved, got id %q", v.Name, v.ID)
		}
		if !v.Price.Equal(base.Price) || v.Stock != base.Stock {
			t.Fatalf("%s should take base price/stock, got %s/%d", v.Name, v.Price, v.Stock)
		}
	}
}

func TestMergeRoundTripHasNoDeletes(t *testing.T) {
	persisted := []Variant{
		{ID: "a", Name: "S / RED", Price: decimal.NewFromInt(10), Stock: 1},
		{ID: "b", Name: "S / BLUE", Price: decimal.NewFromFloat(12.5), Stock: 2},
		{ID: "c", Name: "M / RED", Price: decimal.NewFromInt(14), Stock: 0},
		{ID: "d", Name: "M / BLUE", Price: decimal.NewFromInt(16), Stock: 4},
	}
	drafts := Generate([]options.Option{
		{Name: "SIZE", Values: []string{"S", "M"}},
		{Name: "COLOR", Values: []string{"RED", "BLUE"}},
	})
	merged := Merge(drafts, persisted, base)

	byName := map[string]Variant{}
	for _, v := range merged {
		byName[v.Name] = v
	}
	for _, p := range persisted {
		got, ok := byName[p.Name]
		if !ok {
			t.Fatalf("missing %s after merge", p.Name)
		}
		if got.ID != p.ID || !got.Price.Equal(p.Price) || got.Stock != p.Stock {
			t.Fatalf("data loss for %s: got %+v want %+v", p.Name, got, p)
		}
	}

	plan := Diff([]string{"a", "b", "c", "d"}, merged)
	if len(plan.Delete) != 0 || len(plan.Create) != 0 || len(plan.Update) != 4 {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestDiffRenameDeletesOldAndCreatesNew(t *testing.T) {
	previous := []Variant{
		{ID: "a", Name: "S"},
		{ID: "b", Name: "M"},
	}
	drafts := Generate([]options.Option{{Name: "SIZE", Values: []string{"SMALL", "MEDIUM"}}})
	merged := Merge(drafts, previous, base)
	plan := Diff([]string{"a", "b"}, merged)

	if len(plan.Update) != 0 {
		t.Fatalf("expected no updates, got %+v", plan.Update)
	}
	if len(plan.Create) != 2 {
		t.Fatalf("expected 2 creates, got %+v", plan.Create)
	}
	deleted := append([]string{}, plan.Delete...)
	sort.Strings(deleted)
	if !reflect.DeepEqual(deleted, []string{"a", "b"}) {
		t.Fatalf("expected a and b deleted, got %v", plan.Delete)
	}
}

func TestDiffUsesOriginalIDsNotWorkingList(t *testing.T) {
	// "b" was dropped from the working list by an earlier regeneration; it must
	// still be deleted because it was part of the originally fetched set.
	working := []Variant{{ID: "a", Name: "S"}, {Name: "L"}}
	plan := Diff([]string{"a", "b", "b", ""}, working)
	if !reflect.DeepEqual(plan.Delete, []string{"b"}) {
		t.Fatalf("expected only b deleted, got %v", plan.Delete)
	}
	if len(plan.Update) != 1 || plan.Update[0].ID != "a" {
		t.Fatalf("unexpected updates %+v", plan.Update)
	}
	if len(plan.Create) != 1 || plan.Create[0].Name != "L" {
		t.Fatalf("unexpected creates %+v", plan.Create)
	}
	if plan.Size() != 3 || plan.Empty() {
		t.Fatalf("unexpected plan size %d", plan.Size())
	}
}

func TestMergeRemovingOptionDropsVariants(t *testing.T) {
	previous := Merge(Generate([]options.Option{
		{Name: "SIZE", Values: []string{"S"}},
		{Name: "COLOR", Values: []string{"RED"}},
	}), nil, base)
	previous[0].ID = "x"

	merged := Merge(Generate([]options.Option{{Name: "SIZE", Values: []string{"S"}}}), previous, base)
	if len(merged) != 1 || merged[0].ID != "" {
		t.Fatalf("S is a different combination from S / RED: %+v", merged)
	}
	plan := Diff([]string{"x"}, merged)
	if !reflect.DeepEqual(plan.Delete, []string{"x"}) || len(plan.Create) != 1 {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestMergeEmptyDraftsDeletesEverything(t *testing.T) {
	merged := Merge(Generate(nil), []Variant{{ID: "a", Name: "S"}}, base)
	if len(merged) != 0 {
		t.Fatalf("expected empty working list, got %+v", merged)
	}
	plan := Diff([]string{"a"}, merged)
	if !reflect.DeepEqual(plan.Delete, []string{"a"}) {
		t.Fatalf("expected a deleted, got %v", plan.Delete)
	}
}

func TestMergeDoesNotAliasDraftAttributes(t *testing.T) {
	drafts := Generate([]options.Option{{Name: "SIZE", Values: []string{"S"}}})
	merged := Merge(drafts, nil, base)
	merged[0].Attributes[0].Value = "XL"
	if drafts[0].Attributes[0].Value != "S" {
		t.Fatal("merge shares attribute storage with drafts")
	}
}

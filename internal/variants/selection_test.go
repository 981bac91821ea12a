package variants

import (
	"reflect"
	"testing"

	"github.com/angelmondragon/storefront/internal/options"
	"github.com/angelmondragon/storefront/pkg/types"
)

func persistedMatrix() []Variant {
	list := Generate([]options.Option{
		{Name: "SIZE", Values: []string{"S", "M"}},
		{Name: "COLOR", Values: []string{"RED", "BLUE"}},
	})
	for i := range list {
		list[i].ID = "v" + list[i].Name
	}
	return list
}

func TestResolveIsOrderIndependent(t *testing.T) {
	list := persistedMatrix()
	got, ok := Resolve(list, types.VariantAttributes{{Name: "COLOR", Value: "BLUE"}, {Name: "SIZE", Value: "M"}})
	if !ok || got.Name != "M / BLUE" {
		t.Fatalf("expected M / BLUE, got %+v ok=%v", got, ok)
	}
}

func TestResolveRequiresExactSet(t *testing.T) {
	list := persistedMatrix()
	if _, ok := Resolve(list, types.VariantAttributes{{Name: "SIZE", Value: "M"}}); ok {
		t.Fatal("partial selection must not resolve")
	}
	if _, ok := Resolve(list, types.VariantAttributes{{Name: "SIZE", Value: "XL"}, {Name: "COLOR", Value: "RED"}}); ok {
		t.Fatal("unknown value must not resolve")
	}
	if _, ok := Resolve(list, nil); ok {
		t.Fatal("empty selection must not resolve")
	}
	extra := types.VariantAttributes{{Name: "SIZE", Value: "M"}, {Name: "COLOR", Value: "RED"}, {Name: "FIT", Value: "SLIM"}}
	if _, ok := Resolve(list, extra); ok {
		t.Fatal("superset selection must not resolve")
	}
}

func TestFindByID(t *testing.T) {
	list := persistedMatrix()
	if v, ok := FindByID(list, "vS / BLUE"); !ok || v.Name != "S / BLUE" {
		t.Fatalf("unexpected lookup %+v %v", v, ok)
	}
	if _, ok := FindByID(list, ""); ok {
		t.Fatal("empty id must not match")
	}
}

func TestOptionsFromVariantsRoundTrips(t *testing.T) {
	opts := []options.Option{
		{Name: "SIZE", Values: []string{"S", "M"}},
		{Name: "COLOR", Values: []string{"RED", "BLUE"}},
	}
	got := OptionsFromVariants(Generate(opts))
	if !reflect.DeepEqual(got, opts) {
		t.Fatalf("unexpected options %+v", got)
	}
	if empty := OptionsFromVariants(nil); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil options, got %#v", empty)
	}
}

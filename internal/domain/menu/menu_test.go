package menu

import "testing"

func TestLookup(t *testing.T) {
	m := Default()
	if m.Len() == 0 {
		t.Fatal("default menu must not be empty")
	}

	r, ok := m.ByID("mapo-tofu")
	if !ok || r.Name != "Mapo Tofu" {
		t.Errorf("lookup failed: %v %+v", ok, r)
	}
	if _, ok := m.ByID("no-such-dish"); ok {
		t.Error("unknown id must miss")
	}
	if m.At(0).ID != "mapo-tofu" {
		t.Error("menu order must be preserved")
	}
}

func TestRecipesReturnsACopy(t *testing.T) {
	m := Default()
	list := m.Recipes()
	list[0].BasePrice = -1
	if m.At(0).BasePrice == -1 {
		t.Error("mutating the returned slice must not touch the menu")
	}
}

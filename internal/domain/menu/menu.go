// Package menu holds the immutable recipe reference data the stall sells from.
// This package is PURE and must NOT import any infrastructure packages.
package menu

// Recipe is a dish the stall can prepare. Immutable reference data.
type Recipe struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BasePrice       float64 `json:"base_price"`
	DifficultyLevel int     `json:"difficulty_level"`
}

// Menu is the configured set of recipes customers choose from.
type Menu struct {
	recipes []Recipe
	byID    map[string]int
}

// New builds a menu from the given recipes, preserving their order.
func New(recipes []Recipe) *Menu {
	m := &Menu{
		recipes: make([]Recipe, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	copy(m.recipes, recipes)
	for i, r := range m.recipes {
		m.byID[r.ID] = i
	}
	return m
}

// Default returns the stall's standard street-food menu.
func Default() *Menu {
	return New([]Recipe{
		{ID: "mapo-tofu", Name: "Mapo Tofu", BasePrice: 15.0, DifficultyLevel: 2},
		{ID: "dan-dan-noodles", Name: "Dan Dan Noodles", BasePrice: 12.0, DifficultyLevel: 2},
		{ID: "scallion-pancake", Name: "Scallion Pancake", BasePrice: 8.0, DifficultyLevel: 1},
		{ID: "twice-cooked-pork", Name: "Twice-Cooked Pork", BasePrice: 18.0, DifficultyLevel: 3},
	})
}

// Len returns the number of recipes on the menu.
func (m *Menu) Len() int {
	return len(m.recipes)
}

// At returns the recipe at index i. Used for random dish selection.
func (m *Menu) At(i int) Recipe {
	return m.recipes[i]
}

// ByID looks up a recipe by its identifier.
func (m *Menu) ByID(id string) (Recipe, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return m.recipes[i], true
}

// Recipes returns a copy of the full recipe list.
func (m *Menu) Recipes() []Recipe {
	out := make([]Recipe, len(m.recipes))
	copy(out, m.recipes)
	return out
}

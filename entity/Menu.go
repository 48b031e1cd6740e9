package entity

type Menu struct {
	Categories []MenuCategory `json:"categories" yaml:"categories"`
}

type MenuCategory struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Items []MenuItem `json:"items" yaml:"items"`
}

type MenuItem struct {
	ID              int     `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Description     string  `json:"description" yaml:"description"`
	Price           float64 `json:"price" yaml:"price"`
	Image           string  `json:"image,omitempty" yaml:"image"`
	Category        string  `json:"category" yaml:"-"`
	Available       bool    `json:"available" yaml:"available"`
	PreparationTime string  `json:"preparationTime" yaml:"preparation_time"`
}

// Item looks up a menu item by id across all categories.
func (m *Menu) Item(id int) (MenuItem, bool) {
	for _, c := range m.Categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return MenuItem{}, false
}

// Catalog holds the menu served for each restaurant; restaurants without their own menu get Default.
type Catalog struct {
	Default     Menu            `yaml:"default"`
	Restaurants map[string]Menu `yaml:"restaurants"`
}

func (c *Catalog) MenuFor(restaurantID string) Menu {
	if m, ok := c.Restaurants[restaurantID]; ok {
		return m
	}
	return c.Default
}

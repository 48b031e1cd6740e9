package configs

import (
	_ "embed"
	"fmt"
	"os"

	"rta-backend/entity"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// LoadCatalog reads the menu catalog from path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*entity.Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*entity.Catalog, error) {
	var c entity.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Restaurants == nil {
		c.Restaurants = map[string]entity.Menu{}
	}
	fillCategories(&c.Default)
	for id, m := range c.Restaurants {
		fillCategories(&m)
		c.Restaurants[id] = m
	}
	if err := validateMenu(c.Default); err != nil {
		return nil, err
	}
	for id, m := range c.Restaurants {
		if err := validateMenu(m); err != nil {
			return nil, fmt.Errorf("restaurant %s: %w", id, err)
		}
	}
	return &c, nil
}

func fillCategories(m *entity.Menu) {
	for ci := range m.Categories {
		for ii := range m.Categories[ci].Items {
			m.Categories[ci].Items[ii].Category = m.Categories[ci].ID
		}
	}
}

func validateMenu(m entity.Menu) error {
	seen := map[int]bool{}
	for _, c := range m.Categories {
		for _, it := range c.Items {
			if seen[it.ID] {
				return fmt.Errorf("catalog: duplicate item id %d", it.ID)
			}
			if it.Price < 0 {
				return fmt.Errorf("catalog: item %d has negative price", it.ID)
			}
			seen[it.ID] = true
		}
	}
	return nil
}

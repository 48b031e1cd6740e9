package services

import (
	"context"
	"fmt"

	"rta-backend/entity"
	"rta-backend/repository"
)

// CatalogService serves the restaurant directory and their menus.
type CatalogService struct {
	Restaurants *repository.RestaurantRepository
	Catalog     *entity.Catalog
}

func NewCatalogService(restaurants *repository.RestaurantRepository, catalog *entity.Catalog) *CatalogService {
	return &CatalogService{Restaurants: restaurants, Catalog: catalog}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	out, err := s.Restaurants.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Restaurant{}
	}
	return out, nil
}

func (s *CatalogService) Restaurant(ctx context.Context, id string) (*entity.Restaurant, error) {
	rest, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: restaurant %s", ErrNotFound, id)
		}
		return nil, err
	}
	return rest, nil
}

type RestaurantMenu struct {
	Restaurant *entity.Restaurant `json:"restaurant"`
	Menu       entity.Menu        `json:"menu"`
}

func (s *CatalogService) Menu(ctx context.Context, restaurantID string) (*RestaurantMenu, error) {
	rest, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return &RestaurantMenu{Restaurant: rest, Menu: s.Catalog.MenuFor(restaurantID)}, nil
}

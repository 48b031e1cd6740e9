package controllers

import (
	"rta-backend/pkg/resp"
	"rta-backend/services"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	Catalog *services.CatalogService
}

func NewRestaurantController(catalog *services.CatalogService) *RestaurantController {
	return &RestaurantController{Catalog: catalog}
}

// GET /api/restaurants
func (rc *RestaurantController) List(c *gin.Context) {
	list, err := rc.Catalog.ListRestaurants(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, list)
}

// GET /api/restaurants/:id
func (rc *RestaurantController) Detail(c *gin.Context) {
	r, err := rc.Catalog.Restaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, r)
}

// GET /api/restaurants/:id/menu
func (rc *RestaurantController) Menu(c *gin.Context) {
	m, err := rc.Catalog.Menu(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, m)
}

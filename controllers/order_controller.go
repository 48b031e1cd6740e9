package controllers

import (
	"rta-backend/pkg/resp"
	"rta-backend/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GET /api/orders?restaurantId=&status=&orderId=
func (oc *OrderController) List(c *gin.Context) {
	if id := c.Query("orderId"); id != "" {
		o, err := oc.Orders.Find(c.Request.Context(), id, c.Query("restaurantId"), c.Query("status"))
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, o)
		return
	}

	orders, err := oc.Orders.List(c.Request.Context(), c.Query("restaurantId"), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, orders)
}

// POST /api/orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	o, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	resp.Created(c, o)
}

// PUT /api/orders
func (oc *OrderController) Update(c *gin.Context) {
	var req services.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	o, err := oc.Orders.Update(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, o)
}

// DELETE /api/orders?orderId=
func (oc *OrderController) Cancel(c *gin.Context) {
	if err := oc.Orders.Cancel(c.Request.Context(), c.Query("orderId")); err != nil {
		handleError(c, err)
		return
	}
	resp.Message(c, "order cancelled")
}

package routes

import (
	"rta-backend/controllers"
	"rta-backend/middlewares"
	"rta-backend/pkg/resp"
	"rta-backend/services"
	"rta-backend/ws"

	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP layer needs from the bootstrap.
type Deps struct {
	Orders        *services.OrderService
	Notifications *services.NotificationService
	Auth          *services.AuthService
	Catalog       *services.CatalogService
	QR            *services.QRCodeService
	Tracking      *ws.TrackingHub
	VerifyToken   string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) { resp.OK(c, gin.H{"status": "ok"}) })

	orderCtrl := controllers.NewOrderController(d.Orders)
	authCtrl := controllers.NewAuthController(d.Auth)
	waCtrl := controllers.NewWhatsAppController(d.Notifications, d.VerifyToken)
	qrCtrl := controllers.NewQRCodeController(d.QR)
	restCtrl := controllers.NewRestaurantController(d.Catalog)

	api := r.Group("/api", middlewares.SessionMiddleware(d.Auth))
	{
		api.GET("/orders", orderCtrl.List)
		api.POST("/orders", orderCtrl.Create)
		api.PUT("/orders", orderCtrl.Update)
		api.DELETE("/orders", orderCtrl.Cancel)

		api.GET("/qrcode", qrCtrl.Image)
		api.POST("/qrcode", qrCtrl.Generate)

		api.GET("/whatsapp", waCtrl.Verify)
		api.POST("/whatsapp", waCtrl.Action)
		api.PUT("/whatsapp", waCtrl.Webhook)

		api.GET("/auth", authCtrl.Session)
		api.POST("/auth", authCtrl.Action)

		api.GET("/restaurants", restCtrl.List)
		api.GET("/restaurants/:id", restCtrl.Detail)
		api.GET("/restaurants/:id/menu", restCtrl.Menu)
	}

	if d.Tracking != nil {
		r.GET("/ws/orders/:orderId", d.Tracking.HandleWebSocket)
	}

	r.NoRoute(func(c *gin.Context) { resp.NotFound(c, "route not found") })
}

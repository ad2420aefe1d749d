package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/soluxsolar/solux-store/controllers"
	"github.com/soluxsolar/solux-store/middlewares"
	"github.com/soluxsolar/solux-store/services"
)

// Deps are the collaborator instances shared by the controllers. They are
// constructed once in main and injected here.
type Deps struct {
	DB      *gorm.DB
	Orders  *services.OrderService
	Gateway *services.RazorpayService
	Mailer  services.Mailer
	Outbox  *services.Outbox
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	userCtrl := controllers.NewUserController(deps.DB)
	productCtrl := controllers.NewProductController(deps.DB)
	consultCtrl := controllers.NewConsultationController(deps.DB, deps.Mailer, deps.Outbox)
	orderCtrl := controllers.NewOrderController(deps.Orders)
	paymentCtrl := controllers.NewPaymentController(deps.Gateway)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Public
		api.POST("/register", userCtrl.Register)
		api.POST("/login", userCtrl.Login)
		api.GET("/products", productCtrl.GetAllProducts)
		api.POST("/consult", consultCtrl.CreateConsultation)
		api.POST("/razorpay/create-order", paymentCtrl.CreateGatewayOrder)
		api.POST("/razorpay/verify-payment", paymentCtrl.VerifyPayment)

		// Authenticated customers
		auth := api.Group("/")
		auth.Use(middlewares.AuthMiddleware())
		{
			auth.POST("/orders", orderCtrl.CreateOrder)
			auth.POST("/my-orders", orderCtrl.MyOrders)
			auth.PUT("/orders/:id/cancel", orderCtrl.CancelOrder)
			auth.GET("/orders/:id/invoice", orderCtrl.Invoice)
		}

		// Admin
		admin := api.Group("/")
		admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
		{
			admin.GET("/orders", orderCtrl.GetAllOrders)
			admin.PUT("/orders/:id/status", orderCtrl.UpdateStatus)
			admin.POST("/products", productCtrl.CreateProduct)
			admin.DELETE("/products/:id", productCtrl.DeleteProduct)
			admin.GET("/consultations", consultCtrl.GetAllConsultations)
		}
	}

	return r
}

package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/soluxsolar/solux-store/config"
	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/router"
	"github.com/soluxsolar/solux-store/services"
	"github.com/soluxsolar/solux-store/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Collaborators are constructed once here and injected everywhere,
	// so tests can substitute fakes.
	gateway := services.NewRazorpayService(services.RazorpayConfigFromEnv())
	if err := gateway.ValidateConfig(); err != nil {
		utils.ErrorLogger.Printf("Razorpay configuration incomplete: %v", err)
	}

	mailer := services.NewSMTPMailer(services.SMTPConfigFromEnv())
	ledger := services.NewSheetsService(services.SheetsConfigFromEnv())
	invoices := services.NewInvoiceService(services.DefaultSeller())

	outbox := services.NewOutbox(256, 30*time.Second)
	outbox.Start()
	defer outbox.Stop()

	orders := services.NewOrderService(db, invoices, mailer, ledger, outbox)

	r := router.SetupRouter(router.Deps{
		DB:      db,
		Orders:  orders,
		Gateway: gateway,
		Mailer:  mailer,
		Outbox:  outbox,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Consultation{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

package config

import (
	"os"
	"strings"
	"time"

	"foodify/internal/api/handlers"
	"foodify/internal/api/routes"
	"foodify/internal/middleware"
	"foodify/internal/utils"
	"foodify/internal/utils/cache"
	"foodify/pkg/checkout"
	"foodify/pkg/delivery"
	"foodify/pkg/donation"
	"foodify/pkg/jwt"
	"foodify/pkg/notification"
	"foodify/pkg/order"
	"foodify/pkg/payment"
	"foodify/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	redisClient := cache.NewRedis(utils.GetConfig("REDIS_ADDR"))
	locationCache := cache.NewLocationCache(redisClient)

	var publisher notification.EventPublisher
	if brokers := utils.GetConfig("KAFKA_BROKERS"); brokers != "" {
		publisher, err = notification.NewSaramaPublisher(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("error connecting to kafka: %v", err)
		}
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	orderRepository := order.NewOrderRepository(db)
	deliveryRepository := delivery.NewDeliveryRepository(db)
	checkoutRepository := checkout.NewCheckoutRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	paymentGateway := payment.NewMidtransGateway()
	notificationService := notification.NewNotificationService(notificationRepository, publisher)
	userService := user.NewUserService(userRepository, jwtService)
	donationService := donation.NewDonationService(donationRepository, notificationService)
	orderService := order.NewOrderService(orderRepository, locationCache, notificationService)
	deliveryService := delivery.NewDeliveryService(deliveryRepository, locationCache, notificationService)
	checkoutService := checkout.NewCheckoutService(checkoutRepository, userRepository, paymentGateway, notificationService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	orderHandler := handlers.NewOrderHandler(orderService, validator)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService, validator)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		DonationHandler:     donationHandler,
		OrderHandler:        orderHandler,
		DeliveryHandler:     deliveryHandler,
		CheckoutHandler:     checkoutHandler,
		NotificationHandler: notificationHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

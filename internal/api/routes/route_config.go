package routes

import (
	"foodify/domain"
	"foodify/internal/api/handlers"
	"foodify/internal/middleware"
	"foodify/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	DonationHandler     handlers.DonationHandler
	OrderHandler        handlers.OrderHandler
	DeliveryHandler     handlers.DeliveryHandler
	CheckoutHandler     handlers.CheckoutHandler
	NotificationHandler handlers.NotificationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Donations()
	c.Orders()
	c.Delivery()
	c.Checkout()
	c.Notifications()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.JWTService))
	{
		donations.Post("", c.DonationHandler.CreateDonation)
		donations.Get("", c.DonationHandler.ListDonations)
		donations.Get("/mine", c.DonationHandler.GetMyDonations)
		donations.Get("/bookings", c.DonationHandler.GetMyBookings)
		donations.Get("/:id", c.DonationHandler.GetDonationByID)
		donations.Post("/book", c.DonationHandler.BookDonation)
		donations.Post("/bookings/:id/cancel", c.DonationHandler.CancelBooking)
		donations.Post("/bookings/:id/collect", c.DonationHandler.MarkCollected)
	}
}

func (c *Config) Orders() {
	orders := c.App.Group("/api/v1/orders", c.Middleware.AuthMiddleware(c.JWTService))
	{
		orders.Get("", c.OrderHandler.GetMyOrders)
		orders.Get("/restaurant", c.Middleware.OnlyRoles(domain.RoleRestaurantOwner), c.OrderHandler.GetRestaurantOrders)
		orders.Get("/:id", c.OrderHandler.GetOrderByID)
		orders.Get("/:id/track", c.OrderHandler.TrackOrder)
		orders.Patch("/:id/status", c.Middleware.OnlyRoles(domain.RoleRestaurantOwner), c.OrderHandler.UpdateOrderStatus)
		orders.Post("/:id/cancel", c.OrderHandler.CancelOrder)
	}
}

func (c *Config) Delivery() {
	delivery := c.App.Group("/api/v1/delivery", c.Middleware.AuthMiddleware(c.JWTService))
	{
		delivery.Post("/register", c.DeliveryHandler.RegisterAgent)
		delivery.Get("/profile", c.DeliveryHandler.GetProfile)
		delivery.Post("/availability", c.DeliveryHandler.ToggleAvailability)
		delivery.Get("/dashboard", c.DeliveryHandler.Dashboard)

		agentOnly := c.Middleware.OnlyRoles(domain.RoleDeliveryAgent)
		delivery.Post("/orders/:id/accept", agentOnly, c.DeliveryHandler.AcceptOrder)
		delivery.Post("/orders/:id/reject", agentOnly, c.DeliveryHandler.RejectOrder)
		delivery.Post("/orders/:id/pickup", agentOnly, c.DeliveryHandler.MarkPicked)
		delivery.Post("/orders/:id/deliver", agentOnly, c.DeliveryHandler.MarkDelivered)
		delivery.Post("/location", agentOnly, c.DeliveryHandler.UpdateLocation)
	}
}

func (c *Config) Checkout() {
	cart := c.App.Group("/api/v1/cart", c.Middleware.AuthMiddleware(c.JWTService))
	{
		cart.Get("", c.CheckoutHandler.GetCart)
		cart.Post("", c.CheckoutHandler.AddToCart)
		cart.Patch("", c.CheckoutHandler.UpdateCart)
		cart.Delete("/:id", c.CheckoutHandler.RemoveCartItem)
	}

	checkout := c.App.Group("/api/v1/checkout", c.Middleware.AuthMiddleware(c.JWTService))
	{
		checkout.Post("/intent", c.CheckoutHandler.CreateIntent)
		checkout.Post("/reconcile", c.CheckoutHandler.Reconcile)
	}
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	{
		notifications.Get("", c.NotificationHandler.GetMyNotifications)
		notifications.Post("/:id/read", c.NotificationHandler.MarkRead)
		notifications.Post("/read-all", c.NotificationHandler.MarkAllRead)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

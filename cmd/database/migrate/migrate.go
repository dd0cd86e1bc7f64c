package migration

import (
	"fmt"
	"log"

	"foodify/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"delivery agent", &entities.DeliveryAgent{}},
		{"restaurant", &entities.Restaurant{}},
		{"menu item", &entities.MenuItem{}},
		{"donation", &entities.Donation{}},
		{"donation booking", &entities.DonationBooking{}},
		{"cart", &entities.Cart{}},
		{"order", &entities.Order{}},
		{"order item", &entities.OrderItem{}},
		{"payment transaction", &entities.PaymentTransaction{}},
		{"notification", &entities.Notification{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Fatalf("Error migrating %s database: %v", m.name, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}

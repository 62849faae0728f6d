// Package seed holds the catalog and accounts a fresh terminal starts with.
package seed

import (
	"fmt"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func product(id, barcode, name string, category models.Category, price int64, stock int, image string) models.Product {
	return models.Product{
		ID:       id,
		Barcode:  barcode,
		Name:     name,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Image:    image,
	}
}

// Products returns the default catalog.
func Products() []models.Product {
	return []models.Product{
		product("1", "8901234567890", "Wireless Mouse", models.CategoryElectronics, 1500, 50, "🖱️"),
		product("2", "8901234567891", "USB Cable", models.CategoryElectronics, 500, 100, "🔌"),
		product("3", "8901234567892", "Keyboard", models.CategoryElectronics, 2500, 30, "⌨️"),
		product("4", "8901234567893", "Headphones", models.CategoryElectronics, 3500, 25, "🎧"),

		product("5", "8901234567894", "Rice 1kg", models.CategoryGroceries, 250, 200, "🌾"),
		product("6", "8901234567895", "Sugar 1kg", models.CategoryGroceries, 180, 150, "🍬"),
		product("7", "8901234567896", "Flour 1kg", models.CategoryGroceries, 200, 100, "🌾"),
		product("8", "8901234567897", "Cooking Oil 1L", models.CategoryGroceries, 450, 80, "🛢️"),

		product("9", "8901234567898", "Coca Cola 500ml", models.CategoryBeverages, 150, 300, "🥤"),
		product("10", "8901234567899", "Mineral Water 1L", models.CategoryBeverages, 100, 250, "💧"),
		product("11", "8901234567800", "Orange Juice 1L", models.CategoryBeverages, 350, 100, "🧃"),
		product("12", "8901234567801", "Tea Packet", models.CategoryBeverages, 280, 120, "🍵"),

		product("13", "8901234567802", "Potato Chips", models.CategorySnacks, 120, 200, "🥔"),
		product("14", "8901234567803", "Chocolate Bar", models.CategorySnacks, 150, 150, "🍫"),
		product("15", "8901234567804", "Biscuits Pack", models.CategorySnacks, 200, 180, "🍪"),
		product("16", "8901234567805", "Nuts Mix", models.CategorySnacks, 450, 80, "🥜"),

		product("17", "8901234567806", "Laundry Detergent", models.CategoryHousehold, 650, 100, "🧴"),
		product("18", "8901234567807", "Toilet Paper 4pk", models.CategoryHousehold, 380, 150, "🧻"),
		product("19", "8901234567808", "Dish Soap", models.CategoryHousehold, 280, 120, "🧽"),
		product("20", "8901234567809", "Garbage Bags", models.CategoryHousehold, 320, 90, "🗑️"),

		product("21", "8901234567810", "Shampoo 400ml", models.CategoryPersonalCare, 550, 80, "🧴"),
		product("22", "8901234567811", "Toothpaste", models.CategoryPersonalCare, 250, 150, "🦷"),
		product("23", "8901234567812", "Soap Bar", models.CategoryPersonalCare, 120, 200, "🧼"),
		product("24", "8901234567813", "Hand Sanitizer", models.CategoryPersonalCare, 350, 100, "🧴"),
	}
}

// BootstrapAdmin is the administrator account that always exists.
func BootstrapAdmin() models.User {
	return models.User{
		ID:       models.BootstrapAdminID,
		Username: "admin",
		Password: "admin1234",
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	}
}

// SeedCatalog fills an empty catalog with Products. A catalog that already
// holds products is left alone.
func SeedCatalog(repo repositories.ProductRepository) error {
	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := Products()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
	}
	zap.S().Infof("Seeded %d products", len(products))
	return nil
}

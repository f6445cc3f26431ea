// Package seed fills an empty store with the default accounts and the
// starter catalog.
package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/orbitronic/internal/details"
	"github.com/Skotchmaster/orbitronic/internal/hash"
	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/models"
)

type account struct {
	username, password, role string
}

var accounts = []account{
	{username: "admin", password: "admin123", role: models.RoleAdmin},
	{username: "user", password: "user123", role: models.RoleUser},
}

func specs(pairs ...string) details.Node {
	members := make([]details.Member, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		members = append(members, details.Member{Key: pairs[i], Value: details.StringNode(pairs[i+1])})
	}
	return details.ObjectNode(members...)
}

func withColors(n details.Node, colors ...string) details.Node {
	items := make([]details.Node, 0, len(colors))
	for _, c := range colors {
		items = append(items, details.StringNode(c))
	}
	return details.ObjectNode(append(n.Members(), details.Member{Key: "colors", Value: details.ArrayNode(items...)})...)
}

// Products is the starter catalog.
func Products() []models.Product {
	return []models.Product{
		{
			ID:          "iphone-15-pro",
			Category:    "phones",
			Name:        "iPhone 15 Pro",
			Price:       999,
			Description: "Latest Apple flagship phone",
			Image:       "iphone15pro.jpg",
			Details: withColors(specs(
				"screen", "6.1-inch Super Retina XDR display",
				"chip", "A17 Pro chip",
				"camera", "48MP Main | 12MP Ultra Wide | 12MP Telephoto",
				"battery", "Up to 23 hours video playback",
			), "Natural Titanium", "Blue Titanium", "White Titanium", "Black Titanium"),
		},
		{
			ID:          "samsung-s24",
			Category:    "phones",
			Name:        "Samsung Galaxy S24",
			Price:       899,
			Description: "Premium Android smartphone",
			Image:       "s24.jpg",
			Details: withColors(specs(
				"screen", "6.2-inch Dynamic AMOLED 2X",
				"chip", "Snapdragon 8 Gen 3",
				"camera", "50MP Main | 12MP Ultra Wide | 10MP Telephoto",
				"battery", "4,000 mAh",
			), "Phantom Black", "Cream", "Violet", "Mint"),
		},
		{
			ID:          "macbook-pro",
			Category:    "laptops",
			Name:        "MacBook Pro",
			Price:       1299,
			Description: "Powerful laptop for professionals",
			Image:       "macbook.jpg",
			Details: specs(
				"screen", "14-inch Liquid Retina XDR display",
				"chip", "M3 Pro chip",
				"memory", "Up to 36GB unified memory",
				"storage", "Up to 4TB SSD",
				"battery", "Up to 18 hours",
			),
		},
		{
			ID:          "dell-xps",
			Category:    "laptops",
			Name:        "Dell XPS 15",
			Price:       1199,
			Description: "Premium Windows laptop",
			Image:       "xps15.jpg",
			Details: specs(
				"screen", "15.6-inch 4K OLED touch display",
				"processor", "13th Gen Intel Core i9",
				"memory", "Up to 64GB DDR5",
				"storage", "Up to 4TB SSD",
				"battery", "Up to 12 hours",
			),
		},
	}
}

// Run creates the default accounts when there are no users and the starter
// catalog when there are no products. Each step is one transaction, so a
// second run changes nothing.
func Run(ctx context.Context, db *gorm.DB) error {
	l := logging.FromContext(ctx).With("component", "seed")

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, a := range accounts {
			h, err := hash.HashPassword(a.password)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.User{Username: a.username, PasswordHash: h, Role: a.role}).Error; err != nil {
				return err
			}
		}
		l.Info("seed_users", "count", len(accounts))
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		ps := Products()
		if err := tx.Create(&ps).Error; err != nil {
			return err
		}
		l.Info("seed_products", "count", len(ps))
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

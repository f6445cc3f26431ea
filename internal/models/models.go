package models

import (
	"github.com/Skotchmaster/orbitronic/internal/details"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"           json:"id"`
	Username     string `gorm:"size:50;uniqueIndex;not null"       json:"username"`
	PasswordHash string `gorm:"size:255;not null"                  json:"-"`
	Role         string `gorm:"size:20;not null;default:user"      json:"role"`
}

// Product is keyed by a caller-chosen slug such as "iphone-15-pro".
type Product struct {
	ID          string       `gorm:"primaryKey;size:50"          json:"id"`
	Category    string       `gorm:"size:50;not null;index"      json:"category"`
	Name        string       `gorm:"size:100;not null"           json:"name"`
	Price       int64        `gorm:"not null"                    json:"price"`
	Description string       `gorm:"type:text;not null"          json:"description"`
	Image       string       `gorm:"size:100;not null"           json:"image"`
	Details     details.Node `gorm:"type:text"                   json:"details"`
}

// Identity is who the current browser session belongs to. The zero value is
// an anonymous visitor.
type Identity struct {
	Username string
	Role     string
}

func (i Identity) Authenticated() bool { return i.Username != "" }
func (i Identity) IsAdmin() bool       { return i.Authenticated() && i.Role == RoleAdmin }

package models

import "time"

// SiteSettings is the singleton contact and branding row. The table holds at
// most one record with ID 1.
type SiteSettings struct {
	ID             int       `gorm:"column:id;primaryKey"`
	SiteName       string    `gorm:"column:site_name;not null;default:''"`
	Tagline        string    `gorm:"column:tagline;not null;default:''"`
	About          string    `gorm:"column:about;not null;default:''"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;not null;default:''"`
	Phone          string    `gorm:"column:phone;not null;default:''"`
	Email          string    `gorm:"column:email;not null;default:''"`
	Address        string    `gorm:"column:address;not null;default:''"`
	FacebookURL    string    `gorm:"column:facebook_url;not null;default:''"`
	InstagramURL   string    `gorm:"column:instagram_url;not null;default:''"`
	OpeningHours   string    `gorm:"column:opening_hours;not null;default:''"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package model

import (
	"time"
)

// ClickRecord is one outbound message tracked by link token. Rows are
// provisioned by the mailer; the tracker only updates them.
type ClickRecord struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Token       string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	ClicksCount *int64     `gorm:"column:clicks_count" json:"clicks_count"`
	LastClickAt *time.Time `gorm:"column:last_click_at" json:"last_click_at"`
	URLDestino  *string    `gorm:"column:url_destino;type:text" json:"url_destino"`
}

func (ClickRecord) TableName() string {
	return "envios_clicks"
}

// Clicks returns the stored count, treating NULL as zero
func (r ClickRecord) Clicks() int64 {
	if r.ClicksCount == nil {
		return 0
	}
	return *r.ClicksCount
}

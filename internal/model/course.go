package model

import "time"

type DeliveryType string

const (
	DeliveryOneToOne   DeliveryType = "1v1"
	DeliveryOneToThree DeliveryType = "1v3"
	DeliveryClass      DeliveryType = "class"
)

type Course struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	NameEn    string       `json:"name_en"`
	Subject   string       `json:"subject"`
	Delivery  DeliveryType `json:"delivery"`
	Price     int          `json:"price"`    // per lesson, in minor currency units
	Duration  int          `json:"duration"` // in minutes
	Status    string       `json:"status"`   // 'active' or 'inactive'
	CreatedAt time.Time    `json:"created_at"`
}

// DisplayName returns the primary name, falling back to the latin one
func (c *Course) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.NameEn
}

package model

import "time"

type Teacher struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NameEn    string    `json:"name_en"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"` // 'active' or 'inactive'
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the primary name, falling back to the latin one
func (t *Teacher) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.NameEn
}

package model

import "time"

// Student holds contact data and the prepaid lesson-credit balance.
// Balance is signed: a negative value means the student owes credits.
// Only the ledger service is allowed to change it.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NameEn    string    `json:"name_en"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Balance   int       `json:"balance"` // lesson credits
	Status    string    `json:"status"`  // 'active' or 'inactive'
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DisplayName returns the primary name, falling back to the latin one
func (s *Student) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.NameEn
}

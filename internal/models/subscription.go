package models

import "time"

// Subscription подписка пользователя на регулярную доставку.
// PlanName хранит отображаемое название плана из каталога.
type Subscription struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	PlanName  string     `json:"plan_name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

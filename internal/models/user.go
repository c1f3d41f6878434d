// Package models содержит доменные структуры магазина: пользователей, товары,
// заказы, подписки и платежи, а также типы запросов, которые приходят из JSON
// до валидации и преобразования в доменные сущности.
package models

import "time"

// Role роль пользователя.
type Role string

const (
	// RoleCustomer покупатель.
	RoleCustomer Role = "customer"
	// RoleAdmin администратор магазина.
	RoleAdmin Role = "admin"
	// RoleDriver курьер.
	RoleDriver Role = "driver"
)

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleDriver:
		return true
	}
	return false
}

// User представляет пользователя, пришедшего от провайдера идентификации.
// ID совпадает с subject провайдера.
type User struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Role                 Role       `json:"role"`
	Address              string     `json:"address"`
	PhoneNumber          *string    `json:"phone_number,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	LastLogin            *time.Time `json:"last_login,omitempty"`
	IsActive             bool       `json:"is_active"`
	WelcomeEmailSent     bool       `json:"welcome_email_sent"`
	CookiePolicyAccepted bool       `json:"cookie_policy_accepted"`
}

// Profile данные профиля, полученные от провайдера идентификации.
type Profile struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// ProfileUpdate изменения, которые пользователь вносит в свой профиль.
type ProfileUpdate struct {
	Address              *string `json:"address,omitempty" validate:"omitempty,max=500"`
	PhoneNumber          *string `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	CookiePolicyAccepted *bool   `json:"cookie_policy_accepted,omitempty"`
}

// UserUpdate изменения пользователя, доступные администратору.
type UserUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	Role        *Role   `json:"role,omitempty" validate:"omitempty,oneof=customer admin driver"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

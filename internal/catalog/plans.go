// Package catalog содержит статическую таблицу планов, расчет стоимости заказа,
// зоны доставки и разбор адреса. Таблица не хранится в базе и не меняется
// во время работы сервиса.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlanID идентификатор плана.
type PlanID string

const (
	PlanMonthly    PlanID = "monthly"
	PlanSemiannual PlanID = "semiannual"
	PlanAnnual     PlanID = "annual"
	PlanOneTime    PlanID = "one_time"
)

// Plan описание плана для витрины и расчета цены.
type Plan struct {
	ID        PlanID          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	// Multiplier количество оплачиваемых месяцев в одном платеже.
	Multiplier int `json:"multiplier"`
	// DurationMonths срок подписки, 0 для разовой покупки.
	DurationMonths int      `json:"duration_months"`
	Features       []string `json:"features"`
}

// Recurring сообщает, создается ли подписка для плана.
func (p Plan) Recurring() bool {
	return p.ID != PlanOneTime
}

// DeliveryWindows допустимые окна доставки (понедельник - суббота).
var DeliveryWindows = []string{"AM (7am - 12pm)"}

var plans = []Plan{
	{
		ID:             PlanAnnual,
		Name:           "Suscripción Anual",
		BasePrice:      decimal.RequireFromString("720.00"),
		Multiplier:     11,
		DurationMonths: 12,
		Features: []string{
			"Entrega cada dos semanas",
			"Envío gratis",
			"Descuento del 29%",
			"Descuento adicional del 40%",
			"Personalización incluida",
			"Primer mes gratis",
		},
	},
	{
		ID:             PlanSemiannual,
		Name:           "Suscripción Semestral",
		BasePrice:      decimal.RequireFromString("899.00"),
		Multiplier:     6,
		DurationMonths: 6,
		Features: []string{
			"Entrega cada dos semanas",
			"Envío gratis",
			"Descuento del 29%",
			"Descuento adicional del 25%",
			"Personalización incluida",
		},
	},
	{
		ID:             PlanMonthly,
		Name:           "Suscripción Mensual",
		BasePrice:      decimal.RequireFromString("1080.00"),
		Multiplier:     1,
		DurationMonths: 1,
		Features: []string{
			"Entrega cada dos semanas",
			"Envío gratis",
			"Descuento del 29%",
			"Descuento adicional del 10%",
		},
	},
	{
		ID:         PlanOneTime,
		Name:       "Sin Suscripción",
		BasePrice:  decimal.RequireFromString("850.00"),
		Multiplier: 1,
		Features: []string{
			"Compra única de alfombra de césped",
			"Envío gratis",
			"Pago único",
		},
	},
}

// Plans возвращает копию таблицы планов в порядке витрины.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// Lookup ищет план по идентификатору или отображаемому названию.
func Lookup(key string) (Plan, bool) {
	key = strings.TrimSpace(key)
	for _, p := range plans {
		if string(p.ID) == key || strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Plan{}, false
}

// ValidDeliveryWindow проверяет окно доставки.
func ValidDeliveryWindow(w string) bool {
	for _, dw := range DeliveryWindows {
		if dw == w {
			return true
		}
	}
	return false
}

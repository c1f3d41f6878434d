package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPromoCode промокод на разовую покупку.
const DefaultPromoCode = "VERDEHN"

var promoDiscount = decimal.NewFromFloat(0.20)

// Price результат расчета стоимости.
type Price struct {
	Base       decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	PromoValid bool
}

// Pricer считает стоимость заказа по таблице планов.
type Pricer struct {
	promoCode string
}

// NewPricer создает Pricer с заданным промокодом. Пустой код заменяется на DefaultPromoCode.
func NewPricer(promoCode string) *Pricer {
	if strings.TrimSpace(promoCode) == "" {
		promoCode = DefaultPromoCode
	}
	return &Pricer{promoCode: promoCode}
}

// Compute рассчитывает итоговую стоимость плана.
// Промокод действует только на разовую покупку и дает скидку 20%.
// Годовой план оплачивается за 11 месяцев, полугодовой за 6.
func (p *Pricer) Compute(plan Plan, promo string) Price {
	base := plan.BasePrice
	price := Price{Base: base, Discount: decimal.Zero}

	if plan.ID == PlanOneTime && strings.EqualFold(strings.TrimSpace(promo), p.promoCode) {
		price.Discount = base.Mul(promoDiscount).Round(2)
		price.PromoValid = true
	}

	multiplier := plan.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	price.Total = base.Sub(price.Discount).Mul(decimal.NewFromInt(int64(multiplier))).Round(2)
	return price
}

// ComputeTotal считает стоимость с промокодом по умолчанию.
func ComputeTotal(plan Plan, promo string) decimal.Decimal {
	return NewPricer(DefaultPromoCode).Compute(plan, promo).Total
}

// ToUSD переводит сумму в лемпирах в доллары по курсу rate, округляя до центов.
func ToUSD(amount decimal.Decimal, rate float64) decimal.Decimal {
	if rate <= 0 {
		return amount.Round(2)
	}
	return amount.Div(decimal.NewFromFloat(rate)).Round(2)
}

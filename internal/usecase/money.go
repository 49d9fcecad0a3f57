package usecase

import (
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals returns subtotal = round2(sum(price*qty)) and total = max(0, subtotal-discount).
func ComputeTotals(items []model.LineItem, discount float64) model.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	d := decimal.NewFromFloat(discount).Round(2)
	if d.IsNegative() {
		d = decimal.Zero
	}

	total := subtotal.Sub(d)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return model.Totals{
		Subtotal: subtotal.InexactFloat64(),
		Discount: d.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// AppliedDiscount returns the part of the requested discount that actually reduced the order:
// subtotal minus total, never above the requested discount and never negative.
func AppliedDiscount(order model.PendingOrder) float64 {
	applied := decimal.NewFromFloat(order.Subtotal).Sub(decimal.NewFromFloat(order.Total)).Round(2)
	requested := decimal.NewFromFloat(order.Discount).Round(2)
	if requested.LessThan(applied) {
		applied = requested
	}
	if applied.IsNegative() {
		return 0
	}
	return applied.InexactFloat64()
}

const consolidatedLineTitle = "Compra en Mercadillo"

// ScaleLinePrices spreads total over the cart lines so that the provider shown line totals add up
// to the discounted total exactly. Every unit keeps a price of at least 0.01: each line first gets
// one cent per unit, the rest of total is shared in proportion to the original line totals with a
// running remainder. A line whose share does not divide evenly by its quantity is split in two
// lines one cent apart. When total cannot cover one cent per unit the cart is sent as a single
// line priced at total.
func ScaleLinePrices(items []model.LineItem, totals model.Totals) []model.LineItem {
	scaled := make([]model.LineItem, len(items))
	copy(scaled, items)

	subtotal := decimal.NewFromFloat(totals.Subtotal)
	total := decimal.NewFromFloat(totals.Total)
	if len(items) == 0 || subtotal.IsZero() || subtotal.Equal(total) {
		return scaled
	}

	totalCents := toCents(total)
	lineCents := make([]int64, len(items))
	var sumCents, units int64
	for i, item := range items {
		if item.Quantity <= 0 {
			return consolidatedLine(items, total)
		}
		qty := int64(item.Quantity)
		lineCents[i] = toCents(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(qty)))
		sumCents += lineCents[i]
		units += qty
	}
	if sumCents <= 0 || totalCents < units {
		return consolidatedLine(items, total)
	}

	extra := decimal.NewFromInt(totalCents - units)
	out := make([]model.LineItem, 0, len(items)+1)
	var cumulative, assigned int64
	for i, item := range items {
		cumulative += lineCents[i]
		share := extra.Mul(decimal.NewFromInt(cumulative)).Div(decimal.NewFromInt(sumCents)).Round(0).IntPart() - assigned
		assigned += share

		qty := int64(item.Quantity)
		target := qty + share
		base, rem := target/qty, target%qty

		line := item
		line.UnitPrice = fromCents(base)
		if rem == 0 {
			out = append(out, line)
			continue
		}
		line.Quantity = int(qty - rem)
		bumped := item
		bumped.Quantity = int(rem)
		bumped.UnitPrice = fromCents(base + 1)
		out = append(out, line, bumped)
	}
	return out
}

func consolidatedLine(items []model.LineItem, total decimal.Decimal) []model.LineItem {
	line := model.LineItem{ID: "cart", Title: consolidatedLineTitle, Quantity: 1, UnitPrice: total.Round(2).InexactFloat64()}
	if len(items) == 1 {
		line.ID = items[0].ID
		line.Title = items[0].Title
		line.PictureURL = items[0].PictureURL
	}
	return []model.LineItem{line}
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// CouponDiscount returns the amount coupon takes off subtotal.
func CouponDiscount(coupon model.Coupon, subtotal float64) float64 {
	sub := decimal.NewFromFloat(subtotal)
	value := decimal.NewFromFloat(coupon.Value)

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = sub.Mul(value).Div(hundred).Round(2)
	case model.DiscountTypeFixed:
		discount = decimal.Min(value, sub)
	default:
		return 0
	}

	if discount.IsNegative() {
		return 0
	}
	return discount.InexactFloat64()
}

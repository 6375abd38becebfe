package pricing

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is one cart line joined with live catalog data, as produced by the
// cart snapshot at checkout time.
type Line struct {
	ProductID      string
	ProductName    string
	UnitPrice      float64
	Quantity       int
	DiscountPct    float64 // 0..100; 0 means no discount
	DiscountActive bool
	DiscountStart  time.Time
	DiscountEnd    time.Time
}

// PricedLine is a Line with the computed discount breakdown. DiscountAmount
// is per unit; TotalDiscount and LineTotal account for quantity.
type PricedLine struct {
	Line
	DiscountAmount  float64
	DiscountedPrice float64
	TotalDiscount   float64
	LineTotal       float64
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// discountApplies gates the percentage on the active flag and the validity
// window, inclusive on both ends.
func discountApplies(l Line, now time.Time) bool {
	if l.DiscountPct <= 0 || !l.DiscountActive {
		return false
	}
	if now.Before(l.DiscountStart) || now.After(l.DiscountEnd) {
		return false
	}
	return true
}

// PriceLine computes the discounted breakdown for a single line. Rounding is
// applied at the unit level before multiplying by quantity.
func PriceLine(l Line, now time.Time) (PricedLine, error) {
	if l.Quantity < 1 {
		return PricedLine{}, ErrInvalidQuantity
	}

	p := PricedLine{Line: l}
	if discountApplies(l, now) {
		p.DiscountAmount = Round2(l.UnitPrice * l.DiscountPct / 100)
	} else {
		p.DiscountPct = 0
	}
	p.DiscountedPrice = Round2(l.UnitPrice - p.DiscountAmount)
	p.TotalDiscount = Round2(p.DiscountAmount * float64(l.Quantity))
	p.LineTotal = Round2(p.DiscountedPrice * float64(l.Quantity))
	return p, nil
}

// PriceCart prices every line and returns the cart total. The caller is
// responsible for rejecting an empty cart before any writes happen.
func PriceCart(lines []Line, now time.Time) ([]PricedLine, float64, error) {
	priced := make([]PricedLine, 0, len(lines))
	var total float64
	for _, l := range lines {
		p, err := PriceLine(l, now)
		if err != nil {
			return nil, 0, err
		}
		priced = append(priced, p)
		total += p.LineTotal
	}
	return priced, Round2(total), nil
}

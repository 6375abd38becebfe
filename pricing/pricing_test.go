package pricing

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeLine(price float64, qty int, pct float64) Line {
	return Line{
		ProductID:      "p1",
		ProductName:    "widget",
		UnitPrice:      price,
		Quantity:       qty,
		DiscountPct:    pct,
		DiscountActive: true,
		DiscountStart:  now.Add(-24 * time.Hour),
		DiscountEnd:    now.Add(24 * time.Hour),
	}
}

func TestPriceLineActiveDiscount(t *testing.T) {
	// $50.00 x 2 at 20% => $10.00 off per unit, $40.00 each, $80.00 total
	p, err := PriceLine(activeLine(50, 2, 20), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountAmount != 10 {
		t.Errorf("discount amount = %v, want 10", p.DiscountAmount)
	}
	if p.DiscountedPrice != 40 {
		t.Errorf("discounted price = %v, want 40", p.DiscountedPrice)
	}
	if p.TotalDiscount != 20 {
		t.Errorf("total discount = %v, want 20", p.TotalDiscount)
	}
	if p.LineTotal != 80 {
		t.Errorf("line total = %v, want 80", p.LineTotal)
	}
}

func TestPriceLineExpiredWindow(t *testing.T) {
	l := activeLine(50, 2, 20)
	l.DiscountStart = now.Add(-48 * time.Hour)
	l.DiscountEnd = now.Add(-24 * time.Hour)

	p, err := PriceLine(l, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountedPrice != 50 {
		t.Errorf("discounted price = %v, want 50", p.DiscountedPrice)
	}
	if p.LineTotal != 100 {
		t.Errorf("line total = %v, want 100", p.LineTotal)
	}
	if p.DiscountPct != 0 {
		t.Errorf("inapplicable discount should be zeroed, got %v", p.DiscountPct)
	}
}

func TestPriceLineInactiveDiscount(t *testing.T) {
	l := activeLine(50, 1, 20)
	l.DiscountActive = false

	p, err := PriceLine(l, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountAmount != 0 || p.DiscountedPrice != 50 {
		t.Errorf("inactive discount applied: amount=%v price=%v", p.DiscountAmount, p.DiscountedPrice)
	}
}

func TestPriceLineWindowBoundsInclusive(t *testing.T) {
	l := activeLine(100, 1, 10)
	l.DiscountStart = now
	l.DiscountEnd = now

	p, err := PriceLine(l, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountAmount != 10 {
		t.Errorf("boundary timestamp should still discount, got amount=%v", p.DiscountAmount)
	}
}

func TestPriceLineZeroPercent(t *testing.T) {
	p, err := PriceLine(activeLine(50, 3, 0), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountedPrice != 50 || p.LineTotal != 150 {
		t.Errorf("zero percent should be a no-op, got price=%v total=%v", p.DiscountedPrice, p.LineTotal)
	}
}

func TestPriceLineUnitLevelRounding(t *testing.T) {
	// 33.335 * 10% = 3.3335 -> rounds to 3.33 per unit BEFORE multiplying.
	// Unit price 33.335 -> discounted 30.01 (33.335-3.33=30.005 -> 30.01 at 2dp).
	l := activeLine(33.335, 3, 10)
	p, err := PriceLine(l, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DiscountAmount != 3.33 {
		t.Errorf("unit discount = %v, want 3.33", p.DiscountAmount)
	}
	if p.LineTotal != Round2(p.DiscountedPrice*3) {
		t.Errorf("line total %v not derived from rounded unit price", p.LineTotal)
	}
}

func TestPriceLineRejectsNonPositiveQuantity(t *testing.T) {
	if _, err := PriceLine(activeLine(10, 0, 0), now); err != ErrInvalidQuantity {
		t.Errorf("qty 0: got err=%v, want ErrInvalidQuantity", err)
	}
	if _, err := PriceLine(activeLine(10, -2, 0), now); err != ErrInvalidQuantity {
		t.Errorf("qty -2: got err=%v, want ErrInvalidQuantity", err)
	}
}

func TestPriceCartTotalIsSumOfLineTotals(t *testing.T) {
	lines := []Line{
		activeLine(50, 2, 20),   // 80.00
		activeLine(19.99, 1, 0), // 19.99
	}
	priced, total, err := PriceCart(lines, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, p := range priced {
		sum += p.LineTotal
	}
	if total != Round2(sum) {
		t.Errorf("total = %v, want %v", total, Round2(sum))
	}
	if total != 99.99 {
		t.Errorf("total = %v, want 99.99", total)
	}
}

func TestPriceCartEmpty(t *testing.T) {
	priced, total, err := PriceCart(nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(priced) != 0 || total != 0 {
		t.Errorf("empty cart should price to nothing, got %d lines total=%v", len(priced), total)
	}
}

package cart

import (
	"github.com/shopspring/decimal"
	"storefront-service/internal/models"
)

// Ledger is the cart of one session: at most one line per product, kept in
// the order lines were first added. A Ledger is not safe for concurrent use;
// the session manager serialises access per session.
type Ledger struct {
	lines []models.CartLine
}

// NewLedger builds a ledger from already-normalised lines
func NewLedger(lines []models.CartLine) *Ledger {
	l := &Ledger{}
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 || l.index(line.ProductID) >= 0 {
			continue
		}
		l.lines = append(l.lines, line)
	}
	return l
}

func (l *Ledger) index(productID string) int {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// SetQuantity makes qty the absolute quantity of the product's line.
// qty <= 0 removes the line; removing an absent line is a no-op. A new line
// snapshots the product's title, price and image. It reports whether the
// ledger changed.
func (l *Ledger) SetQuantity(p models.Product, qty int) bool {
	i := l.index(p.ID)
	if qty <= 0 {
		if i < 0 {
			return false
		}
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
		return true
	}
	if i >= 0 {
		if l.lines[i].Quantity == qty {
			return false
		}
		l.lines[i].Quantity = qty
		return true
	}
	l.lines = append(l.lines, models.CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.PriceValue(),
		Image:     p.Image,
		Quantity:  qty,
	})
	return true
}

// AddOne adds a single unit of the product
func (l *Ledger) AddOne(p models.Product) {
	l.SetQuantity(p, l.Quantity(p.ID)+1)
}

// Remove drops the product's line
func (l *Ledger) Remove(productID string) bool {
	return l.SetQuantity(models.Product{ID: productID}, 0)
}

// Quantity returns the quantity on the product's line, 0 when absent
func (l *Ledger) Quantity(productID string) int {
	if i := l.index(productID); i >= 0 {
		return l.lines[i].Quantity
	}
	return 0
}

// Line returns the product's line if present
func (l *Ledger) Line(productID string) (models.CartLine, bool) {
	if i := l.index(productID); i >= 0 {
		return l.lines[i], true
	}
	return models.CartLine{}, false
}

// Lines returns a copy of the lines in insertion order
func (l *Ledger) Lines() []models.CartLine {
	out := make([]models.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// LineCount is the number of distinct lines (the cart badge)
func (l *Ledger) LineCount() int {
	return len(l.lines)
}

// ItemCount is the sum of quantities over all lines
func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal is the sum of price × quantity over all lines
func (l *Ledger) Subtotal() float64 {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.InexactFloat64()
}

func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

// Clear empties the whole cart
func (l *Ledger) Clear() {
	l.lines = nil
}

package docflow

import "github.com/shopspring/decimal"

// Line is one row of a document's item list
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Total returns quantity × unit price for a single line. Negative or zero
// inputs propagate arithmetically; validation belongs to the handlers.
func (l Line) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Recalculate computes per-line totals and the document grand total from
// scratch. Totals are always recomputed over the full item list rather than
// maintained incrementally, so repeated calls on the same input are
// identical and no drift can accumulate.
func Recalculate(lines []Line) (lineTotals []decimal.Decimal, grandTotal decimal.Decimal) {
	lineTotals = make([]decimal.Decimal, len(lines))
	grandTotal = decimal.Zero
	for i, l := range lines {
		lineTotals[i] = l.Total()
		grandTotal = grandTotal.Add(lineTotals[i])
	}
	return lineTotals, grandTotal
}

// CostPerPerson divides a dispatch grand total by the number of people fed.
// A non-positive peopleFed yields zero, never a division error; the zero is
// stored and the presentation layer decides how to render "not applicable".
func CostPerPerson(grandTotal decimal.Decimal, peopleFed int) decimal.Decimal {
	if peopleFed <= 0 {
		return decimal.Zero
	}
	return grandTotal.Div(decimal.NewFromInt(int64(peopleFed)))
}

package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/invoice/model"
)

// DocumentTotals is the reconciled footer of an invoice after the document
// discount has been spread across its lines.
type DocumentTotals struct {
	SubTotal   decimal.Decimal // sum of taxable values
	GSTTotal   decimal.Decimal
	Discount   decimal.Decimal // resolved document discount amount
	GrandTotal decimal.Decimal
}

// AllocateDocumentDiscount spreads a document-level discount across lines in
// proportion to their totals, then re-derives each line's tax split from its
// final total. Line totals are integers after allocation and always sum to
// the grand total exactly: the fractional remainder is handed out one unit
// at a time to the lines with the largest fractional parts.
func AllocateDocumentDiscount(lines []model.InvoiceLine, discountValue decimal.Decimal, discountType string) ([]model.InvoiceLine, DocumentTotals) {
	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.Total)
	}

	discount := discountValue
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discountType == model.DiscountPercentage {
		discount = gross.Mul(discount).Div(hundred)
	}
	if discount.GreaterThan(gross) {
		discount = gross
	}

	grandTotal := gross.Sub(discount).Round(0)
	if grandTotal.IsNegative() {
		grandTotal = decimal.Zero
	}

	allocated := allocateProportional(lines, gross, grandTotal)

	out := make([]model.InvoiceLine, len(lines))
	totals := DocumentTotals{
		Discount:   discount.Round(0),
		GrandTotal: grandTotal,
	}

	for i, l := range lines {
		share := l.Total.Sub(allocated[i])
		l.Discount = l.Discount.Add(share)
		l.Total = allocated[i]

		taxable, gst := splitInclusive(l.Total, l.GSTPercent)
		half := gst.Div(decimal.NewFromInt(2))
		l.TaxableValue = taxable
		l.GSTAmount = gst
		l.CGST = half
		l.SGST = half

		totals.SubTotal = totals.SubTotal.Add(taxable)
		totals.GSTTotal = totals.GSTTotal.Add(gst)
		out[i] = l
	}

	totals.SubTotal = totals.SubTotal.Round(0)
	totals.GSTTotal = totals.GSTTotal.Round(0)

	return out, totals
}

// allocateProportional splits grandTotal across lines weighted by their
// pre-discount totals, using the largest-remainder method so the integer
// parts reconcile exactly. Ties are broken by the larger pre-rounding value,
// then by position.
func allocateProportional(lines []model.InvoiceLine, gross, grandTotal decimal.Decimal) []decimal.Decimal {
	n := len(lines)
	allocated := make([]decimal.Decimal, n)
	if n == 0 {
		return allocated
	}

	if !gross.IsPositive() {
		for i := range allocated {
			allocated[i] = decimal.Zero
		}
		return allocated
	}

	type share struct {
		index    int
		exact    decimal.Decimal
		fraction decimal.Decimal
	}

	shares := make([]share, n)
	floorSum := decimal.Zero
	for i, l := range lines {
		exact := l.Total.Div(gross).Mul(grandTotal)
		floor := exact.Floor()
		allocated[i] = floor
		floorSum = floorSum.Add(floor)
		shares[i] = share{index: i, exact: exact, fraction: exact.Sub(floor)}
	}

	remainder := int(grandTotal.Sub(floorSum).IntPart())
	if remainder <= 0 {
		return allocated
	}

	sort.SliceStable(shares, func(a, b int) bool {
		if !shares[a].fraction.Equal(shares[b].fraction) {
			return shares[a].fraction.GreaterThan(shares[b].fraction)
		}
		return shares[a].exact.GreaterThan(shares[b].exact)
	})

	one := decimal.NewFromInt(1)
	for i := 0; i < remainder && i < len(shares); i++ {
		allocated[shares[i].index] = allocated[shares[i].index].Add(one)
	}

	return allocated
}

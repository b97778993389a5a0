package service

import (
	"time"

	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/invoice/model"
	"phoneshop-backend/pkg/logger"
)

// BuildEMIPlan builds the instalment plan for an EMI or Mixed settlement.
// A request carrying a monthly instalment is treated as a pre-computed plan
// and passed through; otherwise the plan is derived from rate, tenure and
// down payment using flat interest on the grand total.
func BuildEMIPlan(req *model.EMIPlanRequest, grandTotal decimal.Decimal, paymentMode string, now time.Time) *model.EMIDetails {
	if req == nil {
		return nil
	}

	if req.MonthlyInstallment != nil {
		plan := &model.EMIDetails{
			RateOfInterest:     req.RateOfInterest,
			TenureMonths:       req.TenureMonths,
			DownPayment:        req.DownPayment,
			MonthlyInstallment: req.MonthlyInstallment.Round(0),
			Installments:       req.Installments,
			NextDueDate:        now.AddDate(0, 1, 0),
		}
		if req.TotalPaid != nil {
			plan.TotalPaid = *req.TotalPaid
		}
		if req.NextDueDate != nil {
			plan.NextDueDate = *req.NextDueDate
		}
		if len(plan.Installments) == 0 {
			// a pre-computed plan still opens with the down payment on record
			plan.Installments = []model.Installment{
				{
					Amount:      plan.DownPayment,
					PaymentMode: paymentMode,
					PaymentDate: now,
					Note:        model.InstallmentNoteDownPayment,
				},
			}
			if req.TotalPaid == nil {
				plan.TotalPaid = plan.DownPayment
			}
		}
		return plan
	}

	rate := req.RateOfInterest
	if rate.IsNegative() {
		rate = decimal.Zero
	}

	tenure := req.TenureMonths
	if tenure < 1 {
		tenure = 1
	}

	down := req.DownPayment
	if down.IsNegative() {
		down = decimal.Zero
	}
	if down.GreaterThan(grandTotal) {
		down = grandTotal
	}

	interest := grandTotal.Mul(rate).Div(hundred)
	monthly := grandTotal.Add(interest).Sub(down).Div(decimal.NewFromInt(int64(tenure))).Round(0)

	return &model.EMIDetails{
		RateOfInterest:     rate,
		TenureMonths:       tenure,
		DownPayment:        down,
		MonthlyInstallment: monthly,
		TotalPaid:          down, // the down payment is the first money in
		NextDueDate:        now.AddDate(0, 1, 0),
		Installments: []model.Installment{
			{
				Amount:      down,
				PaymentMode: paymentMode,
				PaymentDate: now,
				Note:        model.InstallmentNoteDownPayment,
			},
		},
	}
}

// ApplyInstallment records one EMI payment on the invoice: the instalment is
// appended, the running total updated, and the next due date advanced one
// month from its previous value (not from the payment date, so late payers
// keep their original schedule). The invoice completes once total paid
// covers principal plus flat interest.
func ApplyInstallment(inv *model.Invoice, amount decimal.Decimal, paymentMode, note string, now time.Time) error {
	if inv.EMIDetails == nil {
		return model.ErrEMINotFound
	}
	if !amount.IsPositive() {
		return model.ErrInvalidInstallment
	}

	emi := inv.EMIDetails
	emi.Installments = append(emi.Installments, model.Installment{
		Amount:      amount,
		PaymentMode: paymentMode,
		PaymentDate: now,
		Note:        note,
	})

	emi.TotalPaid = emi.TotalPaid.Add(amount).Round(0)
	emi.NextDueDate = emi.NextDueDate.AddDate(0, 1, 0)

	if emi.TotalPaid.GreaterThanOrEqual(emi.TotalPayable(inv.GrandTotal)) {
		inv.Status = model.StatusEMICompleted
	}

	return nil
}

// CheckMixedPayments compares the split-tender legs against the declared
// paid amount. A small delta is expected from rounding; anything beyond one
// unit is logged but never blocks the sale, matching counter practice where
// the cashier's declared total wins.
func CheckMixedPayments(payments []model.MixedPaymentRequest, paidAmount decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Amount.IsPositive() {
			sum = sum.Add(p.Amount)
		}
	}

	if paidAmount.IsZero() {
		return sum
	}

	delta := sum.Sub(paidAmount).Abs()
	if delta.GreaterThan(decimal.NewFromInt(1)) {
		logger.Warn("Mixed payment sum does not match paid amount",
			map[string]interface{}{
				"mixed_total": sum.String(),
				"paid_amount": paidAmount.String(),
			})
	}

	return sum
}

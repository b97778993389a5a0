package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Customer
// =====================================================
// Customer is a buyer identified by mobile number. Invoicing finds or
// creates them on the fly, so a walk-in sale never stalls on registration.
// OutstandingBalance tracks unpaid invoice amounts and EMI principal; it is
// floored at zero so overpayments never show as negative debt.
type Customer struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Mobile             string          `json:"mobile"`
	Address            string          `json:"address"`
	IDProof            string          `json:"id_proof"`
	PurchaseHistory    []uuid.UUID     `json:"purchase_history"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

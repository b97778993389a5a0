package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidMobile(t *testing.T) {
	tests := []struct {
		mobile string
		want   bool
	}{
		{"9876543210", true},
		{"6123456789", true},
		{"5876543210", false}, // must start 6-9
		{"987654321", false},  // too short
		{"98765432101", false},
		{"98765abc10", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidMobile(tt.mobile), "mobile %q", tt.mobile)
	}
}

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizeMobile("  9876543210 "))
}

func TestCreateCustomerRequestValidate(t *testing.T) {
	valid := CreateCustomerRequest{Name: "Ravi", Mobile: " 9876543210 "}
	require.NoError(t, valid.Validate())

	assert.Error(t, CreateCustomerRequest{Mobile: "9876543210"}.Validate())
	assert.Error(t, CreateCustomerRequest{Name: "Ravi", Mobile: "12345"}.Validate())
}

func TestCreateCustomerRequestToEntity(t *testing.T) {
	c := CreateCustomerRequest{
		Name:    "  Ravi Kumar ",
		Mobile:  " 9876543210",
		Address: " MG Road ",
	}.ToEntity()

	assert.Equal(t, "Ravi Kumar", c.Name)
	assert.Equal(t, "9876543210", c.Mobile)
	assert.Equal(t, "MG Road", c.Address)
	assert.NotNil(t, c.PurchaseHistory)
	assert.Empty(t, c.PurchaseHistory)
	assert.True(t, c.OutstandingBalance.IsZero())
}

func TestUpdateCustomerRequestApply(t *testing.T) {
	c := CreateCustomerRequest{Name: "Ravi", Mobile: "9876543210", Address: "MG Road"}.ToEntity()

	name := " Ravi K "
	mobile := "9123456780 "
	UpdateCustomerRequest{Name: &name, Mobile: &mobile}.Apply(c)

	assert.Equal(t, "Ravi K", c.Name)
	assert.Equal(t, "9123456780", c.Mobile)
	assert.Equal(t, "MG Road", c.Address, "unset fields stay untouched")
}

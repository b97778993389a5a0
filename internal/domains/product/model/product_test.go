package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIMEISlotsPerUnit(t *testing.T) {
	assert.Equal(t, 2, (&Product{SIMType: SIMTypeDual}).IMEISlotsPerUnit())
	assert.Equal(t, 1, (&Product{SIMType: SIMTypeSingle}).IMEISlotsPerUnit())
	assert.Equal(t, 1, (&Product{SIMType: SIMTypeNone}).IMEISlotsPerUnit())
}

func TestCategoryTracksIMEI(t *testing.T) {
	assert.True(t, CategoryTracksIMEI(CategoryMobilePhones))
	assert.True(t, CategoryTracksIMEI(CategoryTablets))
	assert.False(t, CategoryTracksIMEI(CategoryChargers))
	assert.False(t, CategoryTracksIMEI("made up"))
}

func TestIsLowStock(t *testing.T) {
	p := Product{StockQuantity: 2, LowStockThreshold: 2}
	assert.True(t, p.IsLowStock())
	p.StockQuantity = 3
	assert.False(t, p.IsLowStock())
}

func TestCreateProductRequestToEntity(t *testing.T) {
	high := decimal.NewFromInt(150)
	req := CreateProductRequest{
		Name:         " Pixel 9 ",
		Brand:        " Google ",
		Category:     CategoryMobilePhones,
		IMEI:         []string{" 111 ", "111", "", "222"},
		SellingPrice: decimal.NewFromInt(60000),
		GSTPercent:   &high,
	}

	p := req.ToEntity()

	assert.Equal(t, "Pixel 9", p.Name)
	assert.Equal(t, "Google", p.Brand)
	assert.True(t, p.TrackIMEI, "handset categories track serials")
	assert.Equal(t, []string{"111", "222"}, p.IMEI)
	assert.Equal(t, SIMTypeNone, p.SIMType)
	assert.Equal(t, 2, p.LowStockThreshold)
	// out-of-range rates clamp
	assert.True(t, p.GSTPercent.Equal(decimal.NewFromInt(100)))
}

func TestCreateProductRequestValidate(t *testing.T) {
	valid := CreateProductRequest{
		Name:          "Pixel 9",
		Brand:         "Google",
		Category:      CategoryMobilePhones,
		PurchasePrice: decimal.NewFromInt(48000),
		SellingPrice:  decimal.NewFromInt(60000),
	}
	require.NoError(t, valid.Validate(), "nonzero prices are valid")

	bad := valid
	bad.Category = "Gadgets"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Brand = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.SellingPrice = decimal.NewFromInt(-1)
	assert.Error(t, bad.Validate())

	bad = valid
	bad.PurchasePrice = decimal.NewFromInt(-500)
	assert.Error(t, bad.Validate())
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/invoice/model"
	offerservice "phoneshop-backend/internal/domains/offer/service"
	productmodel "phoneshop-backend/internal/domains/product/model"
	productrepo "phoneshop-backend/internal/domains/product/repository"
)

// Mobile handsets carry a mandated GST rate regardless of what the catalog
// or the client says.
var mobileGSTPercent = decimal.NewFromInt(12)

var defaultGSTPercent = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// StockIntent is a deferred stock mutation. The pricer only decides; the
// coordinator commits intents inside the settlement transaction.
type StockIntent struct {
	ProductID uuid.UUID
	Quantity  int
	IMEIs     []string
}

// PricedLine pairs a fully priced invoice line with its stock intent
// (nil for ad-hoc lines).
type PricedLine struct {
	Line   model.InvoiceLine
	Intent *StockIntent
}

// Pricer turns cart items into priced invoice lines. Prices are
// tax-inclusive: the taxable value and GST split are derived by reverse
// calculation from the final line total.
type Pricer struct {
	productRepo productrepo.RepositoryInterface
	resolver    offerservice.ResolverInterface
}

// NewPricer creates a new line-item pricer
func NewPricer(productRepo productrepo.RepositoryInterface, resolver offerservice.ResolverInterface) *Pricer {
	return &Pricer{
		productRepo: productRepo,
		resolver:    resolver,
	}
}

// PriceLine prices one cart item. No state is mutated; a business error on
// any line aborts the whole settlement before anything is committed.
func (p *Pricer) PriceLine(ctx context.Context, item model.InvoiceItemRequest, asOf time.Time) (PricedLine, error) {
	if item.ProductID != nil {
		return p.priceCatalogLine(ctx, item, asOf)
	}
	return p.priceAdHocLine(item)
}

func (p *Pricer) priceCatalogLine(ctx context.Context, item model.InvoiceItemRequest, asOf time.Time) (PricedLine, error) {
	product, err := p.productRepo.GetByID(ctx, *item.ProductID)
	if err != nil {
		return PricedLine{}, err
	}

	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if product.StockQuantity < quantity {
		return PricedLine{}, productmodel.NewInsufficientStockError(product.Name, product.StockQuantity, quantity)
	}

	imeis, err := validateIMEIs(product, quantity, item.IMEI)
	if err != nil {
		return PricedLine{}, err
	}

	gstPercent := gstForCategory(product.Category, product.GSTPercent, item.GSTPercent)

	var unitPrice decimal.Decimal
	offerName := ""
	if item.Price != nil {
		// explicit override wins over catalog price and offers
		unitPrice = *item.Price
	} else {
		quote, err := p.resolver.Resolve(ctx, product.ID, product.Category, product.SellingPrice, quantity, asOf)
		if err != nil {
			return PricedLine{}, err
		}
		unitPrice = quote.Price
		offerName = quote.OfferName
	}

	discount := item.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	line := buildLine(unitPrice, quantity, discount, gstPercent)
	line.ProductID = &product.ID
	line.Name = product.Name
	line.Category = product.Category
	line.IMEI = imeis
	line.SIMType = product.SIMType
	line.OriginalPrice = product.SellingPrice
	line.PurchasePrice = product.PurchasePrice
	line.OfferApplied = offerName

	return PricedLine{
		Line: line,
		Intent: &StockIntent{
			ProductID: product.ID,
			Quantity:  quantity,
			IMEIs:     imeis,
		},
	}, nil
}

func (p *Pricer) priceAdHocLine(item model.InvoiceItemRequest) (PricedLine, error) {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	unitPrice := decimal.Zero
	if item.Price != nil && item.Price.IsPositive() {
		unitPrice = *item.Price
	}

	gstPercent := defaultGSTPercent
	if item.GSTPercent != nil {
		gstPercent = boundPercent(*item.GSTPercent)
	}

	discount := item.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	category := item.Category
	if category == "" {
		category = productmodel.CategoryOthers
	}

	line := buildLine(unitPrice, quantity, discount, gstPercent)
	line.Name = item.Name
	line.Category = category
	line.IMEI = []string{}
	line.SIMType = productmodel.SIMTypeNone
	line.OriginalPrice = unitPrice

	return PricedLine{Line: line}, nil
}

// buildLine applies the tax-inclusive model: the customer-facing total is
// fixed first, then taxable value and GST are reverse-derived from it.
func buildLine(unitPrice decimal.Decimal, quantity int, discount, gstPercent decimal.Decimal) model.InvoiceLine {
	qty := decimal.NewFromInt(int64(quantity))

	total := unitPrice.Mul(qty).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	taxable, gst := splitInclusive(total, gstPercent)
	half := gst.Div(decimal.NewFromInt(2))

	return model.InvoiceLine{
		Quantity:     quantity,
		Price:        unitPrice,
		GSTPercent:   gstPercent,
		Discount:     discount,
		TaxableValue: taxable,
		GSTAmount:    gst,
		CGST:         half,
		SGST:         half,
		Total:        total,
	}
}

// splitInclusive reverse-computes the taxable value and GST amount hidden
// inside a tax-inclusive total.
func splitInclusive(total, gstPercent decimal.Decimal) (taxable, gst decimal.Decimal) {
	multiplier := decimal.NewFromInt(1).Add(gstPercent.Div(hundred))
	taxable = total.Div(multiplier).Round(2)
	gst = total.Sub(taxable)
	return taxable, gst
}

// gstForCategory resolves the effective GST rate for a line. Handsets are
// pinned to the mandated rate; a client-supplied rate is honoured for other
// categories only within [0, 100].
func gstForCategory(category string, productRate decimal.Decimal, clientRate *decimal.Decimal) decimal.Decimal {
	lower := strings.ToLower(category)
	if strings.Contains(lower, "mobile") || strings.Contains(lower, "phone") || strings.Contains(lower, "smartphone") {
		return mobileGSTPercent
	}

	if clientRate != nil {
		return boundPercent(*clientRate)
	}
	if productRate.IsPositive() {
		return productRate
	}
	return defaultGSTPercent
}

func boundPercent(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

// validateIMEIs checks serial counts for tracked products: exactly
// quantity x slots distinct serials, whitespace-trimmed. Untracked products
// never carry serials on the invoice.
func validateIMEIs(product *productmodel.Product, quantity int, raw []string) ([]string, error) {
	if !product.TrackIMEI {
		return []string{}, nil
	}

	seen := make(map[string]struct{}, len(raw))
	imeis := make([]string, 0, len(raw))
	for _, s := range raw {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		imeis = append(imeis, trimmed)
	}

	expected := quantity * product.IMEISlotsPerUnit()
	if len(imeis) != expected {
		return nil, model.NewIMEIMismatchError(product.Name, quantity, product.SIMType, expected, len(imeis))
	}

	return imeis, nil
}

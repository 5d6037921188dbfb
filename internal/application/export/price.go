package export

import (
	"github.com/shopspring/decimal"

	"github.com/pimsync/connector/internal/domain/catalog"
)

// PriceAdjustment is the price delta of one variant group member relative to
// the group's configurable.
type PriceAdjustment struct {
	ProductIdentifier string
	Delta             decimal.Decimal
}

// PriceCalculator computes per-member price adjustments for a variant group.
// It runs before configurable assembly; its output feeds the downstream
// pricing pipeline.
type PriceCalculator interface {
	ComputeDeltas(group catalog.VariantGroup, members []*catalog.Product, defaultLocale, defaultCurrency, channelCode string) []PriceAdjustment
}

// BasePriceCalculator derives deltas from the members' price attribute value,
// using the first member as the reference.
type BasePriceCalculator struct {
	// PriceAttribute is the attribute code holding the product price.
	PriceAttribute string
}

// ComputeDeltas returns each member's price difference against the first
// member. Members without a parseable price get a zero delta.
func (c *BasePriceCalculator) ComputeDeltas(group catalog.VariantGroup, members []*catalog.Product, defaultLocale, defaultCurrency, channelCode string) []PriceAdjustment {
	if len(members) == 0 {
		return nil
	}
	base := c.priceOf(members[0], defaultLocale)
	adjustments := make([]PriceAdjustment, 0, len(members))
	for _, m := range members {
		adjustments = append(adjustments, PriceAdjustment{
			ProductIdentifier: m.Identifier,
			Delta:             c.priceOf(m, defaultLocale).Sub(base),
		})
	}
	return adjustments
}

func (c *BasePriceCalculator) priceOf(p *catalog.Product, locale string) decimal.Decimal {
	v, ok := p.ValueForLocale(c.PriceAttribute, locale)
	if !ok {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(v.Data)
	if err != nil {
		return decimal.Zero
	}
	return price
}

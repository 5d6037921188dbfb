package export

import (
	"strconv"
	"strings"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/magento"
)

// ProductNormalizer flattens a PIM product into one export row. Attribute
// codes go through the attribute mapping; localizable values resolve against
// the run's default locale.
type ProductNormalizer struct {
	ctx *Context
}

// NewProductNormalizer creates a normalizer bound to the run context.
func NewProductNormalizer(ctx *Context) *ProductNormalizer {
	return &ProductNormalizer{ctx: ctx}
}

// Normalize builds the flat row for one product. Every row carries the SKU,
// a simple product type marker, the run's visibility level and the product's
// category memberships run through the category mapping.
func (n *ProductNormalizer) Normalize(p *catalog.Product) magento.Row {
	row := magento.Row{
		magento.SKUField:         p.Identifier,
		magento.ProductTypeField: magento.TypeSimple,
		magento.VisibilityField:  strconv.Itoa(n.ctx.Visibility),
	}
	if categories := n.categories(p); categories != "" {
		row[magento.CategoryField] = categories
	}
	seen := make(map[string]struct{})
	for _, v := range p.Values {
		if _, done := seen[v.AttributeCode]; done {
			continue
		}
		seen[v.AttributeCode] = struct{}{}

		resolved, ok := p.ValueForLocale(v.AttributeCode, n.ctx.DefaultLocale)
		if !ok {
			resolved = v
		}
		column := strings.ToLower(n.ctx.AttributeMapping.TargetFor(v.AttributeCode))
		row[column] = valueData(resolved)
	}
	return row
}

// categories resolves the product's category codes through the category
// mapping, joined in membership order.
func (n *ProductNormalizer) categories(p *catalog.Product) string {
	targets := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		targets = append(targets, n.ctx.CategoryMapping.TargetFor(c.Code))
	}
	return strings.Join(targets, ",")
}

// valueData picks the transported form of a value. Select attributes carry
// their option code.
func valueData(v catalog.ProductValue) string {
	if v.Option != "" {
		return v.Option
	}
	return v.Data
}

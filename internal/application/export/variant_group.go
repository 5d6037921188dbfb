package export

import (
	"strconv"
	"strings"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/magento"
)

// VariantGroupEngine decomposes a PIM variant group into the flat record
// sequence the platform import expects: one configurable record, then
// association records binding each member to the configurable through the
// group's axis attributes.
type VariantGroupEngine struct {
	ctx        *Context
	filter     *ValidProductFilter
	normalizer *ProductNormalizer
	prices     PriceCalculator
}

// NewVariantGroupEngine creates an engine bound to the run context.
func NewVariantGroupEngine(ctx *Context, filter *ValidProductFilter, prices PriceCalculator) *VariantGroupEngine {
	return &VariantGroupEngine{
		ctx:        ctx,
		filter:     filter,
		normalizer: NewProductNormalizer(ctx),
		prices:     prices,
	}
}

// BuildExportSet returns the record sequence for one variant group. A group
// with no exportable member yields an empty sequence, which is a valid
// outcome, not an error.
//
// Record order is fixed: the configurable with its axis columns stripped,
// its own association records, then for each remaining member the member's
// record followed by the member's association records.
func (e *VariantGroupEngine) BuildExportSet(group catalog.VariantGroup, channel *catalog.Channel) ([]magento.Row, error) {
	members := e.filter.FilterValid(group.Products)
	if len(members) == 0 {
		return nil, nil
	}

	// Price deltas run against the full valid set before the configurable is
	// split off; the downstream pricing pipeline consumes them.
	e.prices.ComputeDeltas(group, members, e.ctx.DefaultLocale, e.ctx.DefaultCurrency, channel.Code)

	configurable, remaining := members[0], members[1:]

	configurableRow, err := e.toConfigurable(e.normalizer.Normalize(configurable))
	if err != nil {
		return nil, err
	}

	rows := []magento.Row{configurableRow}
	rows = append(rows, e.associations(group, configurable)...)
	for _, member := range remaining {
		row := e.normalizer.Normalize(member)
		row[magento.VisibilityField] = strconv.Itoa(e.ctx.VariantMemberVisibility)
		rows = append(rows, row)
		rows = append(rows, e.associations(group, member)...)
	}
	return rows, nil
}

// toConfigurable rewrites a normalized product row into the configurable
// record: the type marker flips to configurable and every axis column is
// stripped, axis values live on the members only.
func (e *VariantGroupEngine) toConfigurable(row magento.Row) (magento.Row, error) {
	out := row.Clone()
	if _, ok := out[magento.ProductTypeField]; !ok {
		return nil, &magento.TypeMarkerNotFoundError{SKU: out[magento.SKUField]}
	}
	out[magento.ProductTypeField] = magento.TypeConfigurable
	for _, axis := range e.ctx.AxisAttributeCodes {
		delete(out, e.axisColumn(axis))
	}
	return out, nil
}

// associations emits one record per axis attribute the member carries a value
// for, in the group's axis declaration order. The price column is zero here;
// the pricing pipeline adjusts it downstream.
func (e *VariantGroupEngine) associations(group catalog.VariantGroup, member *catalog.Product) []magento.Row {
	var rows []magento.Row
	for _, axis := range group.Axes {
		value, ok := member.ValueForLocale(axis.Code, e.ctx.DefaultLocale)
		if !ok {
			continue
		}
		rows = append(rows, magento.Row{
			magento.SuperProductSKUField:      member.Identifier,
			magento.SuperAttributeCodeField:   e.axisColumn(axis.Code),
			magento.SuperAttributeOptionField: valueData(value),
			magento.SuperAttributePriceField:  "0",
		})
	}
	return rows
}

// axisColumn maps an axis attribute code to its platform column name.
func (e *VariantGroupEngine) axisColumn(code string) string {
	return strings.ToLower(e.ctx.AttributeMapping.TargetFor(code))
}

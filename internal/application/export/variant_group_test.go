package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/magento"
)

func tshirtGroup() catalog.VariantGroup {
	inTree := []catalog.Category{{ID: 7, RootID: 1, Code: "shirts"}}
	member := func(sku, color string) *catalog.Product {
		return &catalog.Product{
			Identifier: sku,
			Categories: inTree,
			Values: []catalog.ProductValue{
				{AttributeCode: "name", Data: "T-Shirt"},
				{AttributeCode: "color", Option: color},
			},
		}
	}
	return catalog.VariantGroup{
		Code: "tshirt",
		Axes: []catalog.Attribute{{Code: "color", Type: catalog.AttributeTypeSimpleselect}},
		Products: []*catalog.Product{
			member("ts-red", "red"),
			member("ts-blue", "blue"),
			member("ts-green", "green"),
		},
	}
}

func newEngine(ctx *Context) *VariantGroupEngine {
	filter := NewValidProductFilter(ecommerceChannel())
	return NewVariantGroupEngine(ctx, filter, &BasePriceCalculator{PriceAttribute: "price"})
}

func TestVariantGroupEngine_BuildExportSet(t *testing.T) {
	ctx := testContext(true)
	ctx.AxisAttributeCodes = []string{"color"}
	engine := newEngine(ctx)

	rows, err := engine.BuildExportSet(tshirtGroup(), ecommerceChannel())
	require.NoError(t, err)
	require.Len(t, rows, 6)

	t.Run("Configurable comes first with axes stripped", func(t *testing.T) {
		conf := rows[0]
		assert.Equal(t, "ts-red", conf[magento.SKUField])
		assert.Equal(t, magento.TypeConfigurable, conf[magento.ProductTypeField])
		_, hasAxis := conf["color"]
		assert.False(t, hasAxis)
	})

	t.Run("Configurable association follows", func(t *testing.T) {
		assoc := rows[1]
		assert.Equal(t, "ts-red", assoc[magento.SuperProductSKUField])
		assert.Equal(t, "color", assoc[magento.SuperAttributeCodeField])
		assert.Equal(t, "red", assoc[magento.SuperAttributeOptionField])
		assert.Equal(t, "0", assoc[magento.SuperAttributePriceField])
	})

	t.Run("Members keep order and axis values", func(t *testing.T) {
		assert.Equal(t, "ts-blue", rows[2][magento.SKUField])
		assert.Equal(t, magento.TypeSimple, rows[2][magento.ProductTypeField])
		assert.Equal(t, "blue", rows[2]["color"])
		assert.Equal(t, "blue", rows[3][magento.SuperAttributeOptionField])
		assert.Equal(t, "ts-green", rows[4][magento.SKUField])
		assert.Equal(t, "green", rows[5][magento.SuperAttributeOptionField])
	})

	t.Run("Members carry the hidden visibility", func(t *testing.T) {
		assert.Equal(t, "1", rows[2][magento.VisibilityField])
		assert.Equal(t, "4", rows[0][magento.VisibilityField])
	})
}

func TestVariantGroupEngine_EmptyGroup(t *testing.T) {
	ctx := testContext(true)
	ctx.AxisAttributeCodes = []string{"color"}
	engine := newEngine(ctx)

	group := tshirtGroup()
	for _, p := range group.Products {
		p.Completenesses = []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 60}}
	}

	rows, err := engine.BuildExportSet(group, ecommerceChannel())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestVariantGroupEngine_IncompleteMembersFilteredOut(t *testing.T) {
	ctx := testContext(true)
	ctx.AxisAttributeCodes = []string{"color"}
	engine := newEngine(ctx)

	group := tshirtGroup()
	group.Products[0].Completenesses = []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 60}}

	rows, err := engine.BuildExportSet(group, ecommerceChannel())
	require.NoError(t, err)
	// ts-blue becomes the configurable.
	require.Len(t, rows, 4)
	assert.Equal(t, "ts-blue", rows[0][magento.SKUField])
	assert.Equal(t, magento.TypeConfigurable, rows[0][magento.ProductTypeField])
}

func TestVariantGroupEngine_MissingTypeMarker(t *testing.T) {
	ctx := testContext(true)
	ctx.AxisAttributeCodes = []string{"color"}
	engine := newEngine(ctx)

	// A candidate row without the type marker cannot be promoted.
	row := magento.Row{
		magento.SKUField: "ts-red",
		"color":          "red",
	}

	out, err := engine.toConfigurable(row)
	assert.Nil(t, out)

	var markerErr *magento.TypeMarkerNotFoundError
	require.ErrorAs(t, err, &markerErr)
	assert.Equal(t, "ts-red", markerErr.SKU)
}

func TestVariantGroupEngine_MappedAxisColumn(t *testing.T) {
	ctx := testContext(true)
	ctx.AxisAttributeCodes = []string{"color"}
	ctx.AttributeMapping.Add("color", "Colour")
	engine := newEngine(ctx)

	rows, err := engine.BuildExportSet(tshirtGroup(), ecommerceChannel())
	require.NoError(t, err)

	_, hasAxis := rows[0]["colour"]
	assert.False(t, hasAxis)
	assert.Equal(t, "colour", rows[1][magento.SuperAttributeCodeField])
	assert.Equal(t, "blue", rows[2]["colour"])
}

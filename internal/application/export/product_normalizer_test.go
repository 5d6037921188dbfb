package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/magento"
)

func TestProductNormalizer_Normalize(t *testing.T) {
	t.Run("Flattens values through the attribute mapping", func(t *testing.T) {
		ctx := testContext(true)
		ctx.AttributeMapping.Add("color", "Colour")
		normalizer := NewProductNormalizer(ctx)

		row := normalizer.Normalize(&catalog.Product{
			Identifier: "sku-1",
			Values: []catalog.ProductValue{
				{AttributeCode: "name", Data: "Runner"},
				{AttributeCode: "color", Option: "blue"},
			},
		})

		assert.Equal(t, "sku-1", row[magento.SKUField])
		assert.Equal(t, magento.TypeSimple, row[magento.ProductTypeField])
		assert.Equal(t, "4", row[magento.VisibilityField])
		assert.Equal(t, "Runner", row["name"])
		// The mapped column name is lowercased for the import format.
		assert.Equal(t, "blue", row["colour"])
	})

	t.Run("Default locale wins over other locales", func(t *testing.T) {
		normalizer := NewProductNormalizer(testContext(true))

		row := normalizer.Normalize(&catalog.Product{
			Identifier: "sku-1",
			Values: []catalog.ProductValue{
				{AttributeCode: "name", Locale: "fr_FR", Data: "Basket"},
				{AttributeCode: "name", Locale: "en_US", Data: "Sneaker"},
			},
		})
		assert.Equal(t, "Sneaker", row["name"])
	})

	t.Run("Category memberships go through the category mapping", func(t *testing.T) {
		ctx := testContext(true)
		ctx.CategoryMapping.Add("shirts", "3")
		ctx.CategoryMapping.Add("summer", "8")
		normalizer := NewProductNormalizer(ctx)

		row := normalizer.Normalize(&catalog.Product{
			Identifier: "sku-1",
			Categories: []catalog.Category{
				{ID: 7, RootID: 1, Code: "shirts"},
				{ID: 9, RootID: 1, Code: "summer"},
			},
		})
		assert.Equal(t, "3,8", row[magento.CategoryField])
	})

	t.Run("Unmapped category falls back to its code", func(t *testing.T) {
		normalizer := NewProductNormalizer(testContext(true))

		row := normalizer.Normalize(&catalog.Product{
			Identifier: "sku-1",
			Categories: []catalog.Category{{ID: 7, RootID: 1, Code: "shirts"}},
		})
		assert.Equal(t, "shirts", row[magento.CategoryField])
	})

	t.Run("No categories emits no category column", func(t *testing.T) {
		normalizer := NewProductNormalizer(testContext(true))

		row := normalizer.Normalize(&catalog.Product{Identifier: "sku-1"})
		_, ok := row[magento.CategoryField]
		assert.False(t, ok)
	})
}

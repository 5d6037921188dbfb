package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pimsync/connector/internal/domain/catalog"
)

func ecommerceChannel() *catalog.Channel {
	return &catalog.Channel{
		Code:           "ecommerce",
		RootCategoryID: 1,
		Locales:        []string{"en_US", "fr_FR"},
		Currencies:     []string{"EUR"},
	}
}

func TestValidProductFilter_IsExportable(t *testing.T) {
	filter := NewValidProductFilter(ecommerceChannel())
	inTree := []catalog.Category{{ID: 7, RootID: 1, Code: "shoes"}}

	t.Run("Complete product in channel tree", func(t *testing.T) {
		p := &catalog.Product{
			Identifier:     "sku-1",
			Completenesses: []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 100}},
			Categories:     inTree,
		}
		assert.True(t, filter.IsExportable(p))
	})

	t.Run("Incomplete product rejected", func(t *testing.T) {
		p := &catalog.Product{
			Identifier:     "sku-2",
			Completenesses: []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 80}},
			Categories:     inTree,
		}
		assert.False(t, filter.IsExportable(p))
	})

	t.Run("Incompleteness on another channel does not matter", func(t *testing.T) {
		p := &catalog.Product{
			Identifier: "sku-3",
			Completenesses: []catalog.Completeness{
				{ChannelCode: "print", Ratio: 40},
				{ChannelCode: "ecommerce", Ratio: 100},
			},
			Categories: inTree,
		}
		assert.True(t, filter.IsExportable(p))
	})

	t.Run("No completeness entry is vacuously complete", func(t *testing.T) {
		p := &catalog.Product{Identifier: "sku-4", Categories: inTree}
		assert.True(t, filter.IsExportable(p))
	})

	t.Run("Product outside channel tree rejected", func(t *testing.T) {
		p := &catalog.Product{
			Identifier:     "sku-5",
			Completenesses: []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 100}},
			Categories:     []catalog.Category{{ID: 9, RootID: 2, Code: "print_only"}},
		}
		assert.False(t, filter.IsExportable(p))
	})

	t.Run("Product without categories rejected", func(t *testing.T) {
		p := &catalog.Product{Identifier: "sku-6"}
		assert.False(t, filter.IsExportable(p))
	})
}

func TestValidProductFilter_FilterValid(t *testing.T) {
	filter := NewValidProductFilter(ecommerceChannel())
	inTree := []catalog.Category{{ID: 7, RootID: 1}}

	a := &catalog.Product{Identifier: "a", Categories: inTree}
	b := &catalog.Product{
		Identifier:     "b",
		Completenesses: []catalog.Completeness{{ChannelCode: "ecommerce", Ratio: 50}},
		Categories:     inTree,
	}
	c := &catalog.Product{Identifier: "c", Categories: inTree}

	valid := filter.FilterValid([]*catalog.Product{a, b, c})
	assert.Equal(t, []*catalog.Product{a, c}, valid)
}

package export

import "github.com/pimsync/connector/internal/domain/catalog"

// ValidProductFilter decides which products a channel may export. A product
// qualifies when every completeness entry scoped to the channel is at 100 and
// at least one of its categories belongs to the channel's tree.
type ValidProductFilter struct {
	channel *catalog.Channel
}

// NewValidProductFilter creates a filter for the channel.
func NewValidProductFilter(channel *catalog.Channel) *ValidProductFilter {
	return &ValidProductFilter{channel: channel}
}

// IsExportable reports whether the product may be exported on the filter's
// channel. A product with no completeness entry for the channel is vacuously
// complete.
func (f *ValidProductFilter) IsExportable(p *catalog.Product) bool {
	for _, c := range p.Completenesses {
		if c.ChannelCode == f.channel.Code && c.Ratio != 100 {
			return false
		}
	}
	return p.BelongsToTree(f.channel.RootCategoryID)
}

// FilterValid returns the exportable products, preserving input order.
func (f *ValidProductFilter) FilterValid(products []*catalog.Product) []*catalog.Product {
	valid := make([]*catalog.Product, 0, len(products))
	for _, p := range products {
		if f.IsExportable(p) {
			valid = append(valid, p)
		}
	}
	return valid
}

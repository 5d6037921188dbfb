package catalog

import "time"

// ---------------------------------------------------------------------------
// Product
// ---------------------------------------------------------------------------

// ProductValue is one attribute value carried by a product. Locale and Scope
// are empty for non-localizable / non-scopable attributes. For select
// attributes Option holds the selected option code and Data is empty.
type ProductValue struct {
	AttributeCode string
	Locale        string
	Scope         string
	Data          string
	Option        string
}

// Completeness is the enrichment ratio of a product for one channel,
// expressed as a percentage (100 = complete).
type Completeness struct {
	ChannelCode string
	Ratio       int
}

// Product is a PIM product with its values, completeness state and category
// memberships. UpdatedAt is the last modification timestamp used by delta
// export.
type Product struct {
	Identifier     string
	Enabled        bool
	Values         []ProductValue
	Completenesses []Completeness
	Categories     []Category
	UpdatedAt      time.Time
}

// Value returns the first value recorded for the given attribute code.
func (p *Product) Value(attributeCode string) (ProductValue, bool) {
	for _, v := range p.Values {
		if v.AttributeCode == attributeCode {
			return v, true
		}
	}
	return ProductValue{}, false
}

// ValueForLocale returns the value for the given attribute code whose locale
// matches, falling back to a locale-less value when no exact match exists.
func (p *Product) ValueForLocale(attributeCode, locale string) (ProductValue, bool) {
	var fallback ProductValue
	found := false
	for _, v := range p.Values {
		if v.AttributeCode != attributeCode {
			continue
		}
		if localeEqual(v.Locale, locale) {
			return v, true
		}
		if v.Locale == "" && !found {
			fallback = v
			found = true
		}
	}
	return fallback, found
}

// HasValue returns true if the product carries any value for the attribute.
func (p *Product) HasValue(attributeCode string) bool {
	_, ok := p.Value(attributeCode)
	return ok
}

// BelongsToTree returns true if at least one of the product's categories has
// the given root category.
func (p *Product) BelongsToTree(rootCategoryID int) bool {
	for _, c := range p.Categories {
		if c.RootID == rootCategoryID {
			return true
		}
	}
	return false
}

package export

import (
	"github.com/go-playground/validator/v10"

	"github.com/pimsync/connector/internal/domain/magento"
	"github.com/pimsync/connector/internal/domain/mapping"
)

// Context carries the per-run configuration every transform depends on. It is
// assembled once at run start, validated, and treated as read-only afterwards.
type Context struct {
	// Channel is the PIM channel code the run exports.
	Channel string `validate:"required"`

	// Create selects attribute creation mode; false means update mode.
	Create bool

	// DefaultLocale is the locale used for label fallback and price lookup.
	DefaultLocale string `validate:"required"`

	// DefaultCurrency is the currency used for price lookup.
	DefaultCurrency string `validate:"required"`

	// StoreViews are the store views configured on the platform.
	StoreViews []magento.StoreView `validate:"required,min=1"`

	// RemoteAttributes are the attributes already registered on the platform,
	// keyed by code. Consulted in update mode for type-change detection.
	RemoteAttributes map[string]magento.RemoteAttribute

	// AttributeMapping maps PIM attribute codes to platform codes.
	AttributeMapping *mapping.Collection `validate:"required"`

	// StoreViewMapping maps PIM locales to platform store view codes.
	StoreViewMapping *mapping.Collection `validate:"required"`

	// CategoryMapping maps PIM category codes to platform category identifiers.
	CategoryMapping *mapping.Collection `validate:"required"`

	// AxisAttributeCodes are the attribute codes used as variant group axes.
	AxisAttributeCodes []string

	// Visibility is the visibility level written on exported products.
	Visibility int `validate:"required"`

	// VariantMemberVisibility overrides Visibility for members of a variant
	// group, which are usually hidden behind their configurable.
	VariantMemberVisibility int `validate:"required"`
}

var validate = validator.New()

// Validate checks the context is complete enough to run an export.
func (c *Context) Validate() error {
	return validate.Struct(c)
}

// IsAxis returns true if the attribute code is a variant group axis.
func (c *Context) IsAxis(attributeCode string) bool {
	for _, code := range c.AxisAttributeCodes {
		if code == attributeCode {
			return true
		}
	}
	return false
}

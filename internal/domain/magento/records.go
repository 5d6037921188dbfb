package magento

import (
	"sort"

	"github.com/pimsync/connector/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Scopes and input types
// ---------------------------------------------------------------------------

// Scope tells Magento at which level an attribute value varies.
type Scope string

const (
	// ScopeStore marks values that differ per store view.
	ScopeStore Scope = "store"
	// ScopeGlobal marks values shared across every store view.
	ScopeGlobal Scope = "global"
)

// ScopeFor derives the platform scope from the source attribute definition.
// Localizable attributes vary per store view, everything else is global.
func ScopeFor(attr catalog.Attribute) Scope {
	if attr.Localizable {
		return ScopeStore
	}
	return ScopeGlobal
}

// Magento frontend input types.
const (
	InputText        = "text"
	InputTextarea    = "textarea"
	InputSelect      = "select"
	InputMultiselect = "multiselect"
	InputPrice       = "price"
	InputDate        = "date"
	InputBoolean     = "boolean"
)

var inputTypeByAttribute = map[catalog.AttributeType]string{
	catalog.AttributeTypeIdentifier:   InputText,
	catalog.AttributeTypeText:         InputText,
	catalog.AttributeTypeTextarea:     InputTextarea,
	catalog.AttributeTypeSimpleselect: InputSelect,
	catalog.AttributeTypeMultiselect:  InputMultiselect,
	catalog.AttributeTypePrice:        InputPrice,
	catalog.AttributeTypeNumber:       InputText,
	catalog.AttributeTypeBoolean:      InputBoolean,
	catalog.AttributeTypeDate:         InputDate,
	catalog.AttributeTypeMetric:       InputText,
}

// InputTypeFor maps a source attribute type to the Magento frontend input.
// Types with no richer platform counterpart, media types included, fall back
// to text.
func InputTypeFor(t catalog.AttributeType) string {
	if input, ok := inputTypeByAttribute[t]; ok {
		return input
	}
	return InputText
}

// ---------------------------------------------------------------------------
// Attribute records
// ---------------------------------------------------------------------------

// StoreLabel carries the frontend label of an attribute for one store view.
type StoreLabel struct {
	StoreID int    `json:"store_id"`
	Label   string `json:"label"`
}

// AttributeRecord is the payload sent to Magento when creating or updating a
// product attribute. Flags are transported as "0"/"1" strings, matching the
// platform API. AttributeCode and FrontendInput are immutable on the platform
// and are therefore omitted from update payloads.
type AttributeRecord struct {
	AttributeCode  string       `json:"attribute_code,omitempty"`
	FrontendInput  string       `json:"frontend_input,omitempty"`
	Scope          Scope        `json:"scope"`
	IsUnique       string       `json:"is_unique"`
	IsRequired     string       `json:"is_required"`
	IsConfigurable string       `json:"is_configurable"`
	Labels         []StoreLabel `json:"frontend_label"`
}

// RemoteAttribute is an attribute as reported by the platform.
type RemoteAttribute struct {
	AttributeID string
	Code        string
	Type        string
}

// RemoteCategory is a category as reported by the platform, flattened out of
// the category tree.
type RemoteCategory struct {
	CategoryID string
	Name       string
}

// StoreView is a Magento store view as reported by the platform.
type StoreView struct {
	StoreID int
	Code    string
}

// ---------------------------------------------------------------------------
// Product rows
// ---------------------------------------------------------------------------

// Row is one flat export record, column name to value.
type Row map[string]string

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Columns returns the column names in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Well-known export columns.
const (
	SKUField         = "sku"
	ProductTypeField = "_type"
	VisibilityField  = "visibility"
	CategoryField    = "_category"

	SuperProductSKUField      = "_super_products_sku"
	SuperAttributeCodeField   = "_super_attribute_code"
	SuperAttributeOptionField = "_super_attribute_option"
	SuperAttributePriceField  = "_super_attribute_price"
)

// Product type markers.
const (
	TypeSimple       = "simple"
	TypeConfigurable = "configurable"
)

// Magento visibility levels.
const (
	VisibilityNone          = 1
	VisibilityCatalogSearch = 4
)

package export

import (
	"regexp"
	"strings"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/magento"
)

// attributeCodePattern is what the platform accepts as an attribute code: a
// leading lowercase letter followed by up to 30 lowercase letters, digits or
// underscores.
var attributeCodePattern = regexp.MustCompile(`^[a-z][a-z_0-9]{0,30}$`)

// typeChangeIgnoreList holds platform attribute codes whose remote type never
// matches the derived one and must not trigger a type-change failure.
var typeChangeIgnoreList = map[string]struct{}{
	"tax_class_id": {},
	"weight":       {},
}

// AttributeNormalizer turns a PIM attribute definition into the platform
// attribute payload. It is a pure transform over the run context.
type AttributeNormalizer struct {
	ctx *Context
}

// NewAttributeNormalizer creates a normalizer bound to the run context.
func NewAttributeNormalizer(ctx *Context) *AttributeNormalizer {
	return &AttributeNormalizer{ctx: ctx}
}

// Normalize converts one attribute. The returned code is the mapped platform
// code the record must be addressed with.
//
// In creation mode the record carries code and frontend input. In update mode
// both are omitted, the platform forbids retyping through updates, and a
// derived input differing from the registered remote type fails with
// AttributeTypeChangedError unless the code is on the ignore list.
func (n *AttributeNormalizer) Normalize(attr catalog.Attribute) (string, *magento.AttributeRecord, error) {
	code := strings.ToLower(n.ctx.AttributeMapping.TargetFor(attr.Code))
	if !attributeCodePattern.MatchString(code) {
		return "", nil, &magento.InvalidAttributeCodeError{Code: code}
	}

	inputType := magento.InputTypeFor(attr.Type)
	record := &magento.AttributeRecord{
		Scope:          magento.ScopeFor(attr),
		IsUnique:       "0",
		IsRequired:     boolFlag(attr.Required),
		IsConfigurable: boolFlag(attr.Type == catalog.AttributeTypeSimpleselect && n.ctx.IsAxis(attr.Code)),
		Labels:         n.labels(attr, code),
	}

	if n.ctx.Create {
		record.AttributeCode = code
		record.FrontendInput = inputType
		return code, record, nil
	}

	if remote, ok := n.ctx.RemoteAttributes[code]; ok {
		if _, ignored := typeChangeIgnoreList[code]; !ignored && remote.Type != inputType {
			return "", nil, &magento.AttributeTypeChangedError{
				Code:        code,
				RemoteType:  remote.Type,
				DerivedType: inputType,
			}
		}
	}
	return code, record, nil
}

// labels builds the per-store-view label list. The storeID=0 default entry
// always comes first and carries the lowercase mapped code; every other store
// view gets the translation for its locale, falling back to the default
// locale and finally to the raw attribute code.
func (n *AttributeNormalizer) labels(attr catalog.Attribute, mappedCode string) []magento.StoreLabel {
	labels := []magento.StoreLabel{{StoreID: 0, Label: mappedCode}}
	for _, sv := range n.ctx.StoreViews {
		if sv.StoreID == 0 {
			continue
		}
		locale := n.ctx.StoreViewMapping.SourceFor(sv.Code)
		labels = append(labels, magento.StoreLabel{
			StoreID: sv.StoreID,
			Label:   n.translate(attr, locale),
		})
	}
	return labels
}

// translate resolves a label with a bounded fallback chain: requested locale,
// then the run's default locale, then the raw attribute code.
func (n *AttributeNormalizer) translate(attr catalog.Attribute, locale string) string {
	if label, ok := attr.Translation(locale); ok {
		return label
	}
	if label, ok := attr.Translation(n.ctx.DefaultLocale); ok {
		return label
	}
	return attr.Code
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

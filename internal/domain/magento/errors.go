package magento

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReachable indicates the platform endpoint could not be reached or
	// answered with a non-success status.
	ErrNotReachable = errors.New("magento: endpoint not reachable")
	// ErrInvalidResponseFormat indicates the endpoint answered with a payload
	// that is not the expected API description.
	ErrInvalidResponseFormat = errors.New("magento: invalid response format")
	// ErrAccessDenied indicates the API credentials were rejected.
	ErrAccessDenied = errors.New("magento: access denied")
)

// InvalidAttributeCodeError reports an attribute whose code the platform
// cannot accept.
type InvalidAttributeCodeError struct {
	Code string
}

func (e *InvalidAttributeCodeError) Error() string {
	return fmt.Sprintf("magento: attribute code %q is not a valid platform code", e.Code)
}

// AttributeTypeChangedError reports an attribute whose derived frontend input
// no longer matches the type already registered on the platform.
type AttributeTypeChangedError struct {
	Code        string
	RemoteType  string
	DerivedType string
}

func (e *AttributeTypeChangedError) Error() string {
	return fmt.Sprintf("magento: attribute %q is %q on the platform but would now be %q, type changes are not allowed",
		e.Code, e.RemoteType, e.DerivedType)
}

// TypeMarkerNotFoundError reports a member row missing the product type
// column, which makes configurable transformation impossible.
type TypeMarkerNotFoundError struct {
	SKU string
}

func (e *TypeMarkerNotFoundError) Error() string {
	return fmt.Sprintf("magento: row for %q carries no product type marker", e.SKU)
}

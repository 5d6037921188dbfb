package catalog

// VariantGroup is a PIM variant group: a set of member products sharing every
// attribute except the axis attributes.
type VariantGroup struct {
	Code     string
	Axes     []Attribute
	Products []*Product
}

// AxisCodes returns the codes of the axis attributes in definition order.
func (g VariantGroup) AxisCodes() []string {
	codes := make([]string, len(g.Axes))
	for i, a := range g.Axes {
		codes[i] = a.Code
	}
	return codes
}

package catalog

// Category is a node of a PIM category tree. RootID identifies the tree the
// node belongs to; for a root category RootID equals ID.
type Category struct {
	ID       int
	ParentID int
	RootID   int
	Code     string
}

// IsRoot returns true if the category is the root of its tree.
func (c Category) IsRoot() bool {
	return c.ID == c.RootID
}

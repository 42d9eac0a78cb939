package models

// CategoryResourceType is the resource type the Up API reports for every
// category in v1.
const CategoryResourceType = "categories"

// Category is a cached entry of the Up category taxonomy. IDs are
// human-readable slugs assigned by the API (e.g. "takeaway").
type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	// ParentCategoryID links to another Category.ID, or nil for roots.
	ParentCategoryID *string `gorm:"index" json:"parent_category_id,omitempty"`

	// Parent is resolved in memory after the full set is loaded by matching
	// ParentCategoryID against the loaded set. It is never persisted; a
	// dangling ParentCategoryID simply leaves it nil.
	Parent *Category `gorm:"-" json:"parent,omitempty"`
}

// IsStub reports whether this category was built from a bare {id, type}
// reference without taxonomy metadata.
func (c *Category) IsStub() bool {
	return c.Name == ""
}

// ResolveParents populates the Parent back-reference on every category in the
// set by matching ParentCategoryID within the set itself. Categories form a
// forest, so a single pass suffices.
func ResolveParents(categories []Category) {
	byID := make(map[string]*Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range categories {
		if categories[i].ParentCategoryID == nil {
			continue
		}
		categories[i].Parent = byID[*categories[i].ParentCategoryID]
	}
}

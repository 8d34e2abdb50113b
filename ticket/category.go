package ticket

import "strings"

// Category labels the kind of support request a ticket carries.
type Category string

const (
	CategoryBilling   Category = "Billing"
	CategoryTechnical Category = "Technical"
	CategorySecurity  Category = "Security"
	CategoryGeneral   Category = "General"
)

// DefaultCategory is substituted whenever a produced category is not a member of
// the configured enumeration.
const DefaultCategory = CategoryGeneral

// DefaultCategories is the stock enumeration, in presentation order.
var DefaultCategories = []Category{CategoryBilling, CategoryTechnical, CategorySecurity, CategoryGeneral}

// Categories is an ordered, duplicate-free category enumeration.
type Categories struct {
	order []Category
	set   map[Category]struct{}
}

// NewCategories builds an enumeration from names. Blank and duplicate names are skipped.
func NewCategories(names ...Category) Categories {
	c := Categories{set: make(map[Category]struct{}, len(names))}
	for _, name := range names {
		name = Category(strings.TrimSpace(string(name)))
		if name == "" {
			continue
		}
		if _, dup := c.set[name]; dup {
			continue
		}
		c.set[name] = struct{}{}
		c.order = append(c.order, name)
	}
	return c
}

// Contains reports whether name is a member.
func (c Categories) Contains(name Category) bool {
	_, ok := c.set[name]
	return ok
}

// List returns the members in configured order.
func (c Categories) List() []Category {
	return append([]Category(nil), c.order...)
}

// Strings returns the members as plain strings.
func (c Categories) Strings() []string {
	out := make([]string, len(c.order))
	for i, name := range c.order {
		out[i] = string(name)
	}
	return out
}

// Len returns the number of members.
func (c Categories) Len() int {
	return len(c.order)
}

// CategoryResult is the tagged outcome of validating raw model output.
// When Valid is false, Category holds the substituted default and Raw keeps the
// rejected text for logging.
type CategoryResult struct {
	Category Category
	Raw      string
	Valid    bool
}

// ParseCategory validates raw classifier output against the enumeration.
// Surrounding whitespace is ignored; anything else (extra words, different casing,
// an unknown label) is invalid and maps to fallback.
func ParseCategory(raw string, categories Categories, fallback Category) CategoryResult {
	candidate := Category(strings.TrimSpace(raw))
	if candidate != "" && categories.Contains(candidate) {
		return CategoryResult{Category: candidate, Raw: raw, Valid: true}
	}
	return CategoryResult{Category: fallback, Raw: raw, Valid: false}
}

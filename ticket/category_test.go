package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	cats := NewCategories(DefaultCategories...)

	tests := []struct {
		name  string
		raw   string
		want  Category
		valid bool
	}{
		{name: "exact member", raw: "Billing", want: CategoryBilling, valid: true},
		{name: "surrounding whitespace", raw: "  Security\n", want: CategorySecurity, valid: true},
		{name: "wrong casing", raw: "billing", want: DefaultCategory, valid: false},
		{name: "extra words", raw: "Category: Technical", want: DefaultCategory, valid: false},
		{name: "hallucinated", raw: "Shipping", want: DefaultCategory, valid: false},
		{name: "empty", raw: "", want: DefaultCategory, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCategory(tt.raw, cats, DefaultCategory)
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.raw, got.Raw)
		})
	}
}

func TestParseCategoryIsDeterministic(t *testing.T) {
	cats := NewCategories(DefaultCategories...)
	first := ParseCategory("definitely not a category", cats, DefaultCategory)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ParseCategory("definitely not a category", cats, DefaultCategory))
	}
}

func TestNewCategoriesSkipsBlanksAndDuplicates(t *testing.T) {
	cats := NewCategories("Billing", " ", "Billing", "General")
	assert.Equal(t, []Category{CategoryBilling, CategoryGeneral}, cats.List())
	assert.Equal(t, []string{"Billing", "General"}, cats.Strings())
	assert.Equal(t, 2, cats.Len())
	assert.False(t, cats.Contains(CategoryTechnical))
}

package models

import "fmt"

// Category classifies transactions and bills.
type Category string

const (
	CategoryHousing       Category = "housing"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryEntertainment Category = "entertainment"
	CategoryServices      Category = "services"
	CategorySalary        Category = "salary"
	CategoryFreelance     Category = "freelance"
	CategoryInvestment    Category = "investment"
	CategoryOther         Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryHousing,
	CategoryFood,
	CategoryTransport,
	CategoryHealth,
	CategoryEducation,
	CategoryEntertainment,
	CategoryServices,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryOther,
}

// ParseCategory returns the category named by s or an error for unknown names.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of AllCategories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHousing, CategoryFood, CategoryTransport, CategoryHealth,
		CategoryEducation, CategoryEntertainment, CategoryServices, CategorySalary,
		CategoryFreelance, CategoryInvestment, CategoryOther:
		return true
	}
	return false
}

// OrOther maps unknown values to CategoryOther. Used when loading stored rows.
func (c Category) OrOther() Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Label returns the human readable name.
func (c Category) Label() string {
	switch c {
	case CategoryHousing:
		return "Housing"
	case CategoryFood:
		return "Food"
	case CategoryTransport:
		return "Transport"
	case CategoryHealth:
		return "Health"
	case CategoryEducation:
		return "Education"
	case CategoryEntertainment:
		return "Entertainment"
	case CategoryServices:
		return "Services"
	case CategorySalary:
		return "Salary"
	case CategoryFreelance:
		return "Freelance"
	case CategoryInvestment:
		return "Investment"
	default:
		return "Other"
	}
}

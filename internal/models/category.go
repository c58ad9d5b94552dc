package models

import "strings"

// Expense categories, in the order they are offered to users.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryEntertainment = "Entertainment"
	CategoryHealthcare    = "Healthcare"
	CategoryOther         = "Other"
)

// AllCategories returns all valid category constants
func AllCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryOther,
	}
}

// IsValidCategory checks if a category string is valid
func IsValidCategory(category string) bool {
	for _, validCategory := range AllCategories() {
		if category == validCategory {
			return true
		}
	}
	return false
}

// CanonicalCategory matches a category case-insensitively and returns its canonical
// spelling, or "" when it is not a known category.
func CanonicalCategory(category string) string {
	category = strings.TrimSpace(category)
	for _, validCategory := range AllCategories() {
		if strings.EqualFold(category, validCategory) {
			return validCategory
		}
	}
	return ""
}

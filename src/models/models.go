package models

// Category is one of the fixed output categories of the normalized table.
type Category string

const (
	CategoryBills         Category = "Bills"
	CategorySubscriptions Category = "Subscriptions"
	CategoryEntertainment Category = "Entertainment"
	CategoryFoodAndDrink  Category = "Food & Drink"
	CategoryGroceries     Category = "Groceries"
	CategoryHealth        Category = "Health & Wellbeing"
	CategoryShopping      Category = "Shopping"
	CategoryTransport     Category = "Transport"
	CategoryTravel        Category = "Travel"
	CategoryInvestments   Category = "Investments"
	CategoryOther         Category = "Other"
)

// AllCategories lists the closed category set in spreadsheet order.
var AllCategories = []Category{
	CategoryBills,
	CategorySubscriptions,
	CategoryEntertainment,
	CategoryFoodAndDrink,
	CategoryGroceries,
	CategoryHealth,
	CategoryShopping,
	CategoryTransport,
	CategoryTravel,
	CategoryInvestments,
	CategoryOther,
}

var categorySet = func() map[Category]bool {
	set := make(map[Category]bool, len(AllCategories))
	for _, c := range AllCategories {
		set[c] = true
	}
	return set
}()

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	return categorySet[c]
}

func (c Category) String() string { return string(c) }

// ParseCategory returns the category for an exact, case-sensitive name.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// src/processors/category_processor.go
package processors

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/username/spendfolio/src/models"
)

// SubscriptionNames are item texts that are always recurring subscriptions.
// Matching is exact; note the double space in "NETFLIX  INC.".
var SubscriptionNames = map[string]bool{
	"GOOGLE ONE":        true,
	"PLANET FITNESS":    true,
	"CHATGPT":           true,
	"FACTOR":            true,
	"FACTOR75":          true,
	"CYCLEBAR":          true,
	"HYPERBEAM_WP_BASE": true,
	"CRUNCHYROLL":       true,
	"NETFLIX  INC.":     true,
	"NETFLIX.COM":       true,
	"HELLOINTERVIEW":    true,
	"CARDPOINTERS.COM":  true,
}

// RecurringBills are item texts that are always bills.
var RecurringBills = map[string]bool{
	"TMOBILE*AUTO PAY": true,
}

// TransitKeywords mark an item as transport when contained anywhere in it.
var TransitKeywords = []string{"MTA", "LYFT", "OMNY"}

type categoryInput struct {
	item string
	// canonical is rawCategory lower-cased with only the first letter upper-cased.
	canonical string
}

type categoryRule struct {
	name   string
	match  func(in categoryInput) bool
	result models.Category
}

func itemIn(set map[string]bool) func(categoryInput) bool {
	return func(in categoryInput) bool { return set[in.item] }
}

func itemContainsAny(keywords []string) func(categoryInput) bool {
	return func(in categoryInput) bool {
		for _, k := range keywords {
			if strings.Contains(in.item, k) {
				return true
			}
		}
		return false
	}
}

func categoryEquals(phrase string) func(categoryInput) bool {
	return func(in categoryInput) bool { return in.canonical == phrase }
}

func categoryContains(phrases ...string) func(categoryInput) bool {
	return func(in categoryInput) bool {
		for _, p := range phrases {
			if strings.Contains(in.canonical, p) {
				return true
			}
		}
		return false
	}
}

// categoryRules is evaluated top to bottom and the first match wins. Later
// rules are shadowed for overlapping text, so the order must not change.
var categoryRules = []categoryRule{
	{"subscription-name", itemIn(SubscriptionNames), models.CategorySubscriptions},
	{"transit-keyword", itemContainsAny(TransitKeywords), models.CategoryTransport},
	{"recurring-bill", itemIn(RecurringBills), models.CategoryBills},

	{"professional-services", categoryEquals("Business services-professional services"), models.CategoryTravel},
	{"transportation", categoryContains("Transportation"), models.CategoryTransport},
	{"travel", categoryContains("Travel"), models.CategoryTravel},
	{"lodging", categoryContains("Lodging"), models.CategoryTravel},
	{"entertainment", categoryContains("Entertainment"), models.CategoryEntertainment},
	{"health", categoryContains("pharmacies", "Health care"), models.CategoryHealth},
	{"groceries", categoryContains("groceries"), models.CategoryGroceries},
	{"wholesale", categoryContains("wholesale stores"), models.CategoryGroceries},
	{"restaurant", categoryContains("Restaurant"), models.CategoryFoodAndDrink},
	{"dining", categoryContains("Dining"), models.CategoryFoodAndDrink},
	{"merchandise", categoryContains("Merchandise"), models.CategoryShopping},
	{"cashback-redemption", categoryContains("Redeem cash back at amazon.com credit"), models.CategoryShopping},
	{"bill", categoryContains("Bill"), models.CategoryBills},
	{"rail", categoryContains("Amtrak"), models.CategoryTravel},
}

// CategoryProcessor maps raw item and category text onto the closed category set.
type CategoryProcessor struct{}

func NewCategoryProcessor() *CategoryProcessor { return &CategoryProcessor{} }

// Classify returns the category for a row. It is total: every input yields a
// member of models.AllCategories.
func (p *CategoryProcessor) Classify(item, rawCategory string) models.Category {
	category, _ := p.Explain(item, rawCategory)
	return category
}

// Explain is Classify plus the name of the rule that decided it.
func (p *CategoryProcessor) Explain(item, rawCategory string) (models.Category, string) {
	in := categoryInput{
		item:      item,
		canonical: lowerCapitalize(rawCategory),
	}
	for _, rule := range categoryRules {
		if rule.match(in) {
			return rule.result, rule.name
		}
	}

	if c, ok := models.ParseCategory(rawCategory); ok {
		return c, "passthrough"
	}
	return models.CategoryOther, "fallback"
}

// lowerCapitalize lower-cases s and upper-cases its first letter only, so
// "RESTAURANT-BAR & CAFE" becomes "Restaurant-bar & cafe".
func lowerCapitalize(s string) string {
	lower := strings.ToLower(s)
	if lower == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

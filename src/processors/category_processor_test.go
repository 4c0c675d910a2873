package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/spendfolio/src/models"
)

func TestCategoryProcessor_Classify(t *testing.T) {
	t.Parallel()

	p := NewCategoryProcessor()
	tests := []struct {
		name        string
		item        string
		rawCategory string
		want        models.Category
	}{
		{name: "named subscription beats category text", item: "NETFLIX.COM", rawCategory: "Entertainment", want: models.CategorySubscriptions},
		{name: "subscription with double space", item: "NETFLIX  INC.", rawCategory: "", want: models.CategorySubscriptions},
		{name: "subscription match is exact", item: "NETFLIX INC.", rawCategory: "", want: models.CategoryOther},
		{name: "subscription beats transport category", item: "FACTOR75", rawCategory: "Transportation", want: models.CategorySubscriptions},
		{name: "transit agency", item: "MTA*NYCT PAYGO", rawCategory: "Other", want: models.CategoryTransport},
		{name: "rideshare", item: "LYFT   *RIDE SUN 4PM", rawCategory: "Travel", want: models.CategoryTransport},
		{name: "fare card", item: "OMNY TAP", rawCategory: "", want: models.CategoryTransport},
		{name: "recurring bill", item: "TMOBILE*AUTO PAY", rawCategory: "Merchandise", want: models.CategoryBills},
		{name: "professional services", item: "ACME", rawCategory: "BUSINESS SERVICES-PROFESSIONAL SERVICES", want: models.CategoryTravel},
		{name: "professional services must be exact", item: "ACME", rawCategory: "Business Services-Professional Services Extra", want: models.CategoryOther},
		{name: "transportation", item: "TAXI", rawCategory: "Transportation-Taxis & Limousines", want: models.CategoryTransport},
		{name: "travel before entertainment", item: "X", rawCategory: "Travel/ Entertainment", want: models.CategoryTravel},
		{name: "lodging", item: "HOTEL", rawCategory: "Lodging", want: models.CategoryTravel},
		{name: "entertainment", item: "AMC", rawCategory: "ENTERTAINMENT", want: models.CategoryEntertainment},
		{name: "pharmacy before merchandise", item: "CVS", rawCategory: "Merchandise & Supplies-Pharmacies", want: models.CategoryHealth},
		{name: "health care", item: "CLINIC", rawCategory: "Health Care", want: models.CategoryHealth},
		{name: "groceries suffix", item: "WHOLE FOODS", rawCategory: "Merchandise & Supplies-Groceries", want: models.CategoryGroceries},
		{name: "wholesale", item: "COSTCO", rawCategory: "Merchandise & Supplies-Wholesale Stores", want: models.CategoryGroceries},
		{name: "restaurant", item: "JOE'S", rawCategory: "Restaurant-Restaurant", want: models.CategoryFoodAndDrink},
		{name: "dining", item: "CAFE", rawCategory: "Dining", want: models.CategoryFoodAndDrink},
		{name: "merchandise", item: "TARGET", rawCategory: "Merchandise", want: models.CategoryShopping},
		{name: "cashback redemption", item: "AMAZON", rawCategory: "Redeem cash back at Amazon.com credit", want: models.CategoryShopping},
		{name: "bills", item: "CON ED", rawCategory: "Bills & Utilities", want: models.CategoryBills},
		{name: "rail", item: "AMTRAK 123", rawCategory: "Amtrak", want: models.CategoryTravel},
		{name: "member passes through", item: "WHOLE FOODS", rawCategory: "Groceries", want: models.CategoryGroceries},
		{name: "member with ampersand passes through", item: "BAR", rawCategory: "Food & Drink", want: models.CategoryFoodAndDrink},
		{name: "passthrough is case sensitive", item: "X", rawCategory: "shopping", want: models.CategoryOther},
		{name: "unknown", item: "SHELL OIL", rawCategory: "Gas", want: models.CategoryOther},
		{name: "empty", item: "", rawCategory: "", want: models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Classify(tt.item, tt.rawCategory))
		})
	}
}

func TestCategoryProcessor_Explain(t *testing.T) {
	t.Parallel()

	p := NewCategoryProcessor()

	c, rule := p.Explain("NETFLIX.COM", "Entertainment")
	assert.Equal(t, models.CategorySubscriptions, c)
	assert.Equal(t, "subscription-name", rule)

	c, rule = p.Explain("X", "Health & Wellbeing")
	assert.Equal(t, models.CategoryHealth, c)
	assert.Equal(t, "passthrough", rule)

	c, rule = p.Explain("X", "Gas")
	assert.Equal(t, models.CategoryOther, c)
	assert.Equal(t, "fallback", rule)
}

func TestCategoryProcessor_Total(t *testing.T) {
	t.Parallel()

	p := NewCategoryProcessor()
	items := []string{"", "NETFLIX.COM", "MTA", "TMOBILE*AUTO PAY", "random store", "ÜBER", "\t"}
	categories := []string{"", "Bill", "travel", "PHARMACIES", "Investments", "Other", "🙂", "Amtrak", "Restaurant-Bar & Café"}

	for _, item := range items {
		for _, raw := range categories {
			got := p.Classify(item, raw)
			assert.True(t, got.Valid(), "Classify(%q, %q) = %q", item, raw, got)
			assert.NotEmpty(t, got)
		}
	}
}

func TestLowerCapitalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Restaurant-bar & cafe", lowerCapitalize("RESTAURANT-BAR & CAFE"))
	assert.Equal(t, "Éclair", lowerCapitalize("éCLAIR"))
	assert.Equal(t, "", lowerCapitalize(""))
}

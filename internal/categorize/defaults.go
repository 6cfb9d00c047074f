package categorize

import "github.com/hearthfin/hearth/internal/model"

// DefaultPattern seeds a fresh household with a category and its keyword
// pattern. Seeded patterns carry priority 0 and the default flag, so
// user-learned patterns always win ties.
type DefaultPattern struct {
	Category string
	Keywords string
	Type     model.CategoryType
}

// DefaultPatterns is the seed table applied by EnsureDefaultCategories for
// households that have no categories yet.
var DefaultPatterns = []DefaultPattern{
	// Income.
	{Category: "Salary", Keywords: "salary|payroll|wage", Type: model.CategoryIncome},
	{Category: "Freelance", Keywords: "freelance|contractor|consulting", Type: model.CategoryIncome},
	{Category: "Investment", Keywords: "dividend|interest|investment", Type: model.CategoryIncome},

	// Expenses.
	{Category: "Groceries", Keywords: "grocery|supermarket|whole foods|trader joe|safeway|walmart|costco", Type: model.CategoryExpense},
	{Category: "Dining", Keywords: "restaurant|cafe|coffee|starbucks|mcdonald|burger|pizza|food delivery|doordash|ubereats", Type: model.CategoryExpense},
	{Category: "Transportation", Keywords: "uber|lyft|taxi|transit|subway|bus fare|train|metro", Type: model.CategoryExpense},
	{Category: "Fuel", Keywords: "gas station|fuel|petrol|bensin|diesel|shell|bp|chevron|exxon|circle k|ingo", Type: model.CategoryExpense},
	{Category: "Parking", Keywords: "parking|parkering|park fee|valet|garage", Type: model.CategoryExpense},
	{Category: "Utilities", Keywords: "electric|water|gas bill|utility|internet|phone bill|cable", Type: model.CategoryExpense},
	{Category: "Rent/Mortgage", Keywords: "rent|mortgage|property management", Type: model.CategoryExpense},
	{Category: "Healthcare", Keywords: "pharmacy|doctor|hospital|medical|health insurance|dental|vision|apoteket", Type: model.CategoryExpense},
	{Category: "Streaming", Keywords: "netflix|spotify|hulu|disney|hbo|apple music|youtube premium|amazon prime video|paramount|peacock|max|apple tv|deezer|tidal", Type: model.CategoryExpense},
	{Category: "Entertainment", Keywords: "movie|theater|cinema|concert|game|festival|amusement|bowling|minigolf", Type: model.CategoryExpense},
	{Category: "Furniture", Keywords: "ikea|furniture|sofa|chair|table|bed|mattress|wayfair|ashley|crate and barrel|jysk|mio", Type: model.CategoryExpense},
	{Category: "Home Improvement", Keywords: "home depot|lowe's|hardware|paint|tool|bauhaus|hornbach|rona|menards|ace hardware|byggmax|k-rauta", Type: model.CategoryExpense},
	{Category: "Shopping", Keywords: "amazon|ebay|target|mall|retail|clothing|fashion", Type: model.CategoryExpense},
	{Category: "Insurance", Keywords: "insurance|policy premium", Type: model.CategoryExpense},
	{Category: "Education", Keywords: "school|tuition|education|course|book|university", Type: model.CategoryExpense},
	{Category: "Fitness", Keywords: "gym|fitness|yoga|sports|athletic", Type: model.CategoryExpense},
}

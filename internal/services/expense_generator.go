package services

import (
	"sort"
	"time"

	"smartspend/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxCreatedHourOffset = 20
	recurringBillDayMax  = 28
)

type expenseGenerator struct {
	faker       *gofakeit.Faker
	merchants   map[string][]string
	categories  []any
	weights     []float32
	amountRange map[string][2]float64
}

// NewExpenseGenerator returns a generator whose dates, categories and amounts are
// determined by seed. A zero seed picks a random one.
func NewExpenseGenerator(seed uint64) ExpenseGeneratorInterface {
	return &expenseGenerator{
		faker:     gofakeit.New(seed),
		merchants: initializeMerchants(),
		categories: []any{
			models.CategoryFood,
			models.CategoryTransport,
			models.CategoryShopping,
			models.CategoryBills,
			models.CategoryEntertainment,
			models.CategoryHealthcare,
			models.CategoryOther,
		},
		weights: []float32{30, 15, 15, 10, 12, 8, 10},
		amountRange: map[string][2]float64{
			models.CategoryFood:          {50, 1500},
			models.CategoryTransport:     {20, 800},
			models.CategoryShopping:      {200, 5000},
			models.CategoryBills:         {500, 4000},
			models.CategoryEntertainment: {100, 2000},
			models.CategoryHealthcare:    {200, 5000},
			models.CategoryOther:         {50, 1000},
		},
	}
}

func initializeMerchants() map[string][]string {
	return map[string][]string{
		models.CategoryFood:          {"Swiggy", "Zomato", "BigBasket", "DMart", "Cafe Coffee Day", "Haldiram's", "Local grocery"},
		models.CategoryTransport:     {"Uber", "Ola", "Rapido", "Metro card recharge", "Indian Oil", "IRCTC"},
		models.CategoryShopping:      {"Amazon", "Flipkart", "Myntra", "Croma", "Decathlon", "IKEA"},
		models.CategoryBills:         {"Electricity bill", "Internet bill", "Phone bill", "Water bill", "Gas cylinder"},
		models.CategoryEntertainment: {"Netflix", "Spotify", "BookMyShow", "PVR Cinemas", "Steam"},
		models.CategoryHealthcare:    {"Apollo Pharmacy", "1mg", "Practo consultation", "Dental clinic", "Lab tests"},
	}
}

// SelectCategory picks a category with a fixed, food-heavy weighting.
func (g *expenseGenerator) SelectCategory() string {
	choice, err := g.faker.Weighted(g.categories, g.weights)
	if err != nil {
		return models.CategoryOther
	}
	return choice.(string)
}

func (g *expenseGenerator) GenerateAmount(category string) decimal.Decimal {
	r, ok := g.amountRange[category]
	if !ok {
		r = [2]float64{10, 100}
	}
	amount := decimal.NewFromFloat(g.faker.Price(r[0], r[1])).Round(2)
	if amount.LessThan(models.MinExpenseAmount) {
		return models.MinExpenseAmount
	}
	return amount
}

func (g *expenseGenerator) GenerateDescription(category string) string {
	merchants, ok := g.merchants[category]
	if !ok {
		return g.faker.Company()
	}
	return g.faker.RandomString(merchants)
}

// GenerateExpenses returns count expenses dated within [startDate, endDate], oldest first.
func (g *expenseGenerator) GenerateExpenses(userID uuid.UUID, startDate, endDate time.Time, count int) []models.Expense {
	if count <= 0 || endDate.Before(startDate) {
		return nil
	}

	expenses := make([]models.Expense, 0, count)
	for i := 0; i < count; i++ {
		date := models.TruncateToDay(g.faker.DateRange(startDate, endDate).UTC())
		category := g.SelectCategory()
		expenses = append(expenses, g.newExpense(userID, date, category, g.GenerateAmount(category), g.GenerateDescription(category)))
	}

	sortExpensesByDate(expenses)
	return expenses
}

// GenerateRecurringBills emits one rent and one utilities payment per month in range.
func (g *expenseGenerator) GenerateRecurringBills(userID uuid.UUID, startDate, endDate time.Time) []models.Expense {
	bills := []struct {
		description string
		day         int
		amount      decimal.Decimal
	}{
		{"Rent", 1 + g.faker.IntRange(0, 4), decimal.NewFromFloat(g.faker.Price(8000, 25000)).Round(0)},
		{"Electricity bill", 1 + g.faker.IntRange(0, recurringBillDayMax-1), decimal.Zero},
	}

	start := models.TruncateToDay(startDate)
	end := models.TruncateToDay(endDate)

	var expenses []models.Expense
	for month := models.MonthStart(start); !month.After(end); month = month.AddDate(0, 1, 0) {
		for _, bill := range bills {
			date := month.AddDate(0, 0, bill.day-1)
			if date.Before(start) || date.After(end) {
				continue
			}
			amount := bill.amount
			if amount.IsZero() {
				amount = g.GenerateAmount(models.CategoryBills)
			}
			expenses = append(expenses, g.newExpense(userID, date, models.CategoryBills, amount, bill.description))
		}
	}

	sortExpensesByDate(expenses)
	return expenses
}

func (g *expenseGenerator) newExpense(userID uuid.UUID, date time.Time, category string, amount decimal.Decimal, description string) models.Expense {
	return models.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
		CreatedAt:   date.Add(time.Duration(g.faker.IntRange(8, maxCreatedHourOffset)) * time.Hour),
	}
}

func sortExpensesByDate(expenses []models.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date)
	})
}

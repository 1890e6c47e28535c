package analytics

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type StatCard struct {
	Value  float64   `json:"value"`
	Change *float64  `json:"change"`
	Trend  []float64 `json:"trend"`
}

type TrendSeries struct {
	Months   []string  `json:"months"`
	Revenue  []float64 `json:"revenue"`
	Expenses []float64 `json:"expenses"`
	NewItems []float64 `json:"newItems"`
}

type TopItem struct {
	Name string `json:"name"`
	Qty  int64  `json:"qty"`
}

type OverviewResponse struct {
	Stats struct {
		MonthRevenue  StatCard `json:"monthRevenue"`
		TotalItems    StatCard `json:"totalItems"`
		LowStockCount StatCard `json:"lowStockCount"`
		MonthExpenses StatCard `json:"monthExpenses"`
	} `json:"stats"`
	Trends   TrendSeries `json:"trends"`
	TopItems []TopItem   `json:"topItems"`
}

type MonthlyResponse struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
}

type ExpenseStatsResponse struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func salesTotalBetween(start, end time.Time) (float64, error) {
	var v float64
	err := database.DB.Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&v).Error
	return v, err
}

func expensesTotalBetween(start, end time.Time) (float64, error) {
	var v float64
	err := database.DB.Model(&models.Expense{}).
		Where("date >= ? AND date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&v).Error
	return v, err
}

func itemsCreatedBetween(start, end time.Time) (int64, error) {
	var n int64
	err := database.DB.Model(&models.Item{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&n).Error
	return n, err
}

func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// dailyBuckets zero-fills one value per day for the last `days` days,
// newest last.
func dailyBuckets(days int, now time.Time, rows map[string]float64) []float64 {
	out := make([]float64, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := dayStart(now).AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, rows[day])
	}
	return out
}

// GET /api/analytics/overview
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		thisMonth := monthStart(now)
		nextMonth := thisMonth.AddDate(0, 1, 0)
		prevMonth := thisMonth.AddDate(0, -1, 0)

		monthRevenue, err := salesTotalBetween(thisMonth, nextMonth)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		prevRevenue, err := salesTotalBetween(prevMonth, thisMonth)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		monthExpenses, err := expensesTotalBetween(thisMonth, nextMonth)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		prevExpenses, err := expensesTotalBetween(prevMonth, thisMonth)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}

		var activeItems int64
		if err := database.DB.Model(&models.Item{}).
			Where("status = ?", models.ItemStatusActive).
			Count(&activeItems).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		newItemsThisMonth, err := itemsCreatedBetween(thisMonth, nextMonth)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		var lowStock int64
		if err := database.DB.Model(&models.Item{}).
			Where("qty_in_stock <= reorder_level AND status = ?", models.ItemStatusActive).
			Count(&lowStock).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}

		// Six-month trends, oldest first.
		trends := TrendSeries{
			Months:   make([]string, 0, 6),
			Revenue:  make([]float64, 0, 6),
			Expenses: make([]float64, 0, 6),
			NewItems: make([]float64, 0, 6),
		}
		for i := 5; i >= 0; i-- {
			start := thisMonth.AddDate(0, -i, 0)
			end := start.AddDate(0, 1, 0)

			revenue, err := salesTotalBetween(start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
			}
			expenses, err := expensesTotalBetween(start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
			}
			newItems, err := itemsCreatedBetween(start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
			}

			trends.Months = append(trends.Months, start.Format("Jan"))
			trends.Revenue = append(trends.Revenue, revenue)
			trends.Expenses = append(trends.Expenses, expenses)
			trends.NewItems = append(trends.NewItems, float64(newItems))
		}

		// Top 5 selling items this month.
		var topItems []TopItem
		err = database.DB.Raw(`
			SELECT items.name AS name, SUM(sale_items.quantity) AS qty
			FROM sale_items
			JOIN sales ON sales.id = sale_items.sale_id
			LEFT JOIN items ON items.id = sale_items.item_id
			WHERE sales.created_at >= ? AND sales.created_at < ?
			GROUP BY items.name
			ORDER BY qty DESC
			LIMIT 5`, thisMonth, nextMonth).
			Scan(&topItems).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		if topItems == nil {
			topItems = []TopItem{}
		}

		// 30-day daily trends, bucketed in Go and zero-filled.
		cutoff := dayStart(now).AddDate(0, 0, -29)

		revenueByDay := map[string]float64{}
		var recentSales []models.Sale
		if err := database.DB.Where("created_at >= ?", cutoff).Find(&recentSales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		for _, s := range recentSales {
			revenueByDay[s.CreatedAt.Format("2006-01-02")] += s.TotalAmount
		}

		itemsByDay := map[string]float64{}
		var recentItems []models.Item
		if err := database.DB.Where("created_at >= ?", cutoff).Find(&recentItems).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		for _, it := range recentItems {
			itemsByDay[it.CreatedAt.Format("2006-01-02")]++
		}

		expensesByDay := map[string]float64{}
		var recentExpenses []models.Expense
		if err := database.DB.Where("date >= ?", cutoff).Find(&recentExpenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute overview")
		}
		for _, e := range recentExpenses {
			expensesByDay[e.Date.Format("2006-01-02")] += e.Amount
		}

		var resp OverviewResponse
		revChange := percentChange(monthRevenue, prevRevenue)
		expChange := percentChange(monthExpenses, prevExpenses)
		newItemsChange := float64(newItemsThisMonth)

		resp.Stats.MonthRevenue = StatCard{
			Value:  monthRevenue,
			Change: &revChange,
			Trend:  dailyBuckets(30, now, revenueByDay),
		}
		resp.Stats.TotalItems = StatCard{
			Value:  float64(activeItems),
			Change: &newItemsChange,
			Trend:  dailyBuckets(30, now, itemsByDay),
		}
		// No historical stock snapshots exist, so low stock has no
		// change figure.
		resp.Stats.LowStockCount = StatCard{
			Value: float64(lowStock),
			Trend: []float64{},
		}
		resp.Stats.MonthExpenses = StatCard{
			Value:  monthExpenses,
			Change: &expChange,
			Trend:  dailyBuckets(30, now, expensesByDay),
		}
		resp.Trends = trends
		resp.TopItems = topItems

		return httpx.OK(c, resp)
	}
}

// GET /api/analytics/monthly?year=2026&month=8
func MonthlyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		year := c.QueryInt("year", now.Year())
		month := c.QueryInt("month", int(now.Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Month must be between 1 and 12")
		}

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0)

		revenue, err := salesTotalBetween(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute monthly report")
		}
		expenses, err := expensesTotalBetween(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute monthly report")
		}

		return httpx.OK(c, MonthlyResponse{
			Year:          year,
			Month:         month,
			TotalRevenue:  revenue,
			TotalExpenses: expenses,
			NetProfit:     revenue - expenses,
		})
	}
}

// GET /api/analytics/expense-stats
func ExpenseStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		today := dayStart(now)
		tomorrow := today.AddDate(0, 0, 1)

		// Week starts on Monday.
		weekStart := today.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
		month := monthStart(now)
		year := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

		todayTotal, err := expensesTotalBetween(today, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute expense stats")
		}
		weekTotal, err := expensesTotalBetween(weekStart, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute expense stats")
		}
		monthTotal, err := expensesTotalBetween(month, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute expense stats")
		}
		yearTotal, err := expensesTotalBetween(year, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute expense stats")
		}

		return httpx.OK(c, ExpenseStatsResponse{
			Today: todayTotal,
			Week:  weekTotal,
			Month: monthTotal,
			Year:  yearTotal,
		})
	}
}

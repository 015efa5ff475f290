package domain

import "github.com/shopspring/decimal"

type DailyRevenue struct {
	OrderDate    string          `json:"order_date" db:"order_date"`
	DailyRevenue decimal.Decimal `json:"daily_revenue" db:"daily_revenue"`
}

type TopMenuItem struct {
	Name              string `json:"name" db:"name"`
	TotalQuantitySold int64  `json:"total_quantity_sold" db:"total_quantity_sold"`
}

type TopCustomer struct {
	CustomerName string          `json:"customer_name" db:"customer_name"`
	TotalSpent   decimal.Decimal `json:"total_spent" db:"total_spent"`
}

package models

// Entry is a remote-owned order entry. The client only reads it; identity
// key is ID.
type Entry struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	CustomerName   string `json:"customerName"`
	CustomerPhone  string `json:"customerPhone"`
	OrderAddress   string `json:"orderAddress"`
	OrderImage     string `json:"orderImage"`
	ProfileImage   string `json:"profileImage"`
	CashbackAmount string `json:"cashbackAmount"`
}

type Pagination struct {
	TotalCount int `json:"totalCount"`
}

// DashboardData mirrors the getDashboardData payload: both scopes come back
// in one response with their own pagination blocks.
type DashboardData struct {
	TodaysEntries    []Entry    `json:"todaysEntries"`
	TotalEntries     []Entry    `json:"totalEntries"`
	TodaysPagination Pagination `json:"todaysPagination"`
	TotalPagination  Pagination `json:"totalPagination"`
}

package domain

type KPIs struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int     `json:"totalOrders"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalProducts  int     `json:"totalProducts"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type TopProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitsSold   int     `json:"unitsSold"`
	Revenue     float64 `json:"revenue"`
}

type ReviewStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"averageRating"`
	Pending       int     `json:"pending"`
}

type Dashboard struct {
	KPIs           KPIs              `json:"kpis"`
	OrdersByStatus []StatusCount     `json:"ordersByStatus"`
	Revenue        []RevenuePoint    `json:"revenue"`
	TopProducts    []TopProduct      `json:"topProducts"`
	LowStock       []InventoryRecord `json:"lowStock"`
	Reviews        ReviewStats       `json:"reviews"`
}

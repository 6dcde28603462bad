package domain

// BookStats is the admin dashboard aggregate over the book collection.
type BookStats struct {
	TotalBooks      int     `json:"totalBooks"`
	ActiveBooks     int     `json:"activeBooks"`
	InactiveBooks   int     `json:"inactiveBooks"`
	TotalStock      int     `json:"totalStock"`
	TotalSold       int     `json:"totalSold"`
	AverageRating   float64 `json:"averageRating"`
	FeaturedBooks   int     `json:"featuredBooks"`
	OutOfStockBooks int     `json:"outOfStockBooks"`
}

// CategoryStats is the admin dashboard aggregate over the category tree.
type CategoryStats struct {
	TotalCategories    int `json:"totalCategories"`
	ActiveCategories   int `json:"activeCategories"`
	InactiveCategories int `json:"inactiveCategories"`
	FeaturedCategories int `json:"featuredCategories"`
	ParentCategories   int `json:"parentCategories"`
	SubCategories      int `json:"subCategories"`
}

// UserStats is the admin dashboard aggregate over user accounts.
type UserStats struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	InactiveUsers     int `json:"inactiveUsers"`
	VerifiedUsers     int `json:"verifiedUsers"`
	UnverifiedUsers   int `json:"unverifiedUsers"`
	Customers         int `json:"customers"`
	Admins            int `json:"admins"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
}

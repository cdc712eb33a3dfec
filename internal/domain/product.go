package domain

// Product is a sellable catalog item. The order path only ever reads it:
// availability is checked and the price captured at creation time.
type Product struct {
	ID         int64
	CategoryID int64
	Name       string
	Price      float64
	Available  bool
	SortOrder  *int
}

// Category groups products on the menu.
type Category struct {
	ID        int64
	Name      string
	SortOrder *int
}

// Menu is the customer-facing catalog: categories in display order, each
// holding its currently available products.
type Menu struct {
	Categories []MenuCategory
}

type MenuCategory struct {
	ID        int64
	Name      string
	SortOrder *int
	Items     []MenuItem
}

type MenuItem struct {
	ID        int64
	Name      string
	Price     float64
	SortOrder *int
}

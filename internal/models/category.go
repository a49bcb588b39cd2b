package models

// Category mirrors the categories table.
type Category struct {
	CategoryID  string `db:"category_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

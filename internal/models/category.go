package models

// Category is a main expense category. Expenses reference categories by
// name; itemwise items may carry their own category name per item.
type Category struct {
	Base
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

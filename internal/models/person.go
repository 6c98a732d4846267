package models

// Person is a group member who can pay for and share expenses. People are
// referenced by id from expenses and settlement payments and are never
// deleted while referenced.
type Person struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

package model

type Category struct {
	BaseModel
	Name         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Description  string    `gorm:"type:text" json:"description"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	Products     []Product `json:"products,omitempty"`
	ProductCount int64     `gorm:"-" json:"products_count"`
}

package models

type Category struct {
	Base
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"type:text" json:"imageUrl"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	ParentID    *string   `gorm:"type:varchar(36);index" json:"parentId"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"-"`
}

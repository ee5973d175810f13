package model

// Tag is a free label attached to taggable records
type Tag struct {
	CatalogModel
	Name string `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// Taggable types stored in tag_taggable.taggable_type
const (
	TaggableProduct = "products"
)

// Taggable is the polymorphic tag join row keyed by (taggable_type, taggable_id, tag_id)
type Taggable struct {
	TagID        uint   `gorm:"primaryKey;index" json:"tag_id"`
	TaggableID   uint   `gorm:"primaryKey;index:idx_taggable" json:"taggable_id"`
	TaggableType string `gorm:"primaryKey;type:varchar(50);index:idx_taggable" json:"taggable_type"`
}

func (Taggable) TableName() string {
	return "tag_taggable"
}

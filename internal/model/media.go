package model

// MediaCollectionImages is the only collection products use
const MediaCollectionImages = "images"

// Media is a stored file attached to a product. Position orders a product's
// images; the lowest position is the primary image.
type Media struct {
	CatalogModel
	ProductID  uint   `gorm:"not null;index" json:"product_id"`
	Collection string `gorm:"type:varchar(50);not null;default:'images'" json:"collection"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	Path       string `gorm:"type:varchar(255);not null" json:"-"`
	MimeType   string `gorm:"type:varchar(100)" json:"mime_type"`
	Size       int64  `json:"size"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}

func (Media) TableName() string {
	return "media"
}

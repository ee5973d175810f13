package model

// Migratable lists every table AutoMigrate manages
func Migratable() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Category{}, &Tag{}, &Taggable{}, &Attribute{},
		&Product{}, &ProductAttribute{}, &Variant{}, &VariantAttribute{},
		&Discount{}, &Media{},
		&Order{}, &OrderItem{}, &OrderAddress{}, &CartItem{},
	}
}

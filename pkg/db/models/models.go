package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Attribute{},
		&Product{},
		&ProductVariant{},
		&ProductReview{},
		&Banner{},
		&BannerImage{},
		&Cart{},
		&Wishlist{},
		&SupportTicket{},
		&AddressBook{},
	}
}

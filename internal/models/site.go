package models

// BrandInfo is the singleton brand story record
type BrandInfo struct {
	Story       string `json:"story" bson:"story" yaml:"story"`
	CompanyInfo string `json:"companyInfo" bson:"companyInfo" yaml:"companyInfo"`
}

// SocialMedia holds optional profile links
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty" yaml:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty" yaml:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty" yaml:"twitter,omitempty"`
}

// ContactInfo is the singleton contact record
type ContactInfo struct {
	Email       string      `json:"email" bson:"email" yaml:"email"`
	Phone       string      `json:"phone" bson:"phone" yaml:"phone"`
	Address     string      `json:"address" bson:"address" yaml:"address"`
	SocialMedia SocialMedia `json:"socialMedia" bson:"socialMedia" yaml:"socialMedia"`
}

// UserQueryLog records one customer question. Entries are append-only.
type UserQueryLog struct {
	ID        string `json:"id" bson:"id" yaml:"id"`
	Query     string `json:"query" bson:"query" yaml:"query"`
	Timestamp int64  `json:"timestamp" bson:"timestamp" yaml:"timestamp"` // Unix milliseconds
}

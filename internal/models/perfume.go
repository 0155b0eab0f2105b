package models

// Availability is the stock state shown to customers
type Availability string

const (
	AvailabilityInStock    Availability = "In Stock"
	AvailabilityOutOfStock Availability = "Out of Stock"
)

// Valid reports whether a is one of the known availability values
func (a Availability) Valid() bool {
	return a == AvailabilityInStock || a == AvailabilityOutOfStock
}

// Perfume is a catalog entry curated by the admin
type Perfume struct {
	ID           string       `json:"id" bson:"_id" yaml:"id"`
	Name         string       `json:"name" bson:"name" yaml:"name"`
	Inspiration  string       `json:"inspiration" bson:"inspiration" yaml:"inspiration"`
	TopNotes     []string     `json:"topNotes" bson:"topNotes" yaml:"topNotes"`
	MiddleNotes  []string     `json:"middleNotes" bson:"middleNotes" yaml:"middleNotes"`
	BaseNotes    []string     `json:"baseNotes" bson:"baseNotes" yaml:"baseNotes"`
	Price        float64      `json:"price" bson:"price" yaml:"price"`
	Availability Availability `json:"availability" bson:"availability" yaml:"availability"`
	IsVisible    bool         `json:"isVisible" bson:"isVisible" yaml:"isVisible"`
	Character    string       `json:"character" bson:"character" yaml:"character"`
	Usage        string       `json:"usage" bson:"usage" yaml:"usage"`
	Longevity    string       `json:"longevity" bson:"longevity" yaml:"longevity"`
}

// PerfumeInput carries every perfume field except the store-assigned ID
type PerfumeInput struct {
	Name         string       `json:"name"`
	Inspiration  string       `json:"inspiration"`
	TopNotes     []string     `json:"topNotes"`
	MiddleNotes  []string     `json:"middleNotes"`
	BaseNotes    []string     `json:"baseNotes"`
	Price        float64      `json:"price"`
	Availability Availability `json:"availability"`
	IsVisible    bool         `json:"isVisible"`
	Character    string       `json:"character"`
	Usage        string       `json:"usage"`
	Longevity    string       `json:"longevity"`
}

// WithID builds the stored perfume for a freshly assigned id
func (in PerfumeInput) WithID(id string) Perfume {
	return Perfume{
		ID:           id,
		Name:         in.Name,
		Inspiration:  in.Inspiration,
		TopNotes:     in.TopNotes,
		MiddleNotes:  in.MiddleNotes,
		BaseNotes:    in.BaseNotes,
		Price:        in.Price,
		Availability: in.Availability,
		IsVisible:    in.IsVisible,
		Character:    in.Character,
		Usage:        in.Usage,
		Longevity:    in.Longevity,
	}
}

// PerfumePatch is a partial update. Nil fields are left untouched.
type PerfumePatch struct {
	Name         *string       `json:"name,omitempty"`
	Inspiration  *string       `json:"inspiration,omitempty"`
	TopNotes     *[]string     `json:"topNotes,omitempty"`
	MiddleNotes  *[]string     `json:"middleNotes,omitempty"`
	BaseNotes    *[]string     `json:"baseNotes,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
	IsVisible    *bool         `json:"isVisible,omitempty"`
	Character    *string       `json:"character,omitempty"`
	Usage        *string       `json:"usage,omitempty"`
	Longevity    *string       `json:"longevity,omitempty"`
}

// Apply merges the patch onto p and returns the result. p is not modified.
func (patch PerfumePatch) Apply(p Perfume) Perfume {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Inspiration != nil {
		p.Inspiration = *patch.Inspiration
	}
	if patch.TopNotes != nil {
		p.TopNotes = append([]string(nil), (*patch.TopNotes)...)
	}
	if patch.MiddleNotes != nil {
		p.MiddleNotes = append([]string(nil), (*patch.MiddleNotes)...)
	}
	if patch.BaseNotes != nil {
		p.BaseNotes = append([]string(nil), (*patch.BaseNotes)...)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Availability != nil {
		p.Availability = *patch.Availability
	}
	if patch.IsVisible != nil {
		p.IsVisible = *patch.IsVisible
	}
	if patch.Character != nil {
		p.Character = *patch.Character
	}
	if patch.Usage != nil {
		p.Usage = *patch.Usage
	}
	if patch.Longevity != nil {
		p.Longevity = *patch.Longevity
	}
	return p
}

// IsEmpty reports whether the patch carries no field at all
func (patch PerfumePatch) IsEmpty() bool {
	return patch == PerfumePatch{}
}

// Normalized returns p with nil note lists replaced by empty ones, so every
// backend hands out the same shape.
func (p Perfume) Normalized() Perfume {
	if p.TopNotes == nil {
		p.TopNotes = []string{}
	}
	if p.MiddleNotes == nil {
		p.MiddleNotes = []string{}
	}
	if p.BaseNotes == nil {
		p.BaseNotes = []string{}
	}
	return p
}

// Clone returns a deep copy of p
func (p Perfume) Clone() Perfume {
	p.TopNotes = append([]string{}, p.TopNotes...)
	p.MiddleNotes = append([]string{}, p.MiddleNotes...)
	p.BaseNotes = append([]string{}, p.BaseNotes...)
	return p
}

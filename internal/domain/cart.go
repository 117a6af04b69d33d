package domain

import "time"

// Cart holds the selected menu items for one student. All lines belong to a
// single canteen; the cart service rejects cross-canteen additions.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	StudentID string     `bson:"student_id" json:"student_id"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartLine is one distinct purchasable item plus the chosen quantity.
// Item fields are copied verbatim at add time.
type CartLine struct {
	ItemID    string    `bson:"item_id" json:"item_id"`
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	CanteenID string    `bson:"canteen_id" json:"canteen_id"`
	Nutrition Nutrition `bson:"nutrition" json:"nutrition"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Total returns the sum of price * quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Count returns the total unit count, not the line count.
func (c *Cart) Count() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// CanteenID returns the canteen the cart's lines belong to, or "" for an
// empty cart.
func (c *Cart) CanteenID() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0].CanteenID
}

package domain

import "time"

type Canteen struct {
	ID             string `bson:"canteen_id" json:"canteen_id"`
	Name           string `bson:"name" json:"name"`
	Description    string `bson:"description" json:"description"`
	OperatingHours string `bson:"operating_hours" json:"operating_hours"`
	ImageURL       string `bson:"image_url" json:"image_url"`
}

type Nutrition struct {
	Calories int     `bson:"calories" json:"calories"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Protein  float64 `bson:"protein" json:"protein"`
	Fat      float64 `bson:"fat" json:"fat"`
	Fiber    float64 `bson:"fiber" json:"fiber"`
	Vitamins string  `bson:"vitamins" json:"vitamins"`
	Sodium   float64 `bson:"sodium" json:"sodium"`
}

type MenuItem struct {
	ID          string    `bson:"item_id" json:"item_id"`
	Name        string    `bson:"name" json:"name"`
	CanteenID   string    `bson:"canteen_id" json:"canteen_id"`
	Price       float64   `bson:"price" json:"price"`
	Nutrition   Nutrition `bson:"nutrition" json:"nutrition"`
	Ingredients string    `bson:"ingredients" json:"ingredients"`
	Allergens   string    `bson:"allergens" json:"allergens"`
	StockQty    int       `bson:"stock_qty" json:"stock_qty"`
	Category    string    `bson:"category" json:"category"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	VegType     string    `bson:"veg_type" json:"veg_type"` // "veg" or "non-veg"
	PrepTime    int       `bson:"prep_time" json:"prep_time"`
	Available   bool      `bson:"available" json:"available"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// MenuItemUpdate carries the fields crew and management may patch. Nil means
// leave unchanged.
type MenuItemUpdate struct {
	Price     *float64 `json:"price,omitempty"`
	StockQty  *int     `json:"stock_qty,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

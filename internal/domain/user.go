package domain

import "time"

type Role string

const (
	RoleStudent    Role = "student"
	RoleCrew       Role = "crew"
	RoleManagement Role = "management"
)

type User struct {
	ID           string    `bson:"user_id" json:"user_id"`
	RollNumber   string    `bson:"roll_number,omitempty" json:"roll_number,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         Role      `bson:"role" json:"role"`
	CanteenID    string    `bson:"canteen_id,omitempty" json:"canteen_id,omitempty"` // crew only
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// SpendingAnalytics tracks a student's rolling spend totals, maintained by
// the order-events consumer.
type SpendingAnalytics struct {
	StudentID    string    `json:"student_id"`
	DailyTotal   float64   `json:"daily_total"`
	WeeklyTotal  float64   `json:"weekly_total"`
	MonthlyTotal float64   `json:"monthly_total"`
	LastUpdated  time.Time `json:"last_updated"`
}

package models

// MonthlyPlan defines a subscription template based on the 'monthly_plans' table
type MonthlyPlan struct {
	ID               int64             `json:"id" db:"id" example:"1"`
	Name             string            `json:"name" db:"name" example:"Standard"`
	Price            float64           `json:"price" db:"price" example:"100"`
	Description      string            `json:"description" db:"description"`
	Features         []string          `json:"features" db:"features"`
	GraduationScopes []GraduationScope `json:"graduationScopes" db:"graduation_scopes"`
}

// DefaultMonthlyPlans are the plan templates seeded at startup
func DefaultMonthlyPlans() []MonthlyPlan {
	return []MonthlyPlan{
		{
			Name:             "Basic",
			Price:            50,
			Description:      "Two classes a week and internal graduations",
			Features:         []string{"2 classes per week", "Internal graduations"},
			GraduationScopes: []GraduationScope{ScopeInternal},
		},
		{
			Name:             "Standard",
			Price:            100,
			Description:      "Unlimited classes with regional graduations",
			Features:         []string{"Unlimited classes", "Internal and regional graduations"},
			GraduationScopes: []GraduationScope{ScopeInternal, ScopeRegional},
		},
		{
			Name:             "Premium",
			Price:            150,
			Description:      "Unlimited classes, private sessions and every graduation",
			Features:         []string{"Unlimited classes", "Monthly private session", "Internal, regional and national graduations"},
			GraduationScopes: []GraduationScope{ScopeInternal, ScopeRegional, ScopeNational},
		},
	}
}

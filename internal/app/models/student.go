package models

// Student defines the student model based on the 'students' table
type Student struct {
	Account
	Belt          BeltRank `json:"belt" db:"belt" example:"green"`                     // Current confirmed belt
	InstructorID  *int64   `json:"instructorId,omitempty" db:"instructor_id" example:"2"` // Assigned instructor (nullable)
	MonthlyPlanID *int64   `json:"monthlyPlanId,omitempty" db:"monthly_plan_id"`        // Current subscription (nullable)
	Suspended     bool     `json:"suspended" db:"suspended" example:"false"`            // Maintained by the billing sweep

	// Derived from graduation_enrollments
	EnrolledGraduationIDs []int64 `json:"graduations"`
	ActiveGraduationID    *int64  `json:"activeGraduationId,omitempty"`
}

// HasPlan reports whether the student is subscribed to a plan
func (s *Student) HasPlan() bool {
	return s.MonthlyPlanID != nil && *s.MonthlyPlanID > 0
}

package models

import (
	"time"
)

// PassingScore is the minimum score that promotes a student
const PassingScore = 50

// Graduation defines the graduation model based on the 'graduations' table
type Graduation struct {
	ID             int64           `json:"id" db:"id" example:"1"`                                      // Unique identifier
	Level          BeltRank        `json:"level" db:"level" example:"blue"`                             // Belt the students are tested for
	Scope          GraduationScope `json:"scope" db:"scope" example:"internal"`                         // Breadth of the event
	Date           time.Time       `json:"date" db:"date" example:"2024-06-01T10:00:00Z"`               // Scheduled date
	InstructorID   int64           `json:"instructorId" db:"instructor_id" example:"2"`                 // Owning instructor
	Location       string          `json:"location" db:"location" example:"Main dojo"`                  // Where the event takes place
	AvailableSlots int             `json:"availableSlots" db:"available_slots" example:"10"`            // Remaining capacity, never negative
	Evaluated      bool            `json:"evaluated" db:"evaluated" example:"false"`                    // True once every enrolled student is evaluated
	Score          *int            `json:"score,omitempty" db:"score"`                                  // Legacy single-field patch
	Comments       *string         `json:"comments,omitempty" db:"comments"`                            // Legacy single-field patch
	CertificateURL *string         `json:"certificateUrl,omitempty" db:"certificate_url"`               // Legacy single-field patch
	CreatedAt      time.Time       `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`    // Timestamp when the graduation was created
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`    // Timestamp when the graduation was last updated

	// Loaded from graduation_enrollments and student_evaluations
	EnrolledStudentIDs []int64             `json:"enrolledStudentIds"`
	Evaluations        []StudentEvaluation `json:"evaluations"`
}

// IsEnrolled reports whether the student is on the roster
func (g *Graduation) IsEnrolled(studentID int64) bool {
	for _, id := range g.EnrolledStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// EvaluationFor returns the evaluation recorded for the student, if any
func (g *Graduation) EvaluationFor(studentID int64) *StudentEvaluation {
	for i := range g.Evaluations {
		if g.Evaluations[i].StudentID == studentID {
			return &g.Evaluations[i]
		}
	}
	return nil
}

// StudentEvaluation is the result of one student in one graduation
type StudentEvaluation struct {
	ID                      int64     `json:"id" db:"id"`
	GraduationID            int64     `json:"graduationId" db:"graduation_id"`
	StudentID               int64     `json:"studentId" db:"student_id"`
	Score                   int       `json:"score" db:"score" example:"80"`
	Comments                string    `json:"comments" db:"comments" example:"Solid kata"`
	EvaluatedByInstructorID int64     `json:"evaluatedBy" db:"evaluated_by"`
	EvaluationDate          time.Time `json:"evaluationDate" db:"evaluation_date"`
	DiplomaPath             *string   `json:"diplomaPath" db:"diploma_path"` // Null until a diploma is issued
}

// Passed reports whether the score reaches the promotion threshold
func (e *StudentEvaluation) Passed() bool {
	return e.Score >= PassingScore
}

// GraduationFilter holds the list query parameters
type GraduationFilter struct {
	Level          *BeltRank
	DateFrom       *time.Time
	MinSlots       *int
	SortBy         string // date, level, availableSlots, createdAt or empty
	SortDescending bool
	Page           int
	PageSize       int
}

// GraduationPatch is the legacy single-field update. Nil fields are left untouched.
type GraduationPatch struct {
	Score          *int
	Comments       *string
	CertificateURL *string
}

// IsEmpty reports whether the patch changes nothing
func (p GraduationPatch) IsEmpty() bool {
	return p.Score == nil && p.Comments == nil && p.CertificateURL == nil
}

// Enrollment is one row of a graduation roster
type Enrollment struct {
	GraduationID int64     `json:"graduationId" db:"graduation_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	Active       bool      `json:"active" db:"active"` // false once the student is evaluated
	EnrolledAt   time.Time `json:"enrolledAt" db:"enrolled_at"`
}

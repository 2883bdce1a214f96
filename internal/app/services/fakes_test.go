package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/diploma"
	"github.com/yigit/dojo/internal/pkg/email"
)

// memGraduationStore mirrors the locking behaviour of the Postgres repository:
// every roster mutation re-checks its preconditions under one mutex.
type memGraduationStore struct {
	mu          sync.Mutex
	nextID      int64
	nextEvalID  int64
	graduations map[int64]*models.Graduation
	enrollments []models.Enrollment
	evaluations []models.StudentEvaluation
	students    *memStudentStore
}

func newMemGraduationStore(students *memStudentStore) *memGraduationStore {
	return &memGraduationStore{graduations: map[int64]*models.Graduation{}, students: students}
}

func (m *memGraduationStore) load(id int64) (*models.Graduation, error) {
	g, ok := m.graduations[id]
	if !ok {
		return nil, apperrors.ErrGraduationNotFound
	}
	out := *g
	out.EnrolledStudentIDs = []int64{}
	out.Evaluations = []models.StudentEvaluation{}
	for _, e := range m.enrollments {
		if e.GraduationID == id {
			out.EnrolledStudentIDs = append(out.EnrolledStudentIDs, e.StudentID)
		}
	}
	for _, ev := range m.evaluations {
		if ev.GraduationID == id {
			out.Evaluations = append(out.Evaluations, ev)
		}
	}
	return &out, nil
}

func (m *memGraduationStore) Create(_ context.Context, g *models.Graduation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	g.ID = m.nextID
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	stored := *g
	m.graduations[g.ID] = &stored
	g.EnrolledStudentIDs = []int64{}
	g.Evaluations = []models.StudentEvaluation{}
	return nil
}

func (m *memGraduationStore) GetByID(_ context.Context, id int64) (*models.Graduation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

func (m *memGraduationStore) List(_ context.Context, filter models.GraduationFilter) ([]*models.Graduation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.graduations))
	for id := range m.graduations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []*models.Graduation
	for _, id := range ids {
		g, _ := m.load(id)
		if filter.Level != nil && g.Level != *filter.Level {
			continue
		}
		if filter.DateFrom != nil && g.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.MinSlots != nil && g.AvailableSlots < *filter.MinSlots {
			continue
		}
		matched = append(matched, g)
	}
	if filter.SortBy == "availableSlots" {
		sort.SliceStable(matched, func(i, j int) bool {
			if filter.SortDescending {
				return matched[i].AvailableSlots > matched[j].AvailableSlots
			}
			return matched[i].AvailableSlots < matched[j].AvailableSlots
		})
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memGraduationStore) ListByStudent(_ context.Context, studentID int64) ([]*models.Graduation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Graduation{}
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			g, err := m.load(e.GraduationID)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memGraduationStore) ApplyPatch(_ context.Context, id int64, patch models.GraduationPatch) (*models.Graduation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graduations[id]
	if !ok {
		return nil, apperrors.ErrGraduationNotFound
	}
	if patch.Score != nil {
		g.Score = patch.Score
	}
	if patch.Comments != nil {
		g.Comments = patch.Comments
	}
	if patch.CertificateURL != nil {
		g.CertificateURL = patch.CertificateURL
	}
	return m.load(id)
}

func (m *memGraduationStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.graduations[id]; !ok {
		return apperrors.ErrGraduationNotFound
	}
	delete(m.graduations, id)
	kept := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.GraduationID != id {
			kept = append(kept, e)
		}
	}
	m.enrollments = kept
	return nil
}

func (m *memGraduationStore) FindActiveEnrollment(_ context.Context, studentID int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.Active {
			return e.GraduationID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memGraduationStore) ListEnrollments(_ context.Context, graduationID int64) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.GraduationID == graduationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memGraduationStore) Enroll(_ context.Context, graduationID, studentID int64) (*models.Graduation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graduations[graduationID]
	if !ok {
		return nil, apperrors.ErrGraduationNotFound
	}
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.GraduationID == graduationID {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		if e.StudentID == studentID && e.Active {
			return nil, apperrors.ErrAlreadyEnrolledElsewhere
		}
	}
	if g.AvailableSlots <= 0 {
		return nil, apperrors.ErrNoSlotsAvailable
	}
	g.AvailableSlots--
	m.enrollments = append(m.enrollments, models.Enrollment{
		GraduationID: graduationID,
		StudentID:    studentID,
		Active:       true,
		EnrolledAt:   time.Now().UTC(),
	})
	return m.load(graduationID)
}

func (m *memGraduationStore) Unenroll(_ context.Context, graduationID, studentID int64) (*models.Graduation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graduations[graduationID]
	if !ok {
		return nil, apperrors.ErrGraduationNotFound
	}
	for i, e := range m.enrollments {
		if e.GraduationID == graduationID && e.StudentID == studentID {
			if !e.Active {
				return nil, apperrors.ErrAlreadyEvaluated
			}
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			g.AvailableSlots++
			return m.load(graduationID)
		}
	}
	return nil, apperrors.ErrNotEnrolled
}

func (m *memGraduationStore) RecordEvaluation(_ context.Context, eval *models.StudentEvaluation, promoteTo *models.BeltRank) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.evaluations {
		if ev.GraduationID == eval.GraduationID && ev.StudentID == eval.StudentID {
			return apperrors.ErrAlreadyEvaluated
		}
	}
	m.nextEvalID++
	eval.ID = m.nextEvalID
	m.evaluations = append(m.evaluations, *eval)

	pending := 0
	for i := range m.enrollments {
		e := &m.enrollments[i]
		if e.GraduationID != eval.GraduationID {
			continue
		}
		if e.StudentID == eval.StudentID {
			e.Active = false
		}
		if e.Active {
			pending++
		}
	}
	if pending == 0 {
		m.graduations[eval.GraduationID].Evaluated = true
	}
	if promoteTo != nil {
		m.students.setBelt(eval.StudentID, *promoteTo)
	}
	return nil
}

func (m *memGraduationStore) SetDiplomaPath(_ context.Context, evaluationID int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.evaluations {
		if m.evaluations[i].ID == evaluationID {
			p := path
			m.evaluations[i].DiplomaPath = &p
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

type memStudentStore struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
	lookups  int // single-student reads, batched reads count once
}

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{students: map[int64]*models.Student{}}
}

func (m *memStudentStore) add(s *models.Student) *models.Student {
	_ = m.Create(context.Background(), s)
	return s
}

func (m *memStudentStore) setBelt(id int64, belt models.BeltRank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		s.Belt = belt
	}
}

func (m *memStudentStore) setPlan(id int64, planID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		s.MonthlyPlanID = planID
	}
}

func (m *memStudentStore) Create(_ context.Context, s *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.Email == s.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	m.nextID++
	s.ID = m.nextID
	stored := *s
	m.students[s.ID] = &stored
	return nil
}

func (m *memStudentStore) setInstructor(id int64, instructorID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		s.InstructorID = instructorID
	}
}

func (m *memStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	s, ok := m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	out := *s
	return &out, nil
}

func (m *memStudentStore) GetByEmail(_ context.Context, emailAddr string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Email == emailAddr {
			out := *s
			return &out, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (m *memStudentStore) ListByIDs(_ context.Context, ids []int64) ([]*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	out := []*models.Student{}
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStudentStore) ListByInstructor(_ context.Context, instructorID int64) ([]*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Student{}
	for _, s := range m.students {
		if s.InstructorID != nil && *s.InstructorID == instructorID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memInstructorStore keeps assignments on the linked student store, like the
// students.instructor_id column
type memInstructorStore struct {
	mu          sync.Mutex
	instructors map[int64]*models.Instructor
	students    *memStudentStore
}

func newMemInstructorStore(instructors ...*models.Instructor) *memInstructorStore {
	m := &memInstructorStore{instructors: map[int64]*models.Instructor{}, students: newMemStudentStore()}
	for _, i := range instructors {
		m.instructors[i.ID] = i
	}
	return m
}

func (m *memInstructorStore) GetByID(_ context.Context, id int64) (*models.Instructor, error) {
	i, ok := m.instructors[id]
	if !ok {
		return nil, apperrors.ErrInstructorNotFound
	}
	return i, nil
}

func (m *memInstructorStore) GetByEmail(_ context.Context, emailAddr string) (*models.Instructor, error) {
	for _, i := range m.instructors {
		if i.Email == emailAddr {
			return i, nil
		}
	}
	return nil, apperrors.ErrInstructorNotFound
}

func (m *memInstructorStore) List(context.Context) ([]*models.Instructor, error) {
	out := make([]*models.Instructor, 0, len(m.instructors))
	for _, i := range m.instructors {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memInstructorStore) CountStudents(ctx context.Context, instructorID int64) (int, error) {
	students, err := m.students.ListByInstructor(ctx, instructorID)
	return len(students), err
}

func (m *memInstructorStore) AssignStudent(ctx context.Context, instructorID, studentID int64, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instructors[instructorID]; !ok {
		return apperrors.ErrInstructorNotFound
	}
	s, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if s.InstructorID != nil && *s.InstructorID == instructorID {
		return apperrors.ErrStudentAlreadyAssigned
	}
	n, _ := m.CountStudents(ctx, instructorID)
	if n >= limit {
		return apperrors.ErrStudentLimitReached
	}
	m.students.setInstructor(studentID, int64Ptr(instructorID))
	return nil
}

func (m *memInstructorStore) UnassignStudent(ctx context.Context, instructorID, studentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if s.InstructorID == nil || *s.InstructorID != instructorID {
		return apperrors.ErrStudentNotAssigned
	}
	m.students.setInstructor(studentID, nil)
	return nil
}

type memPlanStore struct {
	plans []models.MonthlyPlan
}

func newMemPlanStore() *memPlanStore {
	plans := models.DefaultMonthlyPlans()
	for i := range plans {
		plans[i].ID = int64(i + 1)
	}
	return &memPlanStore{plans: plans}
}

func (m *memPlanStore) List(context.Context) ([]models.MonthlyPlan, error) {
	return m.plans, nil
}

func (m *memPlanStore) GetByID(_ context.Context, id int64) (*models.MonthlyPlan, error) {
	for i := range m.plans {
		if m.plans[i].ID == id {
			p := m.plans[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrPlanNotFound
}

type memFeeStore struct {
	mu       sync.Mutex
	nextID   int64
	fees     map[int64]*models.MonthlyFee
	students *memStudentStore
}

func newMemFeeStore(students *memStudentStore) *memFeeStore {
	return &memFeeStore{fees: map[int64]*models.MonthlyFee{}, students: students}
}

func (m *memFeeStore) Subscribe(ctx context.Context, fee *models.MonthlyFee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	fee.ID = m.nextID
	stored := *fee
	m.fees[fee.ID] = &stored
	planID := fee.PlanID
	m.students.setPlan(fee.StudentID, &planID)
	return nil
}

func (m *memFeeStore) Unsubscribe(ctx context.Context, studentID int64) error {
	s, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if !s.HasPlan() {
		return apperrors.ErrNoActivePlan
	}
	m.students.setPlan(studentID, nil)
	return nil
}

func (m *memFeeStore) GetByID(_ context.Context, id int64) (*models.MonthlyFee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fees[id]
	if !ok {
		return nil, apperrors.ErrMonthlyFeeNotFound
	}
	out := *f
	return &out, nil
}

func (m *memFeeStore) ListByStudent(_ context.Context, studentID int64) ([]models.MonthlyFee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MonthlyFee
	for _, f := range m.fees {
		if f.StudentID == studentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFeeStore) List(_ context.Context, filter models.FeeFilter) ([]models.MonthlyFee, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.MonthlyFee
	for _, f := range m.fees {
		if filter.Status != nil && f.Status != *filter.Status {
			continue
		}
		if filter.StudentID != nil && f.StudentID != *filter.StudentID {
			continue
		}
		if filter.MinAmount != nil && f.Amount < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && f.Amount > *filter.MaxAmount {
			continue
		}
		matched = append(matched, *f)
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortAscending {
			return matched[i].DueDate.Before(matched[j].DueDate)
		}
		return matched[i].DueDate.After(matched[j].DueDate)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memFeeStore) MarkPaid(_ context.Context, id int64, method models.PaymentMethod, transactionID *string, paidAt time.Time) (*models.MonthlyFee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fees[id]
	if !ok {
		return nil, apperrors.ErrMonthlyFeeNotFound
	}
	f.Status = models.FeeStatusPaid
	f.PaymentMethod = &method
	f.TransactionID = transactionID
	f.PaymentDate = &paidAt
	out := *f
	return &out, nil
}

func (m *memFeeStore) HasOutstandingLateFee(_ context.Context, studentID int64, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.fees {
		if f.StudentID == studentID && (f.Status == models.FeeStatusLate || f.IsOverdue(now)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFeeStore) MarkOverdueLate(_ context.Context, now time.Time) (models.FeeSweepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res models.FeeSweepResult
	for _, f := range m.fees {
		if f.IsOverdue(now) {
			f.Status = models.FeeStatusLate
			res.FeesMarkedLate++
		}
	}
	return res, nil
}

// memResetTokenStore applies passwords to the linked account stores
type memResetTokenStore struct {
	mu          sync.Mutex
	tokens      map[string]*models.PasswordResetToken
	students    *memStudentStore
	instructors *memInstructorStore
}

func newMemResetTokenStore(students *memStudentStore, instructors *memInstructorStore) *memResetTokenStore {
	return &memResetTokenStore{tokens: map[string]*models.PasswordResetToken{}, students: students, instructors: instructors}
}

func (m *memResetTokenStore) CreateToken(_ context.Context, token *models.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, t := range m.tokens {
		if t.Role == token.Role && t.AccountID == token.AccountID {
			delete(m.tokens, hash)
		}
	}
	token.ID = int64(len(m.tokens) + 1)
	stored := *token
	m.tokens[token.TokenHash] = &stored
	return nil
}

func (m *memResetTokenStore) ResetPassword(_ context.Context, tokenHash, passwordHash string, now time.Time) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenHash]
	if !ok || !t.Usable(now) {
		return nil, apperrors.ErrResetTokenInvalid
	}
	if t.Role == models.RoleAdmin {
		i, ok := m.instructors.instructors[t.AccountID]
		if !ok {
			return nil, apperrors.ErrResetTokenInvalid
		}
		i.PasswordHash = passwordHash
	} else {
		m.students.mu.Lock()
		s, ok := m.students.students[t.AccountID]
		if ok {
			s.PasswordHash = passwordHash
		}
		m.students.mu.Unlock()
		if !ok {
			return nil, apperrors.ErrResetTokenInvalid
		}
	}
	t.Used = true
	out := *t
	return &out, nil
}

// fixedBilling reports a constant late-fee state
type fixedBilling struct {
	late bool
	err  error
}

func (f fixedBilling) HasOutstandingLateFee(context.Context, int64) (bool, error) {
	return f.late, f.err
}

type fakeDiplomas struct {
	mu       sync.Mutex
	requests []diploma.Request
	err      error
}

func (f *fakeDiplomas) Generate(_ context.Context, req diploma.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return "diplomas/" + req.StudentName + ".pdf", nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []email.Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, note email.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, note)
	return f.err
}

var errGatewayDown = errors.New("gateway down")

func int64Ptr(v int64) *int64 { return &v }

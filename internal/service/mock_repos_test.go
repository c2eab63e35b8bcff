package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campus-events/backend/config"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/mail"
)

// fakeStore backs every mock repository, so relations resolve the way Preload does.
type fakeStore struct {
	mu            sync.Mutex
	nextID        int64
	students      map[int64]*model.Student
	faculty       map[int64]*model.Faculty
	events        map[int64]*model.Event
	registrations map[int64]*model.Registration
	onduty        map[int64]*model.OnDutyRequest
	feedback      map[int64]*model.Feedback
	notifications []model.Notification
	courses       map[int64]*model.Course
	slots         map[int64]*model.TimetableSlot
	exams         map[int64]*model.Exam

	failNotifications bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:        100,
		students:      make(map[int64]*model.Student),
		faculty:       make(map[int64]*model.Faculty),
		events:        make(map[int64]*model.Event),
		registrations: make(map[int64]*model.Registration),
		onduty:        make(map[int64]*model.OnDutyRequest),
		feedback:      make(map[int64]*model.Feedback),
		courses:       make(map[int64]*model.Course),
		slots:         make(map[int64]*model.TimetableSlot),
		exams:         make(map[int64]*model.Exam),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// repository builds the aggregate without a database; BeginTx yields a nil tx.
func (s *fakeStore) repository() *repository.Repository {
	return &repository.Repository{
		Student:      &mockStudentRepo{s},
		Faculty:      &mockFacultyRepo{s},
		Event:        &mockEventRepo{s},
		Registration: &mockRegistrationRepo{s},
		OnDuty:       &mockOnDutyRepo{s},
		Feedback:     &mockFeedbackRepo{s},
		Notification: &mockNotificationRepo{s},
		Course:       &mockCourseRepo{s},
		Timetable:    &mockTimetableRepo{s},
		Exam:         &mockExamRepo{s},
	}
}

var errDuplicate = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ s *fakeStore }

func (m *mockStudentRepo) Create(_ context.Context, st *model.Student) error {
	for _, existing := range m.s.students {
		if existing.RegisterNumber == st.RegisterNumber {
			return errDuplicate
		}
	}
	if st.ID == 0 {
		st.ID = m.s.id()
	}
	cp := *st
	m.s.students[st.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if st, ok := m.s.students[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByRegisterNumber(_ context.Context, regNo string) (*model.Student, error) {
	for _, st := range m.s.students {
		if st.RegisterNumber == regNo {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, st := range m.s.sortedStudents() {
		if st.Email == email {
			cp := st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, st *model.Student) error {
	if _, ok := m.s.students[st.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *st
	m.s.students[st.ID] = &cp
	return nil
}

func (m *mockStudentRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	st, ok := m.s.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.PasswordHash = hash
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	return m.s.sortedStudents(), nil
}

func (m *mockStudentRepo) ListByCohort(_ context.Context, department string, semester int) ([]model.Student, error) {
	var out []model.Student
	for _, st := range m.s.sortedStudents() {
		if st.Department == department && st.Semester == semester {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.students)), nil
}

func (s *fakeStore) sortedStudents() []model.Student {
	out := make([]model.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Mock FacultyRepository ──

type mockFacultyRepo struct{ s *fakeStore }

func (m *mockFacultyRepo) Create(_ context.Context, f *model.Faculty) error {
	for _, existing := range m.s.faculty {
		if existing.Email == f.Email {
			return errDuplicate
		}
	}
	if f.ID == 0 {
		f.ID = m.s.id()
	}
	cp := *f
	m.s.faculty[f.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) GetByID(_ context.Context, id int64) (*model.Faculty, error) {
	if f, ok := m.s.faculty[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacultyRepo) GetByEmail(_ context.Context, email string) (*model.Faculty, error) {
	for _, f := range m.s.faculty {
		if f.Email == email {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacultyRepo) Update(_ context.Context, f *model.Faculty) error {
	if _, ok := m.s.faculty[f.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *f
	m.s.faculty[f.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	f, ok := m.s.faculty[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.PasswordHash = hash
	return nil
}

func (m *mockFacultyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.faculty[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.faculty, id)
	return nil
}

func (m *mockFacultyRepo) List(_ context.Context) ([]model.Faculty, error) {
	out := make([]model.Faculty, 0, len(m.s.faculty))
	for _, f := range m.s.faculty {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFacultyRepo) ListAdmins(ctx context.Context) ([]model.Faculty, error) {
	all, _ := m.List(ctx)
	var out []model.Faculty
	for _, f := range all {
		if f.IsAdmin {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFacultyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.faculty)), nil
}

// ── Mock EventRepository ──

type mockEventRepo struct{ s *fakeStore }

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	if e.ID == 0 {
		e.ID = m.s.id()
	}
	cp := *e
	cp.Coordinator = nil
	m.s.events[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*model.Event, error) {
	if e, ok := m.s.events[id]; ok {
		return m.s.hydrateEvent(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) SetStatus(_ context.Context, id int64, status model.EventStatus) error {
	e, ok := m.s.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, offset, limit int) ([]model.Event, int64, error) {
	all := m.s.sortedEvents()
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Event{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockEventRepo) ListByCoordinator(_ context.Context, facultyID int64) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.s.sortedEvents() {
		if e.CoordinatorID != nil && *e.CoordinatorID == facultyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.events)), nil
}

func (m *mockEventRepo) Stats(ctx context.Context, coordinatorID int64) ([]model.EventStats, error) {
	var out []model.EventStats
	for _, e := range m.s.sortedEvents() {
		if coordinatorID != 0 && (e.CoordinatorID == nil || *e.CoordinatorID != coordinatorID) {
			continue
		}
		st := model.EventStats{EventID: e.ID, EventName: e.Name, EventDate: e.Date, Location: e.Location, Status: e.Status}
		for _, r := range m.s.registrations {
			if r.EventID != e.ID {
				continue
			}
			st.Registrations++
			if r.IsPresent() {
				st.Attended++
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// sortedEvents newest event date first, as the public listing orders them.
func (s *fakeStore) sortedEvents() []model.Event {
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *s.hydrateEvent(e))
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := time.Time(out[i].Date), time.Time(out[j].Date)
		if ti.Equal(tj) {
			return out[i].ID < out[j].ID
		}
		return ti.After(tj)
	})
	return out
}

func (s *fakeStore) hydrateEvent(e *model.Event) *model.Event {
	cp := *e
	if cp.CoordinatorID != nil {
		if f, ok := s.faculty[*cp.CoordinatorID]; ok {
			fc := *f
			cp.Coordinator = &fc
		}
	}
	return &cp
}

// ── Mock RegistrationRepository ──

type mockRegistrationRepo struct{ s *fakeStore }

func (m *mockRegistrationRepo) Create(_ context.Context, r *model.Registration) error {
	for _, existing := range m.s.registrations {
		if existing.StudentID == r.StudentID && existing.EventID == r.EventID {
			return errDuplicate
		}
	}
	if r.ID == 0 {
		r.ID = m.s.id()
	}
	cp := *r
	cp.Student, cp.Event = nil, nil
	m.s.registrations[r.ID] = &cp
	return nil
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id int64) (*model.Registration, error) {
	if r, ok := m.s.registrations[id]; ok {
		return m.s.hydrateRegistration(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) GetByStudentAndEvent(_ context.Context, studentID, eventID int64) (*model.Registration, error) {
	for _, r := range m.s.registrations {
		if r.StudentID == studentID && r.EventID == eventID {
			return m.s.hydrateRegistration(r), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) GetByToken(_ context.Context, token string) (*model.Registration, error) {
	for _, r := range m.s.registrations {
		if r.QRToken == token {
			return m.s.hydrateRegistration(r), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) MarkPresent(_ context.Context, token string) error {
	for _, r := range m.s.registrations {
		if r.QRToken == token {
			present, pending := model.AttendancePresent, model.CertificatePending
			r.Attendance, r.CertificateStatus = &present, &pending
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) SetCertificateStatus(_ context.Context, id int64, status string) error {
	r, ok := m.s.registrations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.CertificateStatus = &status
	return nil
}

func (m *mockRegistrationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.registrations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.registrations, id)
	return nil
}

func (m *mockRegistrationRepo) DeleteByEvent(_ context.Context, eventID int64) error {
	for id, r := range m.s.registrations {
		if r.EventID == eventID {
			delete(m.s.registrations, id)
		}
	}
	return nil
}

func (m *mockRegistrationRepo) DeleteByStudent(_ context.Context, studentID int64) error {
	for id, r := range m.s.registrations {
		if r.StudentID == studentID {
			delete(m.s.registrations, id)
		}
	}
	return nil
}

func (m *mockRegistrationRepo) ListByStudent(_ context.Context, studentID int64) ([]model.Registration, error) {
	return m.s.filterRegistrations(func(r *model.Registration) bool { return r.StudentID == studentID }), nil
}

func (m *mockRegistrationRepo) ListByEvent(_ context.Context, eventID int64) ([]model.Registration, error) {
	return m.s.filterRegistrations(func(r *model.Registration) bool { return r.EventID == eventID }), nil
}

func (m *mockRegistrationRepo) ListByCertificateStatus(_ context.Context, status string) ([]model.Registration, error) {
	return m.s.filterRegistrations(func(r *model.Registration) bool { return r.Certificate() == status }), nil
}

func (m *mockRegistrationRepo) EventIDsForStudent(_ context.Context, studentID int64) ([]int64, error) {
	var ids []int64
	for _, r := range m.s.filterRegistrations(func(r *model.Registration) bool { return r.StudentID == studentID }) {
		ids = append(ids, r.EventID)
	}
	return ids, nil
}

func (m *mockRegistrationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.registrations)), nil
}

func (s *fakeStore) filterRegistrations(keep func(*model.Registration) bool) []model.Registration {
	var out []model.Registration
	for _, r := range s.registrations {
		if keep(r) {
			out = append(out, *s.hydrateRegistration(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) hydrateRegistration(r *model.Registration) *model.Registration {
	cp := *r
	if st, ok := s.students[cp.StudentID]; ok {
		sc := *st
		cp.Student = &sc
	}
	if e, ok := s.events[cp.EventID]; ok {
		cp.Event = s.hydrateEvent(e)
	}
	return &cp
}

// racingRegistrationRepo behaves as if another request inserted the row
// between the existence check and the insert.
type racingRegistrationRepo struct{ repository.RegistrationRepository }

func (racingRegistrationRepo) GetByStudentAndEvent(context.Context, int64, int64) (*model.Registration, error) {
	return nil, gorm.ErrRecordNotFound
}

func (racingRegistrationRepo) Create(context.Context, *model.Registration) error {
	return errDuplicate
}

// ── Mock OnDutyRepository ──

type mockOnDutyRepo struct{ s *fakeStore }

func (m *mockOnDutyRepo) Create(_ context.Context, req *model.OnDutyRequest) error {
	for _, existing := range m.s.onduty {
		if existing.StudentID == req.StudentID && existing.EventID == req.EventID {
			return errDuplicate
		}
	}
	if req.ID == 0 {
		req.ID = m.s.id()
	}
	cp := *req
	m.s.onduty[req.ID] = &cp
	return nil
}

func (m *mockOnDutyRepo) GetByID(_ context.Context, id int64) (*model.OnDutyRequest, error) {
	if r, ok := m.s.onduty[id]; ok {
		return m.s.hydrateOnDuty(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOnDutyRepo) GetByStudentAndEvent(_ context.Context, studentID, eventID int64) (*model.OnDutyRequest, error) {
	for _, r := range m.s.onduty {
		if r.StudentID == studentID && r.EventID == eventID {
			return m.s.hydrateOnDuty(r), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOnDutyRepo) Resolve(_ context.Context, id int64, status string, approvedBy int64) error {
	r, ok := m.s.onduty[id]
	if !ok || r.Status != model.OnDutyPending {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	r.ApprovedBy = &approvedBy
	return nil
}

func (m *mockOnDutyRepo) List(_ context.Context) ([]model.OnDutyRequest, error) {
	var out []model.OnDutyRequest
	for _, r := range m.s.onduty {
		out = append(out, *m.s.hydrateOnDuty(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockOnDutyRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.OnDutyRequest, error) {
	all, _ := m.List(ctx)
	var out []model.OnDutyRequest
	for _, r := range all {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockOnDutyRepo) DeleteByStudent(_ context.Context, studentID int64) error {
	for id, r := range m.s.onduty {
		if r.StudentID == studentID {
			delete(m.s.onduty, id)
		}
	}
	return nil
}

func (m *mockOnDutyRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, r := range m.s.onduty {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) hydrateOnDuty(r *model.OnDutyRequest) *model.OnDutyRequest {
	cp := *r
	if st, ok := s.students[cp.StudentID]; ok {
		sc := *st
		cp.Student = &sc
	}
	if e, ok := s.events[cp.EventID]; ok {
		cp.Event = s.hydrateEvent(e)
	}
	return &cp
}

type racingOnDutyRepo struct{ repository.OnDutyRepository }

func (racingOnDutyRepo) GetByStudentAndEvent(context.Context, int64, int64) (*model.OnDutyRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func (racingOnDutyRepo) Create(context.Context, *model.OnDutyRequest) error {
	return errDuplicate
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct{ s *fakeStore }

func (m *mockFeedbackRepo) Create(_ context.Context, fb *model.Feedback) error {
	for _, existing := range m.s.feedback {
		if existing.StudentID == fb.StudentID && existing.EventID == fb.EventID {
			return errDuplicate
		}
	}
	if fb.ID == 0 {
		fb.ID = m.s.id()
	}
	cp := *fb
	m.s.feedback[fb.ID] = &cp
	return nil
}

func (m *mockFeedbackRepo) GetByStudentAndEvent(_ context.Context, studentID, eventID int64) (*model.Feedback, error) {
	for _, fb := range m.s.feedback {
		if fb.StudentID == studentID && fb.EventID == eventID {
			cp := *fb
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) List(_ context.Context) ([]model.Feedback, error) {
	var out []model.Feedback
	for _, fb := range m.s.feedback {
		cp := *fb
		if st, ok := m.s.students[cp.StudentID]; ok {
			sc := *st
			cp.Student = &sc
		}
		if e, ok := m.s.events[cp.EventID]; ok {
			cp.Event = m.s.hydrateEvent(e)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFeedbackRepo) EventIDsForStudent(_ context.Context, studentID int64) ([]int64, error) {
	var ids []int64
	for _, fb := range m.s.feedback {
		if fb.StudentID == studentID {
			ids = append(ids, fb.EventID)
		}
	}
	return ids, nil
}

func (m *mockFeedbackRepo) DeleteByStudent(_ context.Context, studentID int64) error {
	for id, fb := range m.s.feedback {
		if fb.StudentID == studentID {
			delete(m.s.feedback, id)
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct{ s *fakeStore }

var errNotificationsDown = errors.New("notifications table unavailable")

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failNotifications {
		return errNotificationsDown
	}
	n.ID = m.s.id()
	m.s.notifications = append(m.s.notifications, *n)
	return nil
}

// ListRecent newest first; insertion order stands in for created_at.
func (m *mockNotificationRepo) ListRecent(_ context.Context, userID int64, role model.Role, limit int) ([]model.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Notification
	for i := len(m.s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := m.s.notifications[i]
		if n.UserID == userID && n.UserRole == role {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID int64, role model.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.notifications {
		if m.s.notifications[i].UserID == userID && m.s.notifications[i].UserRole == role {
			m.s.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID int64, role model.Role) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, item := range m.s.notifications {
		if item.UserID == userID && item.UserRole == role && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// notificationsFor messages addressed to (userID, role), oldest first.
func (s *fakeStore) notificationsFor(userID int64, role model.Role) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, n := range s.notifications {
		if n.UserID == userID && n.UserRole == role {
			out = append(out, n.Message)
		}
	}
	return out
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ s *fakeStore }

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	if c.ID == 0 {
		c.ID = m.s.id()
	}
	cp := *c
	m.s.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	if c, ok := m.s.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	out := make([]model.Course, 0, len(m.s.courses))
	for _, c := range m.s.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.courses, id)
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct{ s *fakeStore }

func (m *mockTimetableRepo) Create(_ context.Context, slot *model.TimetableSlot) error {
	if slot.ID == 0 {
		slot.ID = m.s.id()
	}
	cp := *slot
	cp.Course, cp.Faculty = nil, nil
	m.s.slots[slot.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id int64) (*model.TimetableSlot, error) {
	if slot, ok := m.s.slots[id]; ok {
		return m.s.hydrateSlot(slot), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) FindOverlap(_ context.Context, facultyID int64, day string, start, end datatypes.Time) (*model.TimetableSlot, error) {
	for _, slot := range m.s.sortedSlots() {
		if slot.FacultyID == facultyID && slot.Day == day && slot.Overlaps(start, end) {
			return &slot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.slots, id)
	return nil
}

func (m *mockTimetableRepo) DeleteByCourse(_ context.Context, courseID int64) error {
	for id, slot := range m.s.slots {
		if slot.CourseID == courseID {
			delete(m.s.slots, id)
		}
	}
	return nil
}

func (m *mockTimetableRepo) ListAll(_ context.Context) ([]model.TimetableSlot, error) {
	return m.s.sortedSlots(), nil
}

func (m *mockTimetableRepo) ListByFaculty(_ context.Context, facultyID int64) ([]model.TimetableSlot, error) {
	var out []model.TimetableSlot
	for _, slot := range m.s.sortedSlots() {
		if slot.FacultyID == facultyID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (m *mockTimetableRepo) ListByCohort(_ context.Context, department string, semester int) ([]model.TimetableSlot, error) {
	var out []model.TimetableSlot
	for _, slot := range m.s.sortedSlots() {
		if slot.Course != nil && slot.Course.Department == department && slot.Course.Semester == semester {
			out = append(out, slot)
		}
	}
	return out, nil
}

// sortedSlots weekday order, then start time.
func (s *fakeStore) sortedSlots() []model.TimetableSlot {
	out := make([]model.TimetableSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, *s.hydrateSlot(slot))
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := model.WeekdayIndex(out[i].Day), model.WeekdayIndex(out[j].Day)
		if di != dj {
			return di < dj
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (s *fakeStore) hydrateSlot(slot *model.TimetableSlot) *model.TimetableSlot {
	cp := *slot
	if c, ok := s.courses[cp.CourseID]; ok {
		cc := *c
		cp.Course = &cc
	}
	if f, ok := s.faculty[cp.FacultyID]; ok {
		fc := *f
		cp.Faculty = &fc
	}
	return &cp
}

// ── Mock ExamRepository ──

type mockExamRepo struct{ s *fakeStore }

func (m *mockExamRepo) Create(_ context.Context, e *model.Exam) error {
	if e.ID == 0 {
		e.ID = m.s.id()
	}
	cp := *e
	cp.Course = nil
	m.s.exams[e.ID] = &cp
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id int64) (*model.Exam, error) {
	if e, ok := m.s.exams[id]; ok {
		return m.s.hydrateExam(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.exams, id)
	return nil
}

func (m *mockExamRepo) DeleteByCourse(_ context.Context, courseID int64) error {
	for id, e := range m.s.exams {
		if e.CourseID == courseID {
			delete(m.s.exams, id)
		}
	}
	return nil
}

func (m *mockExamRepo) ListAll(_ context.Context) ([]model.Exam, error) {
	return m.s.sortedExams(), nil
}

func (m *mockExamRepo) ListByCohort(_ context.Context, department string, semester int) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range m.s.sortedExams() {
		if e.Course != nil && e.Course.Department == department && e.Course.Semester == semester {
			out = append(out, e)
		}
	}
	return out, nil
}

// sortedExams exam date, then start time.
func (s *fakeStore) sortedExams() []model.Exam {
	out := make([]model.Exam, 0, len(s.exams))
	for _, e := range s.exams {
		out = append(out, *s.hydrateExam(e))
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := time.Time(out[i].Date), time.Time(out[j].Date)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (s *fakeStore) hydrateExam(e *model.Exam) *model.Exam {
	cp := *e
	if c, ok := s.courses[cp.CourseID]; ok {
		cc := *c
		cp.Course = &cc
	}
	return &cp
}

// ── Recording EmailDispatcher ──

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingMailer) Submit(_ context.Context, msg mail.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
}

func (r *recordingMailer) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

// ── Recording TokenBlacklist ──

type recordingBlacklist struct {
	revoked map[string]bool
}

func (b *recordingBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	if b.revoked == nil {
		b.revoked = make(map[string]bool)
	}
	b.revoked[jti] = true
	return nil
}

// ── Fixtures ──

// testNow Tuesday 2026-03-10, 09:00 UTC.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// campusZone Asia/Kolkata without depending on the host tz database.
var campusZone = time.FixedZone("IST", 5*3600+30*60)

func fixedClock() time.Time { return testNow }

func testEventConfig() config.EventConfig {
	return config.EventConfig{
		RegistrationLeadDays:   2,
		CancelLeadDays:         2,
		NotificationFetchLimit: 20,
		PublicPageSize:         6,
		RenotifyOnRescan:       true,
	}
}

func newTestNotifier(s *fakeStore) NotificationService {
	return NewNotificationService(s.repository(), 20, nil, zap.NewNop())
}

// daysFromNow the calendar date n days after testNow.
func daysFromNow(n int) datatypes.Date {
	return model.DateOf(testNow.AddDate(0, 0, n))
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func seedStudent(s *fakeStore, name, regNo string) *model.Student {
	st := &model.Student{
		ID:             s.id(),
		Name:           name,
		RegisterNumber: regNo,
		Email:          regNo + "@uni.edu",
		Department:     "CSE",
		Semester:       5,
		PasswordHash:   hashPassword("student-pass"),
	}
	s.students[st.ID] = st
	return st
}

func seedFaculty(s *fakeStore, name, email string, admin bool) *model.Faculty {
	f := &model.Faculty{
		ID:           s.id(),
		Name:         name,
		Email:        email,
		Department:   "CSE",
		IsAdmin:      admin,
		PasswordHash: hashPassword("faculty-pass"),
	}
	s.faculty[f.ID] = f
	return f
}

func seedEvent(s *fakeStore, name string, date datatypes.Date, coordinator *model.Faculty) *model.Event {
	e := &model.Event{
		ID:          s.id(),
		Name:        name,
		Date:        date,
		Location:    "Main Auditorium",
		Description: name + " description",
		Status:      model.EventOpen,
	}
	if coordinator != nil {
		e.CoordinatorID = &coordinator.ID
	}
	s.events[e.ID] = e
	return e
}

func seedRegistration(s *fakeStore, st *model.Student, e *model.Event, token string) *model.Registration {
	r := &model.Registration{ID: s.id(), StudentID: st.ID, EventID: e.ID, QRToken: token}
	s.registrations[r.ID] = r
	return r
}

func markPresent(r *model.Registration, certificate string) {
	present := model.AttendancePresent
	r.Attendance = &present
	if certificate != "" {
		r.CertificateStatus = &certificate
	}
}

func studentPrincipal(st *model.Student) model.Principal {
	return model.PrincipalOf(st)
}

func facultyPrincipal(f *model.Faculty) model.Principal {
	return model.PrincipalOf(f)
}

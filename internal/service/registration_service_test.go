package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/pkg/queue"
)

// ── helpers ──

func setupRegistrationService(s *fakeStore) (RegistrationService, *recordingMailer) {
	mailer := &recordingMailer{}
	svc := NewRegistrationService(s.repository(), newTestNotifier(s), mailer, testEventConfig(), time.UTC, nil, zap.NewNop())
	svc.(*registrationService).now = fixedClock
	return svc, mailer
}

func completeForm(st *model.Student) *dto.RegisterEventRequest {
	return &dto.RegisterEventRequest{
		Name:           st.Name,
		RegisterNumber: st.RegisterNumber,
		Email:          st.Email,
		Semester:       "5",
	}
}

// ── Register ──

func TestRegister_Success(t *testing.T) {
	s := newFakeStore()
	coord := seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	admin := seedFaculty(s, "Admin", "admin@uni.edu", true)
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(2), coord)
	svc, mailer := setupRegistrationService(s)

	if err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	reg, err := s.repository().Registration.GetByStudentAndEvent(context.Background(), st.ID, ev.ID)
	if err != nil {
		t.Fatalf("registration not stored: %v", err)
	}
	if reg.QRToken == "" {
		t.Error("registration should carry a QR token")
	}
	if reg.Attendance != nil || reg.CertificateStatus != nil {
		t.Error("new registration must start absent with no certificate")
	}

	if got := s.notificationsFor(st.ID, model.RoleStudent); len(got) != 1 || got[0] != "Registered: Tech Fest." {
		t.Errorf("unexpected student notifications %v", got)
	}
	if got := s.notificationsFor(coord.ID, model.RoleFaculty); len(got) != 1 || got[0] != "Reg: Asha - Tech Fest." {
		t.Errorf("unexpected coordinator notifications %v", got)
	}
	if got := s.notificationsFor(admin.ID, model.RoleFaculty); len(got) != 1 {
		t.Errorf("admin should be notified once, got %v", got)
	}

	msgs := mailer.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 confirmation email, got %d", len(msgs))
	}
	if msgs[0].To[0] != st.Email || len(msgs[0].Inline) != 1 {
		t.Errorf("confirmation should go to %s with the QR inline, got %+v", st.Email, msgs[0])
	}
}

func TestRegister_DeadlineBoundary(t *testing.T) {
	cases := []struct {
		days int
		want error
	}{
		{3, nil},
		{2, nil},
		{1, ErrRegistrationDeadlinePassed},
		{0, ErrRegistrationDeadlinePassed},
		{-5, ErrRegistrationDeadlinePassed},
	}
	for _, tc := range cases {
		s := newFakeStore()
		st := seedStudent(s, "Asha", "21CS001")
		ev := seedEvent(s, "Tech Fest", daysFromNow(tc.days), nil)
		svc, _ := setupRegistrationService(s)

		err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
		if !errors.Is(err, tc.want) {
			t.Errorf("days=%d: expected %v, got %v", tc.days, tc.want, err)
		}
		if tc.want != nil && len(s.registrations) != 0 {
			t.Errorf("days=%d: rejected registration must not be stored", tc.days)
		}
	}
}

func TestRegister_ClosedEvent(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(10), nil)
	ev.Status = model.EventClosed
	svc, _ := setupRegistrationService(s)

	err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestRegister_ClosedCheckedBeforeDeadline(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(-1), nil)
	ev.Status = model.EventClosed
	svc, _ := setupRegistrationService(s)

	err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("closed status should win over the deadline, got %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	seedRegistration(s, st, ev, "tok-1")
	svc, mailer := setupRegistrationService(s)

	err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if len(s.registrations) != 1 {
		t.Errorf("duplicate must not add a row, have %d", len(s.registrations))
	}
	if len(mailer.messages()) != 0 {
		t.Error("no email for a rejected registration")
	}
}

func TestRegister_ConcurrentInsertIsDuplicate(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	seedFaculty(s, "Admin", "admin@uni.edu", true)
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	repo := s.repository()
	repo.Registration = racingRegistrationRepo{repo.Registration}
	mailer := &recordingMailer{}
	svc := NewRegistrationService(repo, newTestNotifier(s), mailer, testEventConfig(), time.UTC, nil, zap.NewNop())
	svc.(*registrationService).now = fixedClock

	err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if len(mailer.messages()) != 0 {
		t.Error("no email when the insert lost the race")
	}
	if len(s.notifications) != 0 {
		t.Errorf("no notifications when the insert lost the race, have %d", len(s.notifications))
	}
}

func TestRegister_FullEmailQueueDoesNotBlock(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	admin := seedFaculty(s, "Admin", "admin@uni.edu", true)
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)

	// nobody consumes, so the only slot stays taken
	jobs := queue.NewInMemory(1)
	if err := jobs.Publish(context.Background(), queue.Message{Type: EmailJobType}); err != nil {
		t.Fatalf("prefill queue: %v", err)
	}
	mailer := NewEmailDispatcher(jobs, nil, zap.NewNop())
	svc := NewRegistrationService(s.repository(), newTestNotifier(s), mailer, testEventConfig(), time.UTC, nil, zap.NewNop())
	svc.(*registrationService).now = fixedClock

	done := make(chan error, 1)
	go func() {
		done <- svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Register blocked on the email queue")
	}
	if len(s.registrations) != 1 {
		t.Error("registration should be stored")
	}
	if got := s.notificationsFor(st.ID, model.RoleStudent); len(got) != 1 {
		t.Errorf("student should still be notified, got %v", got)
	}
	if got := s.notificationsFor(admin.ID, model.RoleFaculty); len(got) != 1 {
		t.Errorf("admin should still be notified, got %v", got)
	}
	if jobs.Len() != 1 {
		t.Errorf("the confirmation should be dropped, queue holds %d", jobs.Len())
	}
}

func TestRegister_DeadlineUsesCampusDay(t *testing.T) {
	// 01:30 on 15 Oct in the campus zone, still 14 Oct in UTC
	now := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		loc  *time.Location
		want error
	}{
		{name: "campus zone", loc: campusZone, want: ErrRegistrationDeadlinePassed},
		{name: "utc", loc: time.UTC},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeStore()
			st := seedStudent(s, "Asha", "21CS001")
			ev := seedEvent(s, "Tech Fest", model.NewDate(2026, time.October, 16), nil)
			svc := NewRegistrationService(s.repository(), newTestNotifier(s), &recordingMailer{}, testEventConfig(), tc.loc, nil, zap.NewNop())
			svc.(*registrationService).now = func() time.Time { return now }

			err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st))
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegister_MissingField(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	svc, _ := setupRegistrationService(s)

	form := completeForm(st)
	form.Email = " "
	err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, form)

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "Email" || missing.Error() != "Email is required." {
		t.Errorf("unexpected field error %q", missing.Error())
	}
	if len(s.registrations) != 0 {
		t.Error("invalid form must not be stored")
	}
}

func TestRegister_UnknownEvent(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	svc, _ := setupRegistrationService(s)

	err := svc.Register(context.Background(), studentPrincipal(st), 999, completeForm(st))
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestRegister_FacultyForbidden(t *testing.T) {
	s := newFakeStore()
	f := seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	svc, _ := setupRegistrationService(s)

	err := svc.Register(context.Background(), facultyPrincipal(f), ev.ID, &dto.RegisterEventRequest{})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestRegister_NotificationFailureDoesNotUndo(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	s.failNotifications = true
	svc, _ := setupRegistrationService(s)

	if err := svc.Register(context.Background(), studentPrincipal(st), ev.ID, completeForm(st)); err != nil {
		t.Fatalf("side-effect failure must not fail the registration: %v", err)
	}
	if len(s.registrations) != 1 {
		t.Error("registration should be kept")
	}
}

// ── ListEvents ──

func TestListEvents_FlagsForStudent(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	soon := seedEvent(s, "Hackathon", daysFromNow(1), nil)
	later := seedEvent(s, "Tech Fest", daysFromNow(20), nil)
	seedRegistration(s, st, later, "tok-1")
	svc, _ := setupRegistrationService(s)

	p := studentPrincipal(st)
	page, err := svc.ListEvents(context.Background(), &p, 1)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Total != 2 || len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %+v", page)
	}

	byID := map[int64]dto.EventResponse{}
	for _, e := range page.Events {
		byID[e.ID] = e
	}
	if !byID[soon.ID].DeadlinePassed || byID[soon.ID].IsRegistered {
		t.Errorf("unexpected flags for near event %+v", byID[soon.ID])
	}
	if byID[later.ID].DeadlinePassed || !byID[later.ID].IsRegistered {
		t.Errorf("unexpected flags for later event %+v", byID[later.ID])
	}
}

func TestListEvents_AnonymousPaging(t *testing.T) {
	s := newFakeStore()
	for i := 0; i < 8; i++ {
		seedEvent(s, "Event", daysFromNow(10+i), nil)
	}
	svc, _ := setupRegistrationService(s)

	page, err := svc.ListEvents(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Page != 2 || page.PageSize != 6 || len(page.Events) != 2 || page.Total != 8 {
		t.Errorf("unexpected second page %+v", page)
	}
	for _, e := range page.Events {
		if e.IsRegistered {
			t.Error("anonymous caller cannot be registered")
		}
	}
}

// ── LookupRegistrations ──

func TestLookupRegistrations(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	seedRegistration(s, st, ev, "tok-1")
	svc, _ := setupRegistrationService(s)

	got, err := svc.LookupRegistrations(context.Background(), st.RegisterNumber, st.Email)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(got) != 1 || got[0].EventName != "Tech Fest" {
		t.Errorf("unexpected lookup result %+v", got)
	}

	got, err = svc.LookupRegistrations(context.Background(), st.RegisterNumber, "someone@else.edu")
	if err != nil || len(got) != 0 {
		t.Errorf("mismatched email should return nothing, got %+v, %v", got, err)
	}
}

// ── GetQRCode ──

func TestGetQRCode_OwnerOnly(t *testing.T) {
	s := newFakeStore()
	owner := seedStudent(s, "Asha", "21CS001")
	other := seedStudent(s, "Ravi", "21CS002")
	ev := seedEvent(s, "Tech Fest", daysFromNow(5), nil)
	reg := seedRegistration(s, owner, ev, "tok-1")
	svc, _ := setupRegistrationService(s)

	png, err := svc.GetQRCode(context.Background(), studentPrincipal(owner), reg.ID)
	if err != nil {
		t.Fatalf("GetQRCode failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QR code should be a PNG")
	}

	if _, err := svc.GetQRCode(context.Background(), studentPrincipal(other), reg.ID); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("foreign registration should look missing, got %v", err)
	}
}

// ── Cancel ──

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		present bool
		foreign bool
		want    error
	}{
		{name: "inside window", days: 3},
		{name: "boundary", days: 2},
		{name: "too late", days: 1, want: ErrCancelWindowClosed},
		{name: "attended", days: 10, present: true, want: ErrAlreadyAttended},
		{name: "foreign", days: 10, foreign: true, want: ErrRegistrationNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeStore()
			owner := seedStudent(s, "Asha", "21CS001")
			caller := owner
			if tc.foreign {
				caller = seedStudent(s, "Ravi", "21CS002")
			}
			ev := seedEvent(s, "Tech Fest", daysFromNow(tc.days), nil)
			reg := seedRegistration(s, owner, ev, "tok-1")
			if tc.present {
				markPresent(reg, model.CertificatePending)
			}
			svc, _ := setupRegistrationService(s)

			err := svc.Cancel(context.Background(), studentPrincipal(caller), reg.ID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			_, stillThere := s.registrations[reg.ID]
			if (tc.want == nil) == stillThere {
				t.Errorf("row kept=%v after cancel result %v", stillThere, err)
			}
		})
	}
}

func TestCancel_WindowUsesCampusDay(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	ev := seedEvent(s, "Tech Fest", model.NewDate(2026, time.October, 16), nil)
	reg := seedRegistration(s, st, ev, "tok-1")
	svc := NewRegistrationService(s.repository(), newTestNotifier(s), &recordingMailer{}, testEventConfig(), campusZone, nil, zap.NewNop())
	svc.(*registrationService).now = func() time.Time { return time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC) }

	if err := svc.Cancel(context.Background(), studentPrincipal(st), reg.ID); !errors.Is(err, ErrCancelWindowClosed) {
		t.Errorf("expected ErrCancelWindowClosed, got %v", err)
	}
	if _, ok := s.registrations[reg.ID]; !ok {
		t.Error("registration must be kept")
	}
}

func TestCancel_MissingLooksLikeForeign(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	svc, _ := setupRegistrationService(s)

	err := svc.Cancel(context.Background(), studentPrincipal(st), 4242)
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("expected ErrRegistrationNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("message should not reveal which case applied: %q", err.Error())
	}
}

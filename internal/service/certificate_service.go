package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/certificate"
)

// ── Certificate errors ──

var (
	ErrCertificateNotFound     = errors.New("registration not found")
	ErrCertificateNotPending   = errors.New("certificate is not pending approval")
	ErrCertificateNotAvailable = errors.New("certificate not available yet")
)

// CertificateService certificate approval and issuance.
type CertificateService interface {
	Approve(ctx context.Context, p model.Principal, registrationID int64) error
	ListPending(ctx context.Context) ([]dto.PendingCertificateResponse, error)
	// Download renders the approved certificate. Students may only download their own.
	Download(ctx context.Context, p model.Principal, registrationID int64) (*bytes.Buffer, string, error)
}

type certificateService struct {
	repo   *repository.Repository
	notify NotificationService
	logger *zap.Logger
}

// NewCertificateService creates a CertificateService.
func NewCertificateService(repo *repository.Repository, notify NotificationService, logger *zap.Logger) CertificateService {
	return &certificateService{repo: repo, notify: notify, logger: logger}
}

// ────────────────────── Approve ──────────────────────

func (s *certificateService) Approve(ctx context.Context, p model.Principal, registrationID int64) error {
	if !p.IsAdmin {
		return ErrForbidden
	}
	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCertificateNotFound
		}
		s.logger.Error("get registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return err
	}
	if reg.Certificate() != model.CertificatePending {
		return ErrCertificateNotPending
	}

	if err := s.repo.Registration.SetCertificateStatus(ctx, registrationID, model.CertificateApproved); err != nil {
		s.logger.Error("approve certificate failed", zap.Int64("id", registrationID), zap.Error(err))
		return err
	}

	s.notify.NotifyUser(ctx, reg.StudentID, model.RoleStudent, "Your certificate has been approved! Download it now.")
	return nil
}

// ────────────────────── ListPending ──────────────────────

func (s *certificateService) ListPending(ctx context.Context) ([]dto.PendingCertificateResponse, error) {
	regs, err := s.repo.Registration.ListByCertificateStatus(ctx, model.CertificatePending)
	if err != nil {
		s.logger.Error("list pending certificates failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.PendingCertificateResponse, 0, len(regs))
	for _, r := range regs {
		item := dto.PendingCertificateResponse{RegistrationID: r.ID}
		if r.Student != nil {
			item.StudentName = r.Student.Name
			item.RegisterNumber = r.Student.RegisterNumber
		}
		if r.Event != nil {
			item.EventName = r.Event.Name
			item.EventDate = model.FormatDate(r.Event.Date)
		}
		out = append(out, item)
	}
	return out, nil
}

// ────────────────────── Download ──────────────────────

func (s *certificateService) Download(ctx context.Context, p model.Principal, registrationID int64) (*bytes.Buffer, string, error) {
	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCertificateNotFound
		}
		s.logger.Error("get registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return nil, "", err
	}
	if p.IsStudent() && reg.StudentID != p.UserID {
		return nil, "", ErrForbidden
	}
	if reg.Certificate() != model.CertificateApproved {
		return nil, "", ErrCertificateNotAvailable
	}
	if reg.Student == nil || reg.Event == nil {
		return nil, "", ErrCertificateNotFound
	}

	buf := new(bytes.Buffer)
	err = certificate.Render(buf, certificate.Data{
		RegistrationID: reg.ID,
		StudentName:    reg.Student.Name,
		EventName:      reg.Event.Name,
		EventDate:      time.Time(reg.Event.Date),
	})
	if err != nil {
		s.logger.Error("render certificate failed", zap.Int64("id", registrationID), zap.Error(err))
		return nil, "", err
	}
	return buf, certificate.Filename(reg.Event.Name), nil
}

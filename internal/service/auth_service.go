package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-events/backend/config"
	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
	"campus-events/backend/pkg/jwt"
)

// ── Auth errors ──

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRole         = errors.New("unknown account role")
	ErrAccountNotFound     = errors.New("account not found")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrRegisterNumberTaken = errors.New("register number already registered")
	ErrEmailNotFound       = errors.New("email not found")
	ErrResetTokenInvalid   = errors.New("password reset link is invalid or has expired")
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid or has expired")
)

// TokenBlacklist revokes tokens by jti until they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService sign-in, self-registration and password management.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, p model.Principal) (*dto.AccountResponse, error)
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.AccountResponse, error)
	ChangePassword(ctx context.Context, p model.Principal, req *dto.ChangePasswordRequest) error
	// ForgotPassword mails a reset link. Faculty accounts are matched before students.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	mailer    EmailDispatcher
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil when Redis is not configured.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	mailer EmailDispatcher,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		mailer:    mailer,
		logger:    logger,
	}
}

// ────────────────────── credential stores ──────────────────────

// credentialStore reads and writes the credential record of one account variant.
type credentialStore interface {
	getCredentialRecord(ctx context.Context, id int64) (model.Account, error)
	findByLogin(ctx context.Context, identifier string) (model.Account, error)
	updateCredentialRecord(ctx context.Context, id int64, hash string) error
}

type studentCredentials struct {
	repo repository.StudentRepository
}

func (c studentCredentials) getCredentialRecord(ctx context.Context, id int64) (model.Account, error) {
	return c.repo.GetByID(ctx, id)
}

// findByLogin students sign in with their register number.
func (c studentCredentials) findByLogin(ctx context.Context, identifier string) (model.Account, error) {
	return c.repo.GetByRegisterNumber(ctx, identifier)
}

func (c studentCredentials) updateCredentialRecord(ctx context.Context, id int64, hash string) error {
	return c.repo.UpdatePassword(ctx, id, hash)
}

type facultyCredentials struct {
	repo repository.FacultyRepository
}

func (c facultyCredentials) getCredentialRecord(ctx context.Context, id int64) (model.Account, error) {
	return c.repo.GetByID(ctx, id)
}

// findByLogin faculty sign in with their email.
func (c facultyCredentials) findByLogin(ctx context.Context, identifier string) (model.Account, error) {
	return c.repo.GetByEmail(ctx, identifier)
}

func (c facultyCredentials) updateCredentialRecord(ctx context.Context, id int64, hash string) error {
	return c.repo.UpdatePassword(ctx, id, hash)
}

func (s *authService) store(role model.Role) (credentialStore, error) {
	switch role {
	case model.RoleStudent:
		return studentCredentials{repo: s.repo.Student}, nil
	case model.RoleFaculty:
		return facultyCredentials{repo: s.repo.Faculty}, nil
	default:
		return nil, ErrInvalidRole
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. resolve the account variant
	store, err := s.store(model.Role(req.Role))
	if err != nil {
		return nil, err
	}

	// 2. look up the account
	account, err := store.findByLogin(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup account failed", zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}

	// 3. verify password (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash()), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 4. issue the token pair
	return s.issueTokens(account)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseTyped(refreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	store, err := s.store(model.Role(claims.Role))
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	account, err := store.getCredentialRecord(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		s.logger.Error("reload account failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}
	return s.issueTokens(account)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, p model.Principal) (*dto.AccountResponse, error) {
	store, err := s.store(p.Role)
	if err != nil {
		return nil, err
	}
	account, err := store.getCredentialRecord(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("get account failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return nil, err
	}
	resp := toAccountResponse(account)
	return &resp, nil
}

// ────────────────────── RegisterStudent ──────────────────────

func (s *authService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.AccountResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	regNo := strings.TrimSpace(req.RegisterNumber)

	if _, err := s.repo.Student.GetByRegisterNumber(ctx, regNo); err == nil {
		return nil, ErrRegisterNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check register number failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		Name:           strings.TrimSpace(req.Name),
		RegisterNumber: regNo,
		Email:          strings.TrimSpace(req.Email),
		Department:     strings.TrimSpace(req.Department),
		Semester:       req.Semester,
		PasswordHash:   string(hash),
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrRegisterNumberTaken
		}
		s.logger.Error("create student failed", zap.String("register_number", regNo), zap.Error(err))
		return nil, err
	}

	resp := toAccountResponse(student)
	return &resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, p model.Principal, req *dto.ChangePasswordRequest) error {
	store, err := s.store(p.Role)
	if err != nil {
		return err
	}
	account, err := store.getCredentialRecord(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		s.logger.Error("get account failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash()), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	return s.setPassword(ctx, store, p.UserID, req.NewPassword)
}

// ────────────────────── ForgotPassword ──────────────────────

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	var account model.Account
	var shownID string
	if f, err := s.repo.Faculty.GetByEmail(ctx, email); err == nil {
		account, shownID = f, f.Email
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup faculty by email failed", zap.Error(err))
		return err
	} else if st, err := s.repo.Student.GetByEmail(ctx, email); err == nil {
		account, shownID = st, st.RegisterNumber
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEmailNotFound
	} else {
		s.logger.Error("lookup student by email failed", zap.Error(err))
		return err
	}

	token, err := s.jwtMgr.GeneratePasswordResetToken(account.AccountID(), string(account.AccountRole()))
	if err != nil {
		s.logger.Error("sign reset token failed", zap.Error(err))
		return err
	}
	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), token)

	msg, err := passwordResetEmail(account.ContactEmail(), account.DisplayName(), shownID, link)
	if err != nil {
		s.logger.Error("build reset email failed", zap.Error(err))
		return err
	}
	s.mailer.Submit(ctx, msg)
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *authService) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) error {
	claims, err := s.jwtMgr.ParseTyped(token, jwt.TypePasswordReset)
	if err != nil {
		return ErrResetTokenInvalid
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	store, err := s.store(model.Role(claims.Role))
	if err != nil {
		return ErrResetTokenInvalid
	}
	if err := s.setPassword(ctx, store, claims.UserID, req.Password); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

// ── internal helpers ──

func (s *authService) setPassword(ctx context.Context, store credentialStore, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	if err := store.updateCredentialRecord(ctx, id, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		s.logger.Error("update password failed", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issueTokens(account model.Account) (*dto.TokenResponse, error) {
	p := model.PrincipalOf(account)
	sub := jwt.Subject{UserID: p.UserID, Role: string(p.Role), IsAdmin: p.IsAdmin, Name: p.DisplayName}

	accessToken, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(sub)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toAccountResponse(account),
	}, nil
}

func toAccountResponse(a model.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		ID:      a.AccountID(),
		Role:    string(a.AccountRole()),
		Name:    a.DisplayName(),
		Email:   a.ContactEmail(),
		IsAdmin: a.Admin(),
	}
	switch v := a.(type) {
	case *model.Student:
		resp.RegisterNumber = v.RegisterNumber
		resp.Department = v.Department
		resp.Semester = v.Semester
	case *model.Faculty:
		resp.Department = v.Department
	}
	return resp
}

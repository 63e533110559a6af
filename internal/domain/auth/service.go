package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
	maxLocationLength = 100
)

// Service manages farmer accounts and their tokens.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Profile, error)
	Login(ctx context.Context, creds Credentials) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	ValidateToken(ctx context.Context, accessToken string) (Claims, error)
	Profile(ctx context.Context, userID int64) (Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (Profile, error)
	ChangePassword(ctx context.Context, userID int64, change PasswordChange) error
}

type service struct {
	cfg    Config
	repo   Repository
	tokens tokenIssuer
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		tokens: tokenIssuer{secret: []byte(cfg.Secret), now: time.Now},
		now:    time.Now,
		logger: logger.With("component", "auth.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (Profile, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	location, err := normalizeLocation(req.Location)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := checkNewPassword(req.Password, req.PasswordConfirm); err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return Profile{}, err
	}
	now := s.now().UTC()
	user, err := s.repo.Create(ctx, User{
		Email:        email,
		Name:         name,
		Location:     location,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, ErrEmailExists) {
		return Profile{}, apperrors.Wrap(apperrors.CodeEmailExists, "email already registered", err)
	}
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeAuth, "failed to create user", err)
	}
	s.logger.Info("farmer registered", "user_id", user.ID)
	return user.profile(), nil
}

func (s *service) Login(ctx context.Context, creds Credentials) (Session, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil || creds.Password == "" {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidInput, "email and password are required", err)
	}
	user, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeAuth, "failed to fetch user", err)
	}
	if !found || !passwordMatches(user.PasswordHash, creds.Password) {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidCreds, "invalid email or password", nil)
	}
	return s.session(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.verify(refreshToken, RefreshToken)
	if err != nil {
		return Session{}, err
	}
	user, err := s.load(ctx, claims.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

func (s *service) ValidateToken(_ context.Context, accessToken string) (Claims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	return s.tokens.verify(accessToken, AccessToken)
}

func (s *service) Profile(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return user.profile(), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (Profile, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if update.Name != nil {
		if user.Name, err = normalizeName(*update.Name); err != nil {
			return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
	}
	if update.Location != nil {
		if user.Location, err = normalizeLocation(*update.Location); err != nil {
			return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
	}
	user.UpdatedAt = s.now().UTC()
	saved, err := s.repo.Update(ctx, user)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.CodeAuth, "failed to update profile", err)
	}
	return saved.profile(), nil
}

func (s *service) ChangePassword(ctx context.Context, userID int64, change PasswordChange) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !passwordMatches(user.PasswordHash, change.OldPassword) {
		return apperrors.Wrap(apperrors.CodeInvalidCreds, "old password is incorrect", nil)
	}
	if err := checkNewPassword(change.NewPassword, change.NewPasswordConfirm); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if user.PasswordHash, err = hashPassword(change.NewPassword); err != nil {
		return err
	}
	user.UpdatedAt = s.now().UTC()
	if _, err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.CodeAuth, "failed to update password", err)
	}
	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *service) load(ctx context.Context, userID int64) (User, error) {
	user, found, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeAuth, "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}
	return user, nil
}

func (s *service) session(user User) (Session, error) {
	access, err := s.tokens.sign(user, AccessToken, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.sign(user, RefreshToken, s.cfg.RefreshTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Access: access, Refresh: refresh, User: user.profile()}, nil
}

func (u User) profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeAuth, "failed to hash password", err)
	}
	return string(hashed), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return "", errors.New("name is too long")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !strings.ContainsRune(" -'.", r) {
			return "", errors.New("name must contain only letters, spaces, hyphens, dots or apostrophes")
		}
	}
	return name, nil
}

func normalizeLocation(raw string) (string, error) {
	location := strings.Join(strings.Fields(raw), " ")
	if len([]rune(location)) > maxLocationLength {
		return "", errors.New("location is too long")
	}
	return location, nil
}

// checkNewPassword requires a confirmed password mixing letters and digits.
func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	var letter, digit bool
	for _, r := range password {
		letter = letter || unicode.IsLetter(r)
		digit = digit || unicode.IsDigit(r)
	}
	if !letter || !digit {
		return errors.New("password must contain letters and digits")
	}
	return nil
}

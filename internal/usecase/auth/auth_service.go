package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/domain/repositories"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/external/oauth"
	usecaseErrors "github.com/voiceattendance/voice-attendance/internal/usecase/errors"
	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
)

// AdminLoginInput carries admin credentials
type AdminLoginInput struct {
	Username string
	Password string
	Device   DeviceInfo
}

// StudentLoginInput carries the kiosk login form
type StudentLoginInput struct {
	StudentID string
	Device    DeviceInfo
}

// DeviceInfo records where a session was opened from
type DeviceInfo struct {
	IP        string
	UserAgent string
}

// Identity describes an authenticated account
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	StudentID string    `json:"student_id,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// TokenPair is an issued access and refresh token set
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	Identity     *Identity `json:"identity"`
}

// GoogleAuthURL is a generated consent URL with its CSRF state
type GoogleAuthURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AuthService implements Service backed by the admin and student tables
type AuthService struct {
	adminRepo   repositories.AdminRepository
	studentRepo repositories.StudentRepository
	sessionRepo repositories.AuthSessionRepository
	tokens      *appjwt.Manager
	google      *oauth.GoogleProvider // nil when Google sign-in is not configured
	states      *oauth.StateManager
	logger      *zap.Logger
}

// NewAuthService creates a new auth service. The Google provider and state
// manager may be nil, which disables Google sign-in.
func NewAuthService(
	adminRepo repositories.AdminRepository,
	studentRepo repositories.StudentRepository,
	sessionRepo repositories.AuthSessionRepository,
	tokens *appjwt.Manager,
	google *oauth.GoogleProvider,
	states *oauth.StateManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		studentRepo: studentRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		google:      google,
		states:      states,
		logger:      logger,
	}
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// LoginAdmin authenticates an admin by username and password
func (s *AuthService) LoginAdmin(ctx context.Context, input AdminLoginInput) (*TokenPair, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, entities.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials("Invalid admin credentials")
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	// Accounts provisioned through Google sign-in carry no password.
	if admin.PasswordHash == "" {
		return nil, apperrors.ErrInvalidCredentials("Invalid admin credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials("Invalid admin credentials")
	}

	pair, err := s.issueTokens(ctx, adminIdentity(admin), input.Device)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔐 Admin logged in",
			zap.String("username", admin.Username))
	}

	return pair, nil
}

// LoginStudent authenticates a student by student id
func (s *AuthService) LoginStudent(ctx context.Context, input StudentLoginInput) (*TokenPair, error) {
	student, err := s.studentRepo.FindByStudentID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials("Invalid student ID or student not found")
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	pair, err := s.issueTokens(ctx, studentIdentity(student), input.Device)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🎓 Student logged in",
			zap.String("student_id", student.StudentID))
	}

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subjectID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken()
	}

	hashed, err := s.tokens.HashToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByToken(ctx, hashed)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidToken) {
			return nil, apperrors.ErrInvalidRefreshToken()
		}
		return nil, fmt.Errorf("failed to find auth session: %w", err)
	}
	if err := usableSession(session); err != nil {
		if errors.Is(err, usecaseErrors.ErrSessionExpired) {
			return nil, apperrors.ErrTokenExpired()
		}
		return nil, apperrors.ErrInvalidRefreshToken()
	}
	if session.SubjectID != subjectID {
		return nil, apperrors.ErrInvalidRefreshToken()
	}

	identity, err := s.identityFor(ctx, session.SubjectID, session.Role)
	if err != nil {
		return nil, err
	}

	// Rotation: the old session dies with the exchange.
	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke auth session: %w", err)
	}

	device := DeviceInfo{}
	if session.IPAddress != nil {
		device.IP = *session.IPAddress
	}
	if session.UserAgent != nil {
		device.UserAgent = *session.UserAgent
	}
	pair, err := s.issueTokens(ctx, identity, device)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔄 Refresh token rotated",
			zap.String("role", identity.Role))
	}

	return pair, nil
}

// Logout revokes the session behind a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	hashed, err := s.tokens.HashToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByToken(ctx, hashed)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidToken) {
			return apperrors.ErrInvalidRefreshToken()
		}
		return fmt.Errorf("failed to find auth session: %w", err)
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to revoke auth session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("👋 Session revoked",
			zap.String("session_id", session.ID.String()))
	}

	return nil
}

// LogoutAll revokes every session of an admin or student
func (s *AuthService) LogoutAll(ctx context.Context, subjectID uuid.UUID) error {
	if err := s.sessionRepo.RevokeAllBySubject(ctx, subjectID); err != nil {
		return fmt.Errorf("failed to revoke auth sessions: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("👋 All sessions revoked",
			zap.String("subject_id", subjectID.String()))
	}

	return nil
}

// Me returns the current identity behind validated claims
func (s *AuthService) Me(ctx context.Context, claims *appjwt.Claims) (*Identity, error) {
	if claims == nil {
		return nil, apperrors.ErrUnauthenticated()
	}
	return s.identityFor(ctx, claims.SubjectID, claims.Role)
}

// GoogleEnabled reports whether Google sign-in is configured
func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil && s.states != nil
}

// GoogleAuthURL generates the Google consent URL with a one-time state
func (s *AuthService) GoogleAuthURL(ctx context.Context) (*GoogleAuthURL, error) {
	if !s.GoogleEnabled() {
		return nil, apperrors.ErrOAuthFailed("google", errors.New("provider not configured"))
	}

	state, err := s.states.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OAuth state: %w", err)
	}

	return &GoogleAuthURL{
		URL:   s.google.GetAuthURL(state),
		State: state,
	}, nil
}

// GoogleCallback exchanges the OAuth callback for a token pair
func (s *AuthService) GoogleCallback(ctx context.Context, code, state string) (*TokenPair, error) {
	if !s.GoogleEnabled() {
		return nil, apperrors.ErrOAuthFailed("google", errors.New("provider not configured"))
	}

	if !s.states.ValidateState(state) {
		return nil, apperrors.ErrOAuthFailed("google", entities.ErrOAuthStateMismatch)
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperrors.ErrOAuthFailed("google", err)
	}
	info, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, apperrors.ErrOAuthFailed("google", err)
	}
	if !info.VerifiedEmail {
		return nil, apperrors.ErrOAuthFailed("google", errors.New("email not verified"))
	}

	admin, err := s.findOrProvisionAdmin(ctx, info)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, adminIdentity(admin), DeviceInfo{})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔐 Admin logged in via Google",
			zap.String("username", admin.Username))
	}

	return pair, nil
}

// PruneSessions deletes refresh sessions that are past expiry
func (s *AuthService) PruneSessions(ctx context.Context) error {
	if err := s.sessionRepo.DeleteExpired(ctx, time.Now()); err != nil {
		return fmt.Errorf("failed to prune auth sessions: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🧹 Expired auth sessions pruned")
	}

	return nil
}

// findOrProvisionAdmin resolves the Google account to an admin row, linking
// by email or provisioning a new account when needed
func (s *AuthService) findOrProvisionAdmin(ctx context.Context, info *oauth.GoogleUserInfo) (*entities.Admin, error) {
	admin, err := s.adminRepo.FindByGoogleID(ctx, info.ID)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, entities.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to find admin by google id: %w", err)
	}

	admin, err = s.adminRepo.FindByEmail(ctx, info.Email)
	if err == nil {
		// First Google sign-in on a password account links the two.
		admin.GoogleID = &info.ID
		if err := s.adminRepo.Update(ctx, admin); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("🔗 Google account linked",
				zap.String("username", admin.Username))
		}
		return admin, nil
	}
	if !errors.Is(err, entities.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	admin = entities.NewAdmin(usernameFromEmail(info.Email), info.Email, "")
	admin.GoogleID = &info.ID
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to provision admin: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Admin provisioned from Google",
			zap.String("email", admin.Email))
	}

	return admin, nil
}

// issueTokens generates a token pair and opens the refresh session behind it
func (s *AuthService) issueTokens(ctx context.Context, identity *Identity, device DeviceInfo) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(identity.ID, identity.Role, identity.Username, identity.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Only the digest is stored; a leaked sessions table cannot replay tokens.
	hashed, err := s.tokens.HashToken(refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	session := entities.NewAuthSession(identity.ID, identity.Role, hashed, time.Now().Add(s.tokens.GetRefreshExpiry()))
	if device.IP != "" || device.UserAgent != "" {
		session.WithDeviceInfo(device.IP, device.UserAgent)
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create auth session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.GetAccessExpiry().Seconds()),
		Identity:     identity,
	}, nil
}

// identityFor loads the current identity for a subject id and role
func (s *AuthService) identityFor(ctx context.Context, subjectID uuid.UUID, role string) (*Identity, error) {
	switch role {
	case appjwt.RoleAdmin:
		admin, err := s.adminRepo.FindByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, entities.ErrAdminNotFound) {
				return nil, apperrors.ErrInvalidToken()
			}
			return nil, fmt.Errorf("failed to find admin: %w", err)
		}
		return adminIdentity(admin), nil
	case appjwt.RoleStudent:
		student, err := s.studentRepo.FindByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, entities.ErrStudentNotFound) {
				return nil, apperrors.ErrInvalidToken()
			}
			return nil, fmt.Errorf("failed to find student: %w", err)
		}
		return studentIdentity(student), nil
	default:
		return nil, apperrors.ErrInvalidToken()
	}
}

// usableSession classifies why a stored session cannot be used again
func usableSession(session *entities.AuthSession) error {
	if session.RevokedAt != nil {
		return usecaseErrors.ErrSessionRevoked
	}
	if session.IsExpired() {
		return usecaseErrors.ErrSessionExpired
	}
	return nil
}

func adminIdentity(admin *entities.Admin) *Identity {
	return &Identity{
		ID:       admin.ID,
		Role:     appjwt.RoleAdmin,
		Username: admin.Username,
		Email:    admin.Email,
	}
}

func studentIdentity(student *entities.Student) *Identity {
	return &Identity{
		ID:        student.ID,
		Role:      appjwt.RoleStudent,
		StudentID: student.StudentID,
		Name:      student.Name,
	}
}

// usernameFromEmail derives a username for provisioned accounts
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

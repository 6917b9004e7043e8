package service

import (
	"context"
	"errors"
	"time"

	"github.com/changcookbook/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvitationExists   = errors.New("an active invitation already exists for this email")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationUsed     = errors.New("invitation has already been used")
	ErrInvitationRevoked  = errors.New("invitation has been revoked")
)

const invitationLifetime = 7 * 24 * time.Hour

// InvitationService issues and redeems registration invitations. Tokens are
// signed JWTs scoped to the invited email so a leaked link cannot be used to
// register a different address.
type InvitationService struct {
	db        *gorm.DB
	auth      *AuthService
	jwtSecret string
}

func NewInvitationService(db *gorm.DB, auth *AuthService, jwtSecret string) *InvitationService {
	return &InvitationService{
		db:        db,
		auth:      auth,
		jwtSecret: jwtSecret,
	}
}

// Create issues an invitation for the given email. A previous expired or
// revoked invitation for the same email is replaced.
func (s *InvitationService) Create(ctx context.Context, email string, invitedBy uuid.UUID) (*models.Invitation, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err == nil {
		return nil, ErrUserExists
	}

	expiresAt := time.Now().Add(invitationLifetime)
	token, err := s.generateToken(email, expiresAt)
	if err != nil {
		return nil, err
	}

	var existing models.Invitation
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Status == models.InvitationPending && existing.ExpiresAt.After(time.Now()) {
			return nil, ErrInvitationExists
		}
		existing.Token = token
		existing.Status = models.InvitationPending
		existing.ExpiresAt = expiresAt
		existing.InvitedByID = invitedBy
		existing.InvitedUserID = nil
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invitation := models.Invitation{
		Email:       email,
		Token:       token,
		Status:      models.InvitationPending,
		ExpiresAt:   expiresAt,
		InvitedByID: invitedBy,
	}
	if err := s.db.WithContext(ctx).Create(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// List returns all invitations, newest first.
func (s *InvitationService) List(ctx context.Context) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// GetByToken validates a raw invitation token and returns the matching
// pending invitation.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	email, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvitationNotFound
	}

	var invitation models.Invitation
	if err := s.db.WithContext(ctx).Where("email = ? AND token = ?", email, token).First(&invitation).Error; err != nil {
		return nil, ErrInvitationNotFound
	}

	switch invitation.Status {
	case models.InvitationAccepted:
		return nil, ErrInvitationUsed
	case models.InvitationRevoked:
		return nil, ErrInvitationRevoked
	}
	if invitation.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvitationExpired
	}
	return &invitation, nil
}

// Accept redeems an invitation: registers the account for the invited email
// and marks the invitation accepted.
func (s *InvitationService) Accept(ctx context.Context, token, name, password string) (*models.User, string, error) {
	invitation, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}

	user, authToken, err := s.auth.Register(ctx, name, invitation.Email, password)
	if err != nil {
		return nil, "", err
	}

	invitation.Status = models.InvitationAccepted
	invitation.InvitedUserID = &user.ID
	if err := s.db.WithContext(ctx).Save(invitation).Error; err != nil {
		return nil, "", err
	}
	return user, authToken, nil
}

// Revoke marks a pending invitation revoked.
func (s *InvitationService) Revoke(ctx context.Context, id uuid.UUID) error {
	var invitation models.Invitation
	if err := s.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	if invitation.Status == models.InvitationAccepted {
		return ErrInvitationUsed
	}
	invitation.Status = models.InvitationRevoked
	return s.db.WithContext(ctx).Save(&invitation).Error
}

func (s *InvitationService) generateToken(email string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"email":   email,
		"purpose": "invitation",
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *InvitationService) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "invitation" {
		return "", errors.New("not an invitation token")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid token claims")
	}
	return email, nil
}

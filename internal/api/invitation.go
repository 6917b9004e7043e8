package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/changcookbook/backend/internal/service"
	"github.com/changcookbook/backend/internal/types"
)

type InvitationHandler struct {
	invitations *service.InvitationService
}

func NewInvitationHandler(invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// Create issues a new invitation. Admin only.
func (h *InvitationHandler) Create(c *gin.Context) {
	var req types.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invitedBy, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	invitation, err := h.invitations.Create(c.Request.Context(), req.Email, invitedBy.(uuid.UUID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
		case errors.Is(err, service.ErrInvitationExists):
			c.JSON(http.StatusConflict, gin.H{"error": "an active invitation already exists for this email"})
		default:
			log.Printf("create invitation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invitation"})
		}
		return
	}

	// The raw token is returned once so the admin can share the signup
	// link. It is never listed again.
	c.JSON(http.StatusCreated, gin.H{"invitation": invitation, "token": invitation.Token})
}

// List returns all invitations. Admin only.
func (h *InvitationHandler) List(c *gin.Context) {
	invitations, err := h.invitations.List(c.Request.Context())
	if err != nil {
		log.Printf("list invitations failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invitations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// Revoke cancels a pending invitation. Admin only.
func (h *InvitationHandler) Revoke(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invitation id"})
		return
	}

	if err := h.invitations.Revoke(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
		case errors.Is(err, service.ErrInvitationUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "invitation has already been accepted"})
		default:
			log.Printf("revoke invitation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke invitation"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "invitation revoked"})
}

// Verify checks a raw invitation token and returns the invited email so the
// signup form can prefill it.
func (h *InvitationHandler) Verify(c *gin.Context) {
	invitation, err := h.invitations.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.writeTokenError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": invitation.Email, "expires_at": invitation.ExpiresAt})
}

// Accept redeems an invitation and creates the account.
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req types.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.invitations.Accept(c.Request.Context(), c.Param("token"), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}
		h.writeTokenError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *InvitationHandler) writeTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvitationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
	case errors.Is(err, service.ErrInvitationExpired):
		c.JSON(http.StatusGone, gin.H{"error": "invitation has expired"})
	case errors.Is(err, service.ErrInvitationUsed):
		c.JSON(http.StatusConflict, gin.H{"error": "invitation has already been used"})
	case errors.Is(err, service.ErrInvitationRevoked):
		c.JSON(http.StatusGone, gin.H{"error": "invitation has been revoked"})
	default:
		log.Printf("invitation lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify invitation"})
	}
}

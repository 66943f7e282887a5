package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// MembershipHandler handles sharing a pet with other users.
type MembershipHandler struct {
	service ports.MembershipService
}

func NewMembershipHandler(service ports.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

type shareRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role"    validate:"required,oneof=owner guardian viewer"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner guardian viewer"`
}

type memberResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listMembersResponse struct {
	Data []memberResponse `json:"data"`
}

func toMemberResponse(m *domain.Membership) memberResponse {
	return memberResponse{
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Share handles POST /v1/pets/:id/members.
//
// @Summary      Share a pet with a user
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Pet ID"
// @Param        body  body      shareRequest  true  "Target user and role"
// @Success      201   {object}  memberResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/pets/{id}/members [post]
func (h *MembershipHandler) Share(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	m, err := h.service.Share(c.Request().Context(), ports.ShareInput{
		PetID:        c.Param("id"),
		ActorUserID:  userID,
		TargetUserID: req.UserID,
		Role:         req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toMemberResponse(m))
}

// List handles GET /v1/pets/:id/members.
//
// @Summary      List a pet's members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  listMembersResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/members [get]
func (h *MembershipHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	members, err := h.service.ListMembers(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	return c.JSON(http.StatusOK, listMembersResponse{Data: out})
}

// UpdateRole handles PATCH /v1/pets/:id/members/:userID.
//
// @Summary      Change a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string             true  "Pet ID"
// @Param        userID  path      string             true  "Target user ID"
// @Param        body    body      updateRoleRequest  true  "New role"
// @Success      200     {object}  memberResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/pets/{id}/members/{userID} [patch]
func (h *MembershipHandler) UpdateRole(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	m, err := h.service.UpdateRole(c.Request().Context(), ports.ShareInput{
		PetID:        c.Param("id"),
		ActorUserID:  userID,
		TargetUserID: c.Param("userID"),
		Role:         req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toMemberResponse(m))
}

// Revoke handles DELETE /v1/pets/:id/members/:userID. A member may remove
// their own row (leave) without sharing authority.
//
// @Summary      Revoke a member
// @Tags         members
// @Security     BearerAuth
// @Param        id      path  string  true  "Pet ID"
// @Param        userID  path  string  true  "Target user ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/members/{userID} [delete]
func (h *MembershipHandler) Revoke(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	err = h.service.Revoke(c.Request().Context(), ports.RevokeInput{
		PetID:        c.Param("id"),
		ActorUserID:  userID,
		TargetUserID: c.Param("userID"),
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/core/ports"
)

// AdminHandler covers the platform-owner surface. Routes using it must be
// mounted behind the PlatformOwner middleware.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type grantOwnerRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type platformOwnerResponse struct {
	UserID    string    `json:"user_id"`
	GrantedBy string    `json:"granted_by,omitempty"`
	GrantedAt time.Time `json:"granted_at"`
}

type listOwnersResponse struct {
	Data []platformOwnerResponse `json:"data"`
}

type listAllPetsResponse struct {
	Data       []petResponse      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// ListPets handles GET /v1/admin/pets — cross-pet listing.
//
// @Summary      List all pets (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Filter by status"
// @Param        species  query     string  false  "Filter by species"
// @Param        search   query     string  false  "Partial match on name or slug"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Rows per page (max 100)"
// @Success      200      {object}  listAllPetsResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/admin/pets [get]
func (h *AdminHandler) ListPets(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListAllPets(c.Request().Context(), ports.ListPetsFilter{
		Status:  c.QueryParam("status"),
		Species: c.QueryParam("species"),
		Search:  c.QueryParam("search"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listAllPetsResponse{
		Data: toPetResponses(result.Items),
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// GrantOwner handles POST /v1/admin/platform-owners.
//
// @Summary      Grant platform-owner privilege
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  grantOwnerRequest  true  "Target user"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/admin/platform-owners [post]
func (h *AdminHandler) GrantOwner(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req grantOwnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.GrantPlatformOwner(c.Request().Context(), userID, req.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RevokeOwner handles DELETE /v1/admin/platform-owners/:userID.
//
// @Summary      Revoke platform-owner privilege
// @Tags         admin
// @Security     BearerAuth
// @Param        userID  path  string  true  "Target user ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/admin/platform-owners/{userID} [delete]
func (h *AdminHandler) RevokeOwner(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.RevokePlatformOwner(c.Request().Context(), userID, c.Param("userID")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListOwners handles GET /v1/admin/platform-owners.
//
// @Summary      List platform owners
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOwnersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/platform-owners [get]
func (h *AdminHandler) ListOwners(c echo.Context) error {
	owners, err := h.service.ListPlatformOwners(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]platformOwnerResponse, len(owners))
	for i, o := range owners {
		out[i] = platformOwnerResponse{
			UserID:    o.UserID,
			GrantedBy: o.GrantedBy,
			GrantedAt: o.GrantedAt.UTC(),
		}
	}
	return c.JSON(http.StatusOK, listOwnersResponse{Data: out})
}

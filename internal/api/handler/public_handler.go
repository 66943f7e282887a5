package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/core/ports"
)

// PublicHandler serves the anonymous slug path. It sits outside the auth
// middleware; nothing here may assume an identity in context.
type PublicHandler struct {
	service ports.PetService
}

func NewPublicHandler(service ports.PetService) *PublicHandler {
	return &PublicHandler{service: service}
}

// Profile handles GET /v1/p/:slug.
//
// @Summary      Get a public pet profile by slug
// @Tags         public
// @Produce      json
// @Param        slug  path      string  true  "Pet slug (e.g. bella-x7k2)"
// @Success      200   {object}  ports.PublicPetProfile
// @Failure      404   {object}  errorResponse
// @Router       /v1/p/{slug} [get]
func (h *PublicHandler) Profile(c echo.Context) error {
	profile, err := h.service.GetPublicProfile(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

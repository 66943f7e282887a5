package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/api/metrics"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// PetHandler handles HTTP requests for pet profile operations.
type PetHandler struct {
	service ports.PetService
}

func NewPetHandler(service ports.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// Create handles POST /v1/pets.
//
// @Summary      Register a new pet profile
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPetRequest  true  "Pet details"
// @Success      201   {object}  createPetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/pets [post]
func (h *PetHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.CreatePet(c.Request().Context(), ports.CreatePetInput{
		UserID:             userID,
		Name:               req.Name,
		Species:            req.Species,
		Breed:              req.Breed,
		Color:              req.Color,
		Description:        req.Description,
		Microchip:          req.Microchip,
		ContactPhone:       req.Contact.Phone,
		ContactEmail:       req.Contact.Email,
		AllowPublicProfile: req.AllowPublicProfile,
	})
	if err != nil {
		return err
	}

	metrics.PetsCreatedTotal.WithLabelValues(req.Species).Inc()

	return c.JSON(http.StatusCreated, createPetResponse{
		ID:        result.ID,
		Slug:      result.Slug,
		Status:    result.Status,
		CreatedAt: result.CreatedAt.UTC(),
		Links: petLinks{
			Self:    "/v1/pets/" + result.ID,
			Profile: "/v1/p/" + result.Slug,
		},
	})
}

// List handles GET /v1/pets — the caller's owned and shared pets.
//
// @Summary      List my pets
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listMyPetsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/pets [get]
func (h *PetHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListMyPets(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listMyPetsResponse{
		Owned:  toPetResponses(result.Owned),
		Shared: toPetResponses(result.Shared),
	})
}

// Get handles GET /v1/pets/:id.
//
// @Summary      Get a pet by ID
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  petResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id} [get]
func (h *PetHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	pet, err := h.service.GetPet(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPetResponse(pet))
}

// Update handles PATCH /v1/pets/:id with tri-state field merge.
//
// @Summary      Update a pet profile
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Pet ID"
// @Param        body  body      updatePetRequest  true  "Fields to change; null clears"
// @Success      200   {object}  petResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/pets/{id} [patch]
func (h *PetHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updatePetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pet, err := h.service.UpdatePet(c.Request().Context(), toUpdateInput(c.Param("id"), userID, req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPetResponse(pet))
}

// Archive handles DELETE /v1/pets/:id — soft delete via status transition.
//
// @Summary      Archive a pet profile
// @Tags         pets
// @Security     BearerAuth
// @Param        id  path  string  true  "Pet ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id} [delete]
func (h *PetHandler) Archive(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.ArchivePet(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Activity handles GET /v1/pets/:id/activity.
//
// @Summary      List a pet's activity timeline
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Pet ID"
// @Param        limit  query     int     false  "Max events (default 50, cap 200)"
// @Success      200    {object}  listActivityResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/pets/{id}/activity [get]
func (h *PetHandler) Activity(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.service.ListActivity(c.Request().Context(), c.Param("id"), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toActivityResponse(events))
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// VaccineHandler handles a pet's vaccination history.
type VaccineHandler struct {
	service ports.VaccineService
}

func NewVaccineHandler(service ports.VaccineService) *VaccineHandler {
	return &VaccineHandler{service: service}
}

type addVaccineRequest struct {
	Name           string     `json:"name"            validate:"required,min=1,max=200"`
	AdministeredAt time.Time  `json:"administered_at" validate:"required"`
	ExpiresAt      *time.Time `json:"expires_at"`
	VetName        string     `json:"vet_name"`
	Notes          string     `json:"notes"`
}

// updateVaccineRequest is tri-state: expires_at is the one clearable date.
type updateVaccineRequest struct {
	Name           ports.Patch[string]    `json:"name"`
	AdministeredAt ports.Patch[time.Time] `json:"administered_at"`
	ExpiresAt      ports.Patch[time.Time] `json:"expires_at"`
	VetName        ports.Patch[string]    `json:"vet_name"`
	Notes          ports.Patch[string]    `json:"notes"`
}

type vaccineResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AdministeredAt time.Time  `json:"administered_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	VetName        string     `json:"vet_name,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type listVaccinesResponse struct {
	Data []vaccineResponse `json:"data"`
}

func toVaccineResponse(r *domain.VaccineRecord) vaccineResponse {
	return vaccineResponse{
		ID:             r.ID,
		Name:           r.Name,
		AdministeredAt: r.AdministeredAt.UTC(),
		ExpiresAt:      r.ExpiresAt,
		VetName:        r.VetName,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

// Add handles POST /v1/pets/:id/vaccines.
//
// @Summary      Add a vaccine record
// @Tags         vaccines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Pet ID"
// @Param        body  body      addVaccineRequest  true  "Vaccine record"
// @Success      201   {object}  vaccineResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/pets/{id}/vaccines [post]
func (h *VaccineHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addVaccineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	record, err := h.service.Add(c.Request().Context(), ports.AddVaccineInput{
		PetID:          c.Param("id"),
		UserID:         userID,
		Name:           req.Name,
		AdministeredAt: req.AdministeredAt,
		ExpiresAt:      req.ExpiresAt,
		VetName:        req.VetName,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toVaccineResponse(record))
}

// List handles GET /v1/pets/:id/vaccines.
//
// @Summary      List a pet's vaccine records
// @Tags         vaccines
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  listVaccinesResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/vaccines [get]
func (h *VaccineHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]vaccineResponse, len(records))
	for i, r := range records {
		out[i] = toVaccineResponse(r)
	}
	return c.JSON(http.StatusOK, listVaccinesResponse{Data: out})
}

// Update handles PATCH /v1/pets/:id/vaccines/:recordID.
//
// @Summary      Update a vaccine record
// @Tags         vaccines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string                true  "Pet ID"
// @Param        recordID  path      string                true  "Record ID"
// @Param        body      body      updateVaccineRequest  true  "Fields to change; null clears expires_at"
// @Success      200       {object}  vaccineResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/pets/{id}/vaccines/{recordID} [patch]
func (h *VaccineHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateVaccineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Update(c.Request().Context(), ports.UpdateVaccineInput{
		PetID:          c.Param("id"),
		RecordID:       c.Param("recordID"),
		UserID:         userID,
		Name:           req.Name,
		AdministeredAt: req.AdministeredAt,
		ExpiresAt:      req.ExpiresAt,
		VetName:        req.VetName,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toVaccineResponse(record))
}

// Remove handles DELETE /v1/pets/:id/vaccines/:recordID.
//
// @Summary      Remove a vaccine record
// @Tags         vaccines
// @Security     BearerAuth
// @Param        id        path  string  true  "Pet ID"
// @Param        recordID  path  string  true  "Record ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/vaccines/{recordID} [delete]
func (h *VaccineHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), c.Param("id"), c.Param("recordID"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

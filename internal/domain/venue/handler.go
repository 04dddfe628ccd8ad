package venue

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/pkg/response"
	"venuebook/internal/pkg/validator"
	"venuebook/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /venues
func (h *Handler) List(c *gin.Context) {
	venues, err := h.service.List(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(venues, h.service.URL))
}

// Get handles GET /venues/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(v, h.service.URL))
}

// Create handles POST /venues (multipart or JSON)
func (h *Handler) Create(c *gin.Context) {
	req, up, ok := bindVenue(c)
	if !ok {
		return
	}

	v, err := h.service.Create(c.Request.Context(), req, up)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(v, h.service.URL))
}

// Update handles PUT /venues/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, up, ok := bindVenue(c)
	if !ok {
		return
	}

	v, err := h.service.Update(c.Request.Context(), id, req, up)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(v, h.service.URL))
}

// Delete handles DELETE /venues/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Venue deleted"})
}

func bindVenue(c *gin.Context) (*VenueRequest, Uploads, bool) {
	var req VenueRequest
	var up Uploads
	if err := c.ShouldBind(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return nil, up, false
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return nil, up, false
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if fh, err := c.FormFile("photo"); err == nil {
			up.Photo = fh
		}
		if fh, err := c.FormFile("floor_plan"); err == nil {
			up.FloorPlan = fh
		}
	}
	return &req, up, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid venue ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var fileErr *FileError
	switch {
	case errors.Is(err, ErrVenueNotFound):
		response.CustomError(c, http.StatusNotFound, "VENUE_NOT_FOUND", "Venue not found")
	case errors.Is(err, ErrVenueNameTaken):
		response.ErrorWithDetails(c, http.StatusConflict, "VENUE_NAME_TAKEN", "Venue name already taken", map[string]string{"name": "unique"})
	case errors.As(err, &fileErr):
		tag := "file"
		switch {
		case errors.Is(fileErr.Err, storage.ErrFileTooLarge):
			tag = "max"
		case errors.Is(fileErr.Err, storage.ErrInvalidMimeType):
			tag = "mimes"
		case errors.Is(fileErr.Err, storage.ErrEmptyFile):
			tag = "required"
		default:
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
			return
		}
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{fileErr.Field: tag})
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}

package order

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/pkg/response"
	"venuebook/internal/pkg/validator"
)

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// List handles GET /orders
func (h *Handler) List(c *gin.Context) {
	orders, err := h.service.List(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, orders)
}

// Get handles GET /orders/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Create handles POST /orders
func (h *Handler) Create(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	o, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

// Update handles PUT /orders/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	o, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Delete handles DELETE /orders/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	if err := h.service.Destroy(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Order deleted"})
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}
	target, ok := req.target()
	if !ok {
		writeError(c, reservation.ErrUnknownStatus)
		return
	}

	o, err := h.service.AdvanceStatus(c.Request.Context(), id, target)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Availability handles GET /orders/availability?venues=1,2&exclude=7
func (h *Handler) Availability(c *gin.Context) {
	var ids []int64
	for _, raw := range append(c.QueryArray("venues"), c.QueryArray("venues[]")...) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"venues": "numeric"})
				return
			}
			ids = append(ids, id)
		}
	}

	var exclude *int64
	if raw := c.Query("exclude"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"exclude": "numeric"})
			return
		}
		exclude = &id
	}

	ix, err := h.service.Availability(c.Request.Context(), ids, exclude)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, ix)
}

// Calendar handles GET /calendars?year=2025&month=3[&view=matrix]
func (h *Handler) Calendar(c *gin.Context) {
	m, ok := h.parseMonth(c)
	if !ok {
		return
	}

	if c.Query("view") == "matrix" {
		view, err := h.service.Matrix(c.Request.Context(), m)
		if err != nil {
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
			return
		}
		response.Success(c, http.StatusOK, view)
		return
	}

	view, err := h.service.Calendar(c.Request.Context(), m)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ListBeos handles GET /orders/:id/beos
func (h *Handler) ListBeos(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	beos, err := h.service.ListBeos(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, beos)
}

// CreateBeo handles POST /orders/:id/beos
func (h *Handler) CreateBeo(c *gin.Context) {
	id, ok := parseID(c, "Invalid order ID")
	if !ok {
		return
	}
	var req BeoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	b, err := h.service.AddBeo(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// GetBeo handles GET /beos/:id
func (h *Handler) GetBeo(c *gin.Context) {
	id, ok := parseID(c, "Invalid assignment ID")
	if !ok {
		return
	}
	b, err := h.service.GetBeo(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// UpdateBeo handles PUT /beos/:id
func (h *Handler) UpdateBeo(c *gin.Context) {
	id, ok := parseID(c, "Invalid assignment ID")
	if !ok {
		return
	}
	var req BeoDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	b, err := h.service.UpdateBeo(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// DeleteBeo handles DELETE /beos/:id
func (h *Handler) DeleteBeo(c *gin.Context) {
	id, ok := parseID(c, "Invalid assignment ID")
	if !ok {
		return
	}
	if err := h.service.DeleteBeo(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Assignment deleted"})
}

func (h *Handler) parseMonth(c *gin.Context) (reservation.Month, bool) {
	m := reservation.MonthOf(h.now())
	year, month := m.Year, m.Month
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 9999 {
			response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"year": "numeric"})
			return m, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"month": "numeric"})
			return m, false
		}
		month = v
	}

	out, err := reservation.NewMonth(year, month)
	if err != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"month": "between"})
		return m, false
	}
	return out, true
}

func parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", message)
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Fields)
	case errors.Is(err, ErrOrderNotFound):
		response.CustomError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, customer.ErrCustomerNotFound):
		response.CustomError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
	case errors.Is(err, ErrBeoNotFound):
		response.CustomError(c, http.StatusNotFound, "BEO_NOT_FOUND", "Assignment not found")
	case errors.Is(err, reservation.ErrInvalidStatusTransition):
		response.CustomError(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, reservation.ErrUnknownStatus):
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{"status": "oneof"})
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}

package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	h := NewHandler(f.svc)
	h.now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set("user_id", int64(1))
			c.Set("role", role)
		}
		c.Next()
	})
	RegisterRoutes(r.Group("/api/v1"), h)
	return r, f
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, role string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", role)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestHandler_CreateAndGet(t *testing.T) {
	r, f := setupTestRouter(t)

	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/orders", validRequest(f.hallA.ID), jwt.RoleStaff)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created Order
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Expo", created.EventName)
	assert.Equal(t, "2025-01-01", created.LoadStart.String())

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/orders/"+itoa(created.ID), nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	var got Order
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Venues, 1)

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/orders/999", nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)
}

func TestHandler_UpdateWithRemovedCustomer(t *testing.T) {
	r, f := setupTestRouter(t)

	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/orders", validRequest(f.hallA.ID), jwt.RoleStaff)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created Order
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NoError(t, customer.NewService(f.db).Delete(context.Background(), created.CustomerID))

	rr, env = doRequest(t, r, http.MethodPut, "/api/v1/orders/"+itoa(created.ID), validRequest(f.hallA.ID), jwt.RoleStaff)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", env.Error.Code)
}

func TestHandler_CreateValidation(t *testing.T) {
	r, f := setupTestRouter(t)

	req := validRequest(f.hallA.ID)
	req.ShowEnd = "2024-12-31"
	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/orders", req, jwt.RoleStaff)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "gtefield", env.Error.Details["show_end"])

	badJSON := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{"))
	badJSON.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	r.ServeHTTP(out, badJSON)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestHandler_Availability(t *testing.T) {
	r, f := setupTestRouter(t)
	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/orders", validRequest(f.hallA.ID), jwt.RoleStaff)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created Order
	require.NoError(t, json.Unmarshal(env.Data, &created))

	path := "/api/v1/orders/availability?venues=" + itoa(f.hallA.ID) + "," + itoa(f.hallB.ID)
	rr, env = doRequest(t, r, http.MethodGet, path, nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)

	var blocked map[string][]struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &blocked))
	require.Len(t, blocked[itoa(f.hallA.ID)], 3)
	assert.Equal(t, "2025-01-01", blocked[itoa(f.hallA.ID)][0].Start)
	assert.Equal(t, "2025-01-03", blocked[itoa(f.hallA.ID)][0].End)
	assert.Empty(t, blocked[itoa(f.hallB.ID)])

	rr, env = doRequest(t, r, http.MethodGet, path+"&exclude="+itoa(created.ID), nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &blocked))
	assert.Empty(t, blocked[itoa(f.hallA.ID)])

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/orders/availability?venues=abc", nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "numeric", env.Error.Details["venues"])
}

func TestHandler_StatusTransitions(t *testing.T) {
	r, f := setupTestRouter(t)
	o, err := f.svc.Create(context.Background(), validRequest(f.hallA.ID))
	require.NoError(t, err)
	path := "/api/v1/orders/" + itoa(o.ID) + "/status"

	rr, _ := doRequest(t, r, http.MethodPatch, path, map[string]int{"status": 2}, jwt.RoleStaff)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := doRequest(t, r, http.MethodPatch, path, map[string]int{"status": 1}, jwt.RoleStaff)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Error.Code)

	rr, env = doRequest(t, r, http.MethodPatch, path, map[string]int{"status": 7}, jwt.RoleStaff)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "oneof", env.Error.Details["status"])

	rr, env = doRequest(t, r, http.MethodPatch, path, map[string]int{"status": -1}, jwt.RoleStaff)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "gte", env.Error.Details["status"])
}

func TestHandler_StatusDefaultsToConfirmed(t *testing.T) {
	r, f := setupTestRouter(t)
	o, err := f.svc.Create(context.Background(), validRequest(f.hallA.ID))
	require.NoError(t, err)

	rr, env := doRequest(t, r, http.MethodPatch, "/api/v1/orders/"+itoa(o.ID)+"/status", map[string]any{}, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	var got Order
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, reservation.StatusConfirmed, got.Status)
}

func TestHandler_DeleteRequiresAdmin(t *testing.T) {
	r, f := setupTestRouter(t)
	o, err := f.svc.Create(context.Background(), validRequest(f.hallA.ID))
	require.NoError(t, err)
	path := "/api/v1/orders/" + itoa(o.ID)

	rr, env := doRequest(t, r, http.MethodDelete, path, nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rr, _ = doRequest(t, r, http.MethodDelete, path, nil, jwt.RoleAdmin)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doRequest(t, r, http.MethodGet, path, nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Calendar(t *testing.T) {
	r, f := setupTestRouter(t)
	_, err := f.svc.Create(context.Background(), validRequest(f.hallA.ID))
	require.NoError(t, err)

	rr, env := doRequest(t, r, http.MethodGet, "/api/v1/calendars", nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	var view struct {
		Year   int `json:"year"`
		Month  int `json:"month"`
		Layout []struct {
			Date string `json:"date"`
		} `json:"layout"`
		Slots map[string]struct {
			Slots []json.RawMessage `json:"slots"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, 1, view.Month)
	assert.Len(t, view.Layout, 31)
	assert.Len(t, view.Slots[itoa(f.hallA.ID)].Slots, 3)

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/calendars?year=2025&month=13", nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "between", env.Error.Details["month"])

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/calendars?year=2025&month=1&view=matrix", nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	var matrix struct {
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &matrix))
	require.Len(t, matrix.Rows, 31)
	assert.Equal(t, "2025-01-01", matrix.Rows[0]["date"])
	assert.Equal(t, "Expo", matrix.Rows[0][itoa(f.hallA.ID)])
	assert.Nil(t, matrix.Rows[0][itoa(f.hallB.ID)])
}

func TestHandler_Assignments(t *testing.T) {
	r, f := setupTestRouter(t)
	o, err := f.svc.Create(context.Background(), validRequest(f.hallA.ID))
	require.NoError(t, err)

	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/orders/"+itoa(o.ID)+"/beos",
		map[string]any{"department_id": f.audio.ID, "description": "Stage lights"}, jwt.RoleStaff)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var b Beo
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, "Audio", b.Department.Name)

	rr, env = doRequest(t, r, http.MethodPut, "/api/v1/beos/"+itoa(b.ID),
		map[string]any{"description": "Stage lights and smoke"}, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, "Stage lights and smoke", b.Description)

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/orders/"+itoa(o.ID)+"/beos", nil, jwt.RoleStaff)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []Beo
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rr, _ = doRequest(t, r, http.MethodDelete, "/api/v1/beos/"+itoa(b.ID), nil, jwt.RoleAdmin)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env = doRequest(t, r, http.MethodGet, "/api/v1/beos/"+itoa(b.ID), nil, jwt.RoleStaff)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "BEO_NOT_FOUND", env.Error.Code)
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

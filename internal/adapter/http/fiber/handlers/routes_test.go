package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/mocks"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/evowner"
)

var testPrincipals = map[string]domain.Principal{
	"admin-token": {ID: "admin-1", Role: domain.RoleAdmin},
	"u1-token":    {ID: "U1", Role: domain.RoleEVOwner},
	"guest-token": {ID: "G1", Role: domain.RoleOther},
}

type testAPI struct {
	app      *fiber.App
	stations *mocks.MockStationService
	owners   *mocks.MockEVOwnerRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()

	authSvc := &mocks.MockAuthService{
		AuthenticateFunc: func(ctx context.Context, token string) (*ports.Session, error) {
			p, ok := testPrincipals[token]
			if !ok {
				return nil, domain.ErrUnauthenticated
			}
			return &ports.Session{Principal: p, TokenID: "jti-" + p.ID}, nil
		},
	}
	stations := &mocks.MockStationService{}
	owners := &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			switch nic {
			case "N1":
				return &domain.EVOwner{NIC: "N1", UserID: "U1", IsActive: true}, nil
			case "N2":
				return &domain.EVOwner{NIC: "N2", UserID: "U2", IsActive: true}, nil
			}
			return nil, nil
		},
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.EVOwner, error) {
			if userID == "U1" {
				return &domain.EVOwner{NIC: "N1", UserID: "U1", IsActive: true}, nil
			}
			return nil, nil
		},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	RegisterRoutes(app.Group("/api/v1"), Services{
		Auth:      authSvc,
		Stations:  stations,
		Owners:    evowner.NewService(owners, &mocks.MockUserRepository{}, nil, nil, log),
		OwnerRepo: owners,
	}, log)

	return &testAPI{app: app, stations: stations, owners: owners}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestOwnerRoutes_OwnershipGate(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"owner reads own profile", "u1-token", "/api/v1/owners/N1", fiber.StatusOK},
		{"owner reads someone else's profile", "u1-token", "/api/v1/owners/N2", fiber.StatusForbidden},
		{"admin reads any profile", "admin-token", "/api/v1/owners/N2", fiber.StatusOK},
		{"unknown role denied", "guest-token", "/api/v1/owners/N1", fiber.StatusForbidden},
		{"missing token", "", "/api/v1/owners/N1", fiber.StatusUnauthorized},
		{"own account via me", "u1-token", "/api/v1/owners/me", fiber.StatusOK},
		{"user id route matches principal", "u1-token", "/api/v1/users/U1/owner", fiber.StatusOK},
		{"user id route for another user", "u1-token", "/api/v1/users/U2/owner", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := api.do(t, "GET", tt.path, tt.token, "")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestOwnerRoutes_BodyArgumentTakesPrecedence(t *testing.T) {
	// Arrange
	api := newTestAPI(t)

	// Act & Assert
	// Route says N1 (own), body says N2 (foreign): the body wins and the request is denied.
	status, _ := api.do(t, "PUT", "/api/v1/owners/N1", "u1-token", `{"nic":"N2","first_name":"Ana"}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(t, "PUT", "/api/v1/owners/N1", "u1-token", `{"first_name":"Ana"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestOwnerRoutes_ActOnTheCheckedReference(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	var updated, deactivated []string
	api.owners.UpdateFieldsFunc = func(ctx context.Context, nic string, fields map[string]interface{}) error {
		updated = append(updated, nic)
		return nil
	}
	api.owners.SetActiveFunc = func(ctx context.Context, nic string, active bool) error {
		deactivated = append(deactivated, nic)
		return nil
	}

	// Act
	getStatus, getBody := api.do(t, "GET", "/api/v1/owners/N2", "u1-token", `{"nic":"N1"}`)
	putStatus, _ := api.do(t, "PUT", "/api/v1/owners/N2", "u1-token", `{"nic":"N1","first_name":"Ana"}`)
	patchStatus, _ := api.do(t, "PATCH", "/api/v1/owners/N2/deactivate", "u1-token", `{"nic":"N1"}`)
	userStatus, userBody := api.do(t, "GET", "/api/v1/users/U2/owner", "u1-token", `{"userId":"U1"}`)

	// Assert
	require.Equal(t, fiber.StatusOK, getStatus)
	assert.Equal(t, "N1", getBody["data"].(map[string]interface{})["nic"])
	assert.Equal(t, fiber.StatusOK, putStatus)
	assert.Equal(t, []string{"N1"}, updated)
	assert.Equal(t, fiber.StatusOK, patchStatus)
	assert.Equal(t, []string{"N1"}, deactivated)
	require.Equal(t, fiber.StatusOK, userStatus)
	assert.Equal(t, "U1", userBody["data"].(map[string]interface{})["user_id"])
}

func TestOwnerRoutes_AdminActsOnBodyReference(t *testing.T) {
	// Arrange
	api := newTestAPI(t)

	// Act
	status, body := api.do(t, "GET", "/api/v1/owners/N1", "admin-token", `{"nic":"N2"}`)

	// Assert
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "N2", body["data"].(map[string]interface{})["nic"])
}

func TestOwnerRoutes_LookupFailureIsInternal(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	api.owners.FindByNICFunc = func(ctx context.Context, nic string) (*domain.EVOwner, error) {
		return nil, assert.AnError
	}

	// Act
	status, _ := api.do(t, "GET", "/api/v1/owners/N1", "u1-token", "")

	// Assert
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestOwnerRoutes_ReactivateIsBackOfficeOnly(t *testing.T) {
	// Arrange
	api := newTestAPI(t)

	// Act & Assert
	status, _ := api.do(t, "PATCH", "/api/v1/owners/N1/reactivate", "u1-token", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := api.do(t, "PATCH", "/api/v1/owners/N1/reactivate", "admin-token", "")
	assert.Equal(t, fiber.StatusConflict, status, "N1 is already active")
	assert.Equal(t, false, body["success"])
}

func TestStationRoutes_StatusMapping(t *testing.T) {
	api := newTestAPI(t)
	api.stations.DeactivateFunc = func(ctx context.Context, id string) *domain.ServiceResult {
		return domain.Fail(domain.NewError(domain.KindHasActiveBookings, "Cannot deactivate a charging station with active bookings"))
	}
	api.stations.GetFunc = func(ctx context.Context, id string) *domain.ServiceResult {
		return domain.Fail(domain.ErrStationNotFound)
	}
	api.stations.CreateFunc = func(ctx context.Context, req *domain.CreateStationRequest) *domain.ServiceResult {
		return domain.Fail(domain.NewValidationError(map[string]string{"total_slots": "is required"}))
	}

	status, body := api.do(t, "PATCH", "/api/v1/stations/S1/deactivate", "admin-token", "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Cannot deactivate a charging station with active bookings", body["message"])

	status, _ = api.do(t, "GET", "/api/v1/stations/S1", "u1-token", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = api.do(t, "POST", "/api/v1/stations", "admin-token", `{"station_name":"Downtown"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []interface{}{"total_slots: is required"}, body["errors"])
}

func TestStationRoutes_WritesNeedBackOffice(t *testing.T) {
	// Arrange
	api := newTestAPI(t)

	// Act & Assert
	status, _ := api.do(t, "PATCH", "/api/v1/stations/S1/activate", "u1-token", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(t, "PATCH", "/api/v1/stations/S1/activate", "admin-token", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestStationRoutes_ListParsesQuery(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	var got domain.StationQuery
	api.stations.ListFunc = func(ctx context.Context, q domain.StationQuery) *domain.StationListResult {
		got = q
		return &domain.StationListResult{Success: true}
	}

	// Act
	status, _ := api.do(t, "GET", "/api/v1/stations?search=downtown&isActive=true&sortBy=totalSlots&sortOrder=desc", "u1-token", "")

	// Assert
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "downtown", got.SearchTerm)
	require.NotNil(t, got.IsActive)
	assert.True(t, *got.IsActive)
	assert.Equal(t, "totalSlots", got.SortBy)
	assert.Equal(t, "desc", got.SortOrder)
}

func TestStationRoutes_NearbyRequiresCoordinates(t *testing.T) {
	// Arrange
	api := newTestAPI(t)

	// Act & Assert
	status, _ := api.do(t, "GET", "/api/v1/stations/nearby?lat=6.9", "u1-token", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = api.do(t, "GET", "/api/v1/stations/nearby?lat=6.9&lon=79.8&radius=3", "u1-token", "")
	assert.Equal(t, fiber.StatusOK, status)
}

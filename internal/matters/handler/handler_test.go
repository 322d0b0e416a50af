package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/internal/matters/repository"
	"practicedesk_backend/internal/matters/service"
	"practicedesk_backend/platform/httpkit"
	"practicedesk_backend/platform/logger"
	"practicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event)           {}
func (noopBus) PublishSync(context.Context, events.Event) error { return nil }
func (noopBus) Subscribe(string, events.Handler)                {}

var matterColumnNames = []string{
	"id", "organization_id", "conversation_id", "status", "title", "client_name", "client_email", "client_phone",
	"matter_type", "description", "priority", "lead_source", "matter_number", "custom_fields", "created_at", "updated_at", "closed_at",
}

func matterRow(id, orgID uuid.UUID, status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(matterColumnNames).AddRow(
		id, orgID, (*uuid.UUID)(nil), status, "Jane Doe", "Jane Doe", "jane@example.com", "",
		nil, "Landlord dispute", "normal", "contact_form", "MAT-2025-001", []byte(`{}`),
		now, now, (*time.Time)(nil),
	)
}

// newTestRouter mounts the protected routes with a stub auth middleware that
// injects the given identity, mirroring what AuthRequired does in production.
func newTestRouter(t *testing.T, orgID, userID uuid.UUID) (*gin.Engine, pgxmock.PgxPoolIface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	svc := service.New(repository.New(mock), noopBus{}, logger.New("development"))
	h := New(svc, validator.New())

	engine := gin.New()
	group := engine.Group("/matters")
	group.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(httpkit.ContextUserIDKey, userID)
			c.Set(httpkit.ContextTenantIDKey, orgID)
			c.Set(httpkit.ContextRolesKey, []string{"member"})
		}
		c.Next()
	})
	h.RegisterRoutes(group)

	return engine, mock
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAcceptEndpoint(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	matterID := uuid.New()
	engine, mock := newTestRouter(t, orgID, userID)

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, orgID, "lead"))
	mock.ExpectQuery(`UPDATE matters`).
		WithArgs(matterID, orgID, "open", false).
		WillReturnRows(matterRow(matterID, orgID, "open"))

	rec := performJSON(t, engine, http.MethodPost, "/matters/"+matterID.String()+"/accept", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status     string `json:"status"`
		AcceptedBy *struct {
			UserID uuid.UUID `json:"userId"`
		} `json:"acceptedBy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "open", resp.Status)
	require.NotNil(t, resp.AcceptedBy)
	assert.Equal(t, userID, resp.AcceptedBy.UserID)
}

func TestAcceptEndpointRequiresAuth(t *testing.T) {
	engine, _ := newTestRouter(t, uuid.Nil, uuid.Nil)

	rec := performJSON(t, engine, http.MethodPost, "/matters/"+uuid.NewString()+"/accept", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAcceptEndpointNonLeadIs400(t *testing.T) {
	orgID := uuid.New()
	matterID := uuid.New()
	engine, mock := newTestRouter(t, orgID, uuid.New())

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, orgID, "archived"))

	rec := performJSON(t, engine, http.MethodPost, "/matters/"+matterID.String()+"/accept", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only leads can be accepted")
}

func TestGetEndpointCrossTenantIs403(t *testing.T) {
	matterID := uuid.New()
	engine, mock := newTestRouter(t, uuid.New(), uuid.New())

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, uuid.New(), "open"))

	rec := performJSON(t, engine, http.MethodGet, "/matters/"+matterID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetEndpointUnknownMatterIs404(t *testing.T) {
	matterID := uuid.New()
	engine, mock := newTestRouter(t, uuid.New(), uuid.New())

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(pgxmock.NewRows(matterColumnNames))

	rec := performJSON(t, engine, http.MethodGet, "/matters/"+matterID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusEndpointIllegalTransitionIs400(t *testing.T) {
	orgID := uuid.New()
	matterID := uuid.New()
	engine, mock := newTestRouter(t, orgID, uuid.New())

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, orgID, "lead"))

	rec := performJSON(t, engine, http.MethodPatch, "/matters/"+matterID.String()+"/status",
		map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot transition matter from lead to completed")
}

func TestUpdateStatusEndpointMissingStatusIs400(t *testing.T) {
	engine, _ := newTestRouter(t, uuid.New(), uuid.New())

	rec := performJSON(t, engine, http.MethodPatch, "/matters/"+uuid.NewString()+"/status",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndpointsRejectMalformedID(t *testing.T) {
	engine, _ := newTestRouter(t, uuid.New(), uuid.New())

	rec := performJSON(t, engine, http.MethodGet, "/matters/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsportal/internal/domain"
	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
	"nsportal/internal/service/deletion"
	serviceEvents "nsportal/internal/service/events"
)

type fakeNamespaceService struct {
	ns         *models.Namespace
	err        error
	associated []models.AssociatedNamespace
	listCalls  [][2]int
}

func (f *fakeNamespaceService) LoadNamespace(_ context.Context, ref services.NamespaceRef) (*models.Namespace, error) {
	if f.err != nil {
		return nil, f.err
	}
	ns := *f.ns
	ns.AppID, ns.Env, ns.ClusterName, ns.NamespaceName = ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName
	return &ns, nil
}

func (f *fakeNamespaceService) ListAssociatedNamespaces(_ context.Context, _, _ string, offset, limit int) ([]models.AssociatedNamespace, error) {
	f.listCalls = append(f.listCalls, [2]int{offset, limit})
	if f.err != nil {
		return nil, f.err
	}
	return f.associated, nil
}

type fakeAuthz struct {
	users *models.AppRoleUsers
	err   error
}

func (f *fakeAuthz) AppRoleUsers(context.Context, string) (*models.AppRoleUsers, error) {
	return f.users, f.err
}

type fakeExecutor struct {
	err  error
	seen []models.Namespace
}

func (f *fakeExecutor) Execute(_ context.Context, ns models.Namespace, view services.View) error {
	f.seen = append(f.seen, ns)
	if f.err != nil {
		view.ShowLocalError(f.err.Error())
		return f.err
	}
	view.ShowSuccess("Namespace deleted")
	return nil
}

type handlerFixture struct {
	svc      *fakeNamespaceService
	authz    *fakeAuthz
	bus      *serviceEvents.Bus
	executor *fakeExecutor
	mux      *http.ServeMux
}

func newHandlerFixture() *handlerFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &handlerFixture{
		svc:      &fakeNamespaceService{ns: &models.Namespace{IsPublic: true}},
		authz:    &fakeAuthz{},
		bus:      serviceEvents.NewBus(logger),
		executor: &fakeExecutor{},
		mux:      http.NewServeMux(),
	}

	h := NewNamespaceHandler(f.svc, f.authz, f.bus, f.executor, logger)
	f.mux.HandleFunc("GET /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}", h.GetNamespace)
	f.mux.HandleFunc("POST /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}/pre-delete", h.PreDelete)
	f.mux.HandleFunc("DELETE /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}", h.DeleteNamespace)
	f.mux.HandleFunc("GET /api/apps/{appId}/role-users", h.GetAppRoleUsers)
	f.mux.HandleFunc("GET /api/envs/{env}/appnamespaces/{namespaceName}/namespaces", h.ListAssociatedNamespaces)
	return f
}

func (f *handlerFixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

const nsPath = "/api/apps/SampleApp/envs/DEV/clusters/default/namespaces/TEST1.shared"

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetNamespace(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(http.MethodGet, nsPath)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "SampleApp", body["app_id"])
	assert.Equal(t, "TEST1.shared", body["namespace_name"])
	assert.Equal(t, true, body["is_public"])
}

func TestGetNamespace_NotFound(t *testing.T) {
	f := newHandlerFixture()
	f.svc.err = fmt.Errorf("namespace TEST1.shared: %w", domain.ErrNotFound)

	rec := f.do(http.MethodGet, nsPath)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestPreDelete_ReturnsOutcomeAndView(t *testing.T) {
	f := newHandlerFixture()
	f.bus.Subscribe(events.PreDeleteNamespace, func(_ context.Context, ev events.Event) {
		req := ev.(deletion.PreDeleteNamespaceEvent)
		req.View.ShowConfirmationDialog(req.Namespace)
		req.OnOutcome(deletion.Outcome{
			Kind:      deletion.OutcomeConfirmed,
			Stage:     deletion.StageConfirmation,
			RunID:     "run-1",
			Namespace: req.Namespace,
		})
	})

	rec := f.do(http.MethodPost, nsPath+"/pre-delete")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PreDeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Outcome.Confirmed())
	assert.Nil(t, resp.FailureEvent)
	require.NotNil(t, resp.View.Confirmation)
	assert.Equal(t, "TEST1.shared", resp.View.Confirmation.NamespaceName)
}

func TestPreDelete_IncludesFailureEvent(t *testing.T) {
	f := newHandlerFixture()
	f.bus.Subscribe(events.PreDeleteNamespace, func(_ context.Context, ev events.Event) {
		req := ev.(deletion.PreDeleteNamespaceEvent)
		req.OnOutcome(deletion.Outcome{
			Kind:      deletion.OutcomeMasterInstance,
			Stage:     deletion.StageMasterInstance,
			RunID:     "run-2",
			Namespace: req.Namespace,
		})
	})

	rec := f.do(http.MethodPost, nsPath+"/pre-delete")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PreDeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.FailureEvent)
	assert.Equal(t, events.ReasonMasterInstance, resp.FailureEvent.Reason)
	assert.Equal(t, "run-2", resp.FailureEvent.RunID)
	assert.Empty(t, resp.View.Errors)
}

func TestPreDelete_NoSubscriber(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(http.MethodPost, nsPath+"/pre-delete")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDeleteNamespace_Success(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(http.MethodDelete, nsPath)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1000), resp.ReloadAfterMs)
	assert.Equal(t, []string{"Namespace deleted"}, resp.View.Successes)
	require.Len(t, f.executor.seen, 1)
	assert.Equal(t, "default", f.executor.seen[0].ClusterName)
}

func TestDeleteNamespace_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "conflict",
			err:        &domain.ConflictError{Message: "namespace has active instances", Reason: events.ReasonMasterInstance},
			wantStatus: http.StatusConflict,
			wantReason: events.ReasonMasterInstance,
		},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "internal", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.executor.err = tt.err

			rec := f.do(http.MethodDelete, nsPath)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Contains(t, body, "view")
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, body["reason"])
			}
		})
	}
}

func TestGetAppRoleUsers(t *testing.T) {
	f := newHandlerFixture()
	f.authz.users = &models.AppRoleUsers{
		AppID:       "SampleApp",
		MasterUsers: []models.User{{UserID: "apollo", Name: "Apollo"}},
	}

	rec := f.do(http.MethodGet, "/api/apps/SampleApp/role-users")

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.AppRoleUsers
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"apollo"}, got.MasterUserIDs())
}

func TestListAssociatedNamespaces_Paging(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCall   [2]int
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantCall: [2]int{0, 20}},
		{name: "second page", query: "?page=2&size=10", wantStatus: http.StatusOK, wantCall: [2]int{20, 10}},
		{name: "bad page", query: "?page=x", wantStatus: http.StatusBadRequest},
		{name: "negative size", query: "?size=-1", wantStatus: http.StatusBadRequest},
		{name: "page overflows offset", query: "?page=9223372036854775807&size=10", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.svc.associated = []models.AssociatedNamespace{{ID: "1", AppID: "OtherApp"}}

			rec := f.do(http.MethodGet, "/api/envs/DEV/appnamespaces/TEST1.shared/namespaces"+tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, [][2]int{tt.wantCall}, f.svc.listCalls)
			} else {
				assert.Empty(t, f.svc.listCalls)
			}
		})
	}
}

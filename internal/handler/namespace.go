package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"

	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
	"nsportal/internal/httputil"
	"nsportal/internal/service/deletion"
)

// DeleteExecutor performs a confirmed namespace delete against a view
type DeleteExecutor interface {
	Execute(ctx context.Context, ns models.Namespace, view services.View) error
}

// NamespaceHandler handles the namespace delete flow over HTTP
type NamespaceHandler struct {
	namespaceService services.NamespaceService
	authz            services.AuthorizationService
	publisher        events.Publisher
	action           DeleteExecutor
	logger           *slog.Logger
}

// NewNamespaceHandler creates a new namespace handler
func NewNamespaceHandler(
	namespaceService services.NamespaceService,
	authz services.AuthorizationService,
	publisher events.Publisher,
	action DeleteExecutor,
	logger *slog.Logger,
) *NamespaceHandler {
	return &NamespaceHandler{
		namespaceService: namespaceService,
		authz:            authz,
		publisher:        publisher,
		action:           action,
		logger:           logger,
	}
}

// PreDeleteResponse reports a validation run
type PreDeleteResponse struct {
	Outcome      deletion.Outcome                   `json:"outcome"`
	FailureEvent *events.DeleteNamespaceFailedEvent `json:"failure_event,omitempty"`
	View         ViewMessages                       `json:"view"`
}

// DeleteResponse reports a delete attempt
type DeleteResponse struct {
	Namespace     models.Namespace `json:"namespace"`
	View          ViewMessages     `json:"view"`
	ReloadAfterMs int64            `json:"reload_after_ms"`
}

// GetNamespace loads the delete candidate
// GET /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}
func (h *NamespaceHandler) GetNamespace(w http.ResponseWriter, r *http.Request) {
	ns, err := h.namespaceService.LoadNamespace(r.Context(), namespaceRef(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ns)
}

// PreDelete runs the delete validation for a namespace
// POST /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}/pre-delete
func (h *NamespaceHandler) PreDelete(w http.ResponseWriter, r *http.Request) {
	ns, err := h.namespaceService.LoadNamespace(r.Context(), namespaceRef(r))
	if err != nil {
		handleError(w, err)
		return
	}

	view := newResponseView()
	var outcome *deletion.Outcome
	h.publisher.Publish(r.Context(), deletion.PreDeleteNamespaceEvent{
		Namespace: *ns,
		View:      view,
		OnOutcome: func(o deletion.Outcome) { outcome = &o },
	})

	// The bus is synchronous, so no outcome means nobody validated.
	if outcome == nil {
		h.logger.Error("pre-delete event unanswered",
			"app_id", ns.AppID,
			"namespace", ns.NamespaceName,
			"request_id", httputil.GetRequestID(r),
		)
		httputil.RespondError(w, http.StatusServiceUnavailable, "delete validation unavailable")
		return
	}

	resp := PreDeleteResponse{
		Outcome: *outcome,
		View:    view.snapshot(),
	}
	if ev, ok := outcome.FailureEvent(); ok {
		resp.FailureEvent = &ev
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// DeleteNamespace deletes a namespace the operator confirmed
// DELETE /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}
func (h *NamespaceHandler) DeleteNamespace(w http.ResponseWriter, r *http.Request) {
	ref := namespaceRef(r)
	ns := models.Namespace{
		AppID:         ref.AppID,
		Env:           ref.Env,
		ClusterName:   ref.ClusterName,
		NamespaceName: ref.NamespaceName,
	}

	view := newResponseView()
	if err := h.action.Execute(r.Context(), ns, view); err != nil {
		handleErrorWithExtras(w, err, map[string]any{"view": view.snapshot()})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, DeleteResponse{
		Namespace:     ns,
		View:          view.snapshot(),
		ReloadAfterMs: deletion.ReloadDelay.Milliseconds(),
	})
}

// GetAppRoleUsers lists the master users of an application
// GET /api/apps/{appId}/role-users
func (h *NamespaceHandler) GetAppRoleUsers(w http.ResponseWriter, r *http.Request) {
	roleUsers, err := h.authz.AppRoleUsers(r.Context(), r.PathValue("appId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, roleUsers)
}

// ListAssociatedNamespaces lists namespaces sharing a public namespace's name
// GET /api/envs/{env}/appnamespaces/{namespaceName}/namespaces?page=0&size=20
func (h *NamespaceHandler) ListAssociatedNamespaces(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.QueryInt(r, "page", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := httputil.QueryInt(r, "size", services.AssociatedNamespacesLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if size > 0 && page > math.MaxInt/size {
		httputil.RespondError(w, http.StatusBadRequest, "page is out of range")
		return
	}

	associated, err := h.namespaceService.ListAssociatedNamespaces(
		r.Context(),
		r.PathValue("env"),
		r.PathValue("namespaceName"),
		page*size,
		size,
	)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, associated)
}

func namespaceRef(r *http.Request) services.NamespaceRef {
	return services.NamespaceRef{
		AppID:         r.PathValue("appId"),
		Env:           r.PathValue("env"),
		ClusterName:   r.PathValue("clusterName"),
		NamespaceName: r.PathValue("namespaceName"),
	}
}

package deletion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"k8s.io/utils/clock"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
	"nsportal/internal/messages"
)

// ReloadDelay gives the success notification time to render before the
// view reloads.
const ReloadDelay = 1000 * time.Millisecond

// Action deletes a namespace after the operator confirmed it.
// It makes a single attempt; failures are reported, never retried.
type Action struct {
	deleter services.DeletionService
	catalog *messages.Catalog
	clock   clock.WithDelayedExecution
	logger  *slog.Logger
}

// NewAction creates a delete action that schedules view reloads on clk
func NewAction(
	deleter services.DeletionService,
	catalog *messages.Catalog,
	clk clock.WithDelayedExecution,
	logger *slog.Logger,
) *Action {
	return &Action{
		deleter: deleter,
		catalog: catalog,
		clock:   clk,
		logger:  logger,
	}
}

// Execute deletes ns. On success the view shows a notification and is
// reloaded after ReloadDelay; on failure the view shows the error.
// The error is returned as well so callers can pick a status.
func (a *Action) Execute(ctx context.Context, ns models.Namespace, view services.View) error {
	if err := validateIdentity(ns); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrValidation, err)
		view.ShowLocalError(a.catalog.Text(messages.KeyDeleteFailed, err.Error()))
		return err
	}

	err := a.deleter.DeleteNamespace(ctx, ns.AppID, ns.Env, ns.ClusterName, ns.NamespaceName)
	if err != nil {
		deleteActions.WithLabelValues("failed").Inc()
		a.logger.Error("namespace delete failed",
			"app_id", ns.AppID,
			"env", ns.Env,
			"cluster", ns.ClusterName,
			"namespace", ns.NamespaceName,
			"error", err,
		)
		view.ShowLocalError(a.catalog.Text(messages.KeyDeleteFailed, domain.PublicMessage(err)))
		return err
	}

	deleteActions.WithLabelValues("deleted").Inc()
	a.logger.Info("namespace deleted",
		"app_id", ns.AppID,
		"env", ns.Env,
		"cluster", ns.ClusterName,
		"namespace", ns.NamespaceName,
	)

	view.ShowSuccess(a.catalog.Text(messages.KeyDeleteSucceeded))
	a.clock.AfterFunc(ReloadDelay, view.ReloadView)

	return nil
}

func validateIdentity(ns models.Namespace) error {
	return validation.ValidateStruct(&ns,
		validation.Field(&ns.AppID, validation.Required),
		validation.Field(&ns.Env, validation.Required),
		validation.Field(&ns.ClusterName, validation.Required),
		validation.Field(&ns.NamespaceName, validation.Required),
	)
}

package deletion

import (
	"context"
	"log/slog"

	"nsportal/internal/domain/events"
	serviceEvents "nsportal/internal/service/events"
)

// FailureLogger returns a DELETE_NAMESPACE_FAILED handler that writes one
// warning per blocked delete, so operators can see why a namespace is stuck.
func FailureLogger(logger *slog.Logger) serviceEvents.Handler {
	return func(_ context.Context, ev events.Event) {
		failed, ok := ev.(events.DeleteNamespaceFailedEvent)
		if !ok {
			return
		}

		attrs := []any{
			"run_id", failed.RunID,
			"reason", failed.Reason,
			"app_id", failed.Namespace.AppID,
			"env", failed.Namespace.Env,
			"cluster", failed.Namespace.ClusterName,
			"namespace", failed.Namespace.NamespaceName,
		}
		if n := len(failed.OtherAppAssociatedNamespaces); n > 0 {
			apps := make([]string, 0, n)
			for _, ns := range failed.OtherAppAssociatedNamespaces {
				apps = append(apps, ns.AppID)
			}
			attrs = append(attrs, "associated_apps", apps)
		}

		logger.Warn("namespace delete blocked", attrs...)
	}
}

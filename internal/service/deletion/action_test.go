package deletion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
)

type deleteCall struct {
	appID, env, cluster, namespace string
}

type fakeDeleter struct {
	calls []deleteCall
	err   error
}

func (f *fakeDeleter) DeleteNamespace(_ context.Context, appID, env, clusterName, namespaceName string) error {
	f.calls = append(f.calls, deleteCall{appID, env, clusterName, namespaceName})
	return f.err
}

func newTestAction(t *testing.T, deleter *fakeDeleter) (*Action, *testingclock.FakeClock) {
	t.Helper()
	clk := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewAction(deleter, testCatalog(t), clk, discardLogger()), clk
}

func TestAction_SuccessNotifiesThenReloadsAfterDelay(t *testing.T) {
	deleter := &fakeDeleter{}
	action, clk := newTestAction(t, deleter)
	view := &recordingView{}
	ns := deletable()

	err := action.Execute(context.Background(), ns, view)

	require.NoError(t, err)
	assert.Equal(t, []deleteCall{{"SampleApp", "DEV", "default", "TEST1.shared"}}, deleter.calls)
	assert.Equal(t, []string{"Namespace deleted"}, view.successes)
	assert.Empty(t, view.localErrors)

	// nothing reloads before the notification had time to render
	assert.True(t, clk.HasWaiters())
	clk.Step(ReloadDelay - time.Millisecond)
	assert.Equal(t, 0, view.reloads())

	clk.Step(time.Millisecond)
	assert.Eventually(t, func() bool { return view.reloads() == 1 }, time.Second, 5*time.Millisecond)
}

func TestAction_FailureShowsErrorWithoutRetryOrReload(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name: "conflict is shown verbatim",
			err: &domain.ConflictError{
				Message: "namespace has active instances",
				Reason:  "master_instance",
			},
			wantMessage: "namespace has active instances",
		},
		{
			name:        "wrapped sentinel is shown",
			err:         fmt.Errorf("namespace TEST1.shared: %w", domain.ErrNotFound),
			wantMessage: "namespace TEST1.shared: not found",
		},
		{
			name:        "unknown error is masked",
			err:         errors.New("pq: relation does not exist"),
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleter := &fakeDeleter{err: tt.err}
			action, clk := newTestAction(t, deleter)
			view := &recordingView{}
			failed := deleteActions.WithLabelValues("failed")
			before := testutil.ToFloat64(failed)

			err := action.Execute(context.Background(), deletable(), view)

			assert.ErrorIs(t, err, tt.err)
			assert.Len(t, deleter.calls, 1, "single attempt")
			assert.Equal(t, []string{tt.wantMessage}, view.localErrors)
			assert.Empty(t, view.successes)
			assert.False(t, clk.HasWaiters())
			assert.Equal(t, before+1, testutil.ToFloat64(failed))
		})
	}
}

func TestAction_RejectsIncompleteIdentity(t *testing.T) {
	deleter := &fakeDeleter{}
	action, _ := newTestAction(t, deleter)
	view := &recordingView{}

	err := action.Execute(context.Background(), models.Namespace{AppID: "SampleApp"}, view)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, deleter.calls)
	require.Len(t, view.localErrors, 1)
	assert.Contains(t, view.localErrors[0], "cluster_name")
}

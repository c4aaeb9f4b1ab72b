package deletion

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
	"nsportal/internal/messages"
)

// callLog records collaborator calls in order across all fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeUsers struct {
	log  *callLog
	user *models.User
	err  error
}

func (f *fakeUsers) CurrentUser(context.Context) (*models.User, error) {
	f.log.add("CurrentUser")
	return f.user, f.err
}

type fakeAuthz struct {
	log     *callLog
	masters []string
	err     error
	missing bool // return neither users nor an error
}

func (f *fakeAuthz) AppRoleUsers(_ context.Context, appID string) (*models.AppRoleUsers, error) {
	f.log.add("AppRoleUsers:" + appID)
	if f.err != nil || f.missing {
		return nil, f.err
	}
	users := &models.AppRoleUsers{AppID: appID}
	for _, id := range f.masters {
		users.MasterUsers = append(users.MasterUsers, models.User{UserID: id})
	}
	return users, nil
}

type lookupCall struct {
	env, name     string
	offset, limit int
}

type fakeLookup struct {
	log        *callLog
	associated []models.AssociatedNamespace
	err        error
	calls      []lookupCall
}

func (f *fakeLookup) ListAssociatedNamespaces(_ context.Context, env, name string, offset, limit int) ([]models.AssociatedNamespace, error) {
	f.log.add("ListAssociatedNamespaces")
	f.calls = append(f.calls, lookupCall{env: env, name: name, offset: offset, limit: limit})
	return f.associated, f.err
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.events = append(p.events, ev)
}

type recordingView struct {
	mu          sync.Mutex
	confirmed   []models.Namespace
	localErrors []string
	successes   []string
	reloadCount int
}

func (v *recordingView) ShowConfirmationDialog(ns models.Namespace) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmed = append(v.confirmed, ns)
}

func (v *recordingView) ShowLocalError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.localErrors = append(v.localErrors, message)
}

func (v *recordingView) ShowSuccess(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.successes = append(v.successes, message)
}

func (v *recordingView) ReloadView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloadCount++
}

func (v *recordingView) reloads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloadCount
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *messages.Catalog {
	t.Helper()
	c, err := messages.NewCatalog("en")
	require.NoError(t, err)
	return c
}

package namespace

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
)

func nsKey(appID, env, cluster, name string) string {
	return appID + "+" + env + "+" + cluster + "+" + name
}

type fakeNamespaceRepo struct {
	records    map[string]*models.NamespaceRecord
	branches   map[string]*models.NamespaceRecord // keyed by parent identity
	associated []models.AssociatedNamespace
	otherApps  int
	deleted    []string
	err        error
}

func (f *fakeNamespaceRepo) Get(_ context.Context, appID, env, cluster, name string) (*models.NamespaceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.records[nsKey(appID, env, cluster, name)]
	if !ok {
		return nil, fmt.Errorf("namespace %s: %w", name, domain.ErrNotFound)
	}
	return r, nil
}

func (f *fakeNamespaceRepo) FindBranch(_ context.Context, appID, env, parentCluster, name string) (*models.NamespaceRecord, error) {
	b, ok := f.branches[nsKey(appID, env, parentCluster, name)]
	if !ok {
		return nil, fmt.Errorf("branch of %s: %w", name, domain.ErrNotFound)
	}
	return b, nil
}

func (f *fakeNamespaceRepo) ListByName(_ context.Context, _, _ string, offset, limit int) ([]models.AssociatedNamespace, error) {
	if offset >= len(f.associated) {
		return []models.AssociatedNamespace{}, nil
	}
	end := min(offset+limit, len(f.associated))
	return f.associated[offset:end], nil
}

func (f *fakeNamespaceRepo) CountByNameExcludingApp(context.Context, string, string, string) (int, error) {
	return f.otherApps, nil
}

func (f *fakeNamespaceRepo) SoftDelete(_ context.Context, id, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAppNamespaceRepo struct {
	byApp  map[string]*models.AppNamespace // appID+name
	public map[string]*models.AppNamespace // name
}

func (f *fakeAppNamespaceRepo) GetByAppIDAndName(_ context.Context, appID, name string) (*models.AppNamespace, error) {
	a, ok := f.byApp[appID+"+"+name]
	if !ok {
		return nil, fmt.Errorf("app namespace %s: %w", name, domain.ErrNotFound)
	}
	return a, nil
}

func (f *fakeAppNamespaceRepo) FindPublicByName(_ context.Context, name string) (*models.AppNamespace, error) {
	a, ok := f.public[name]
	if !ok {
		return nil, fmt.Errorf("public app namespace %s: %w", name, domain.ErrNotFound)
	}
	return a, nil
}

type fakeInstanceRepo struct {
	counts         map[string]int // appID+env+cluster+name
	deletedConfigs []string
}

func (f *fakeInstanceRepo) CountByNamespace(_ context.Context, appID, env, cluster, name string) (int, error) {
	return f.counts[nsKey(appID, env, cluster, name)], nil
}

func (f *fakeInstanceRepo) DeleteConfigs(_ context.Context, appID, env, cluster, name string) error {
	f.deletedConfigs = append(f.deletedConfigs, nsKey(appID, env, cluster, name))
	return nil
}

type fakeItemRepo struct {
	deleted []string
}

func (f *fakeItemRepo) DeleteByNamespace(_ context.Context, namespaceID, _ string) (int64, error) {
	f.deleted = append(f.deleted, namespaceID)
	return 1, nil
}

// fakeTxManager runs fn inline and remembers whether it was used.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	return fn(ctx)
}

type fakeAuthorizer struct {
	err error
}

func (f *fakeAuthorizer) CanDeleteNamespace(context.Context, string, string) error {
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

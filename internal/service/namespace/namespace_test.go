package namespace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
)

func sampleRef() services.NamespaceRef {
	return services.NamespaceRef{
		AppID:         "SampleApp",
		Env:           "DEV",
		ClusterName:   "default",
		NamespaceName: "TEST1.shared",
	}
}

func strPtr(s string) *string { return &s }

type serviceFixture struct {
	namespaces    *fakeNamespaceRepo
	appNamespaces *fakeAppNamespaceRepo
	instances     *fakeInstanceRepo
}

func newServiceFixture() *serviceFixture {
	ref := sampleRef()
	return &serviceFixture{
		namespaces: &fakeNamespaceRepo{
			records: map[string]*models.NamespaceRecord{
				nsKey(ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName): {
					ID:            "ns-1",
					AppID:         ref.AppID,
					Env:           ref.Env,
					ClusterName:   ref.ClusterName,
					NamespaceName: ref.NamespaceName,
				},
			},
			branches: map[string]*models.NamespaceRecord{},
		},
		appNamespaces: &fakeAppNamespaceRepo{
			byApp:  map[string]*models.AppNamespace{},
			public: map[string]*models.AppNamespace{},
		},
		instances: &fakeInstanceRepo{counts: map[string]int{}},
	}
}

func (f *serviceFixture) service() services.NamespaceService {
	return NewNamespaceService(f.namespaces, f.appNamespaces, f.instances, discardLogger())
}

func TestLoadNamespace(t *testing.T) {
	ref := sampleRef()
	publicDef := &models.AppNamespace{ID: "an-1", AppID: "OwnerApp", Name: ref.NamespaceName, IsPublic: true}

	tests := []struct {
		name  string
		setup func(f *serviceFixture)
		want  models.Namespace
	}{
		{
			name: "own public definition",
			setup: func(f *serviceFixture) {
				f.appNamespaces.byApp[ref.AppID+"+"+ref.NamespaceName] = &models.AppNamespace{AppID: ref.AppID, Name: ref.NamespaceName, IsPublic: true}
				f.instances.counts[nsKey(ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)] = 3
			},
			want: models.Namespace{AppID: "SampleApp", ClusterName: "default", NamespaceName: "TEST1.shared", Env: "DEV", IsPublic: true, InstancesCount: 3},
		},
		{
			name: "own private definition",
			setup: func(f *serviceFixture) {
				f.appNamespaces.byApp[ref.AppID+"+"+ref.NamespaceName] = &models.AppNamespace{AppID: ref.AppID, Name: ref.NamespaceName}
				f.appNamespaces.public[ref.NamespaceName] = publicDef
			},
			want: models.Namespace{AppID: "SampleApp", ClusterName: "default", NamespaceName: "TEST1.shared", Env: "DEV"},
		},
		{
			name: "linked public namespace",
			setup: func(f *serviceFixture) {
				f.appNamespaces.public[ref.NamespaceName] = publicDef
			},
			want: models.Namespace{AppID: "SampleApp", ClusterName: "default", NamespaceName: "TEST1.shared", Env: "DEV", IsPublic: true, IsLinkedNamespace: true},
		},
		{
			name:  "no definition at all",
			setup: func(*serviceFixture) {},
			want:  models.Namespace{AppID: "SampleApp", ClusterName: "default", NamespaceName: "TEST1.shared", Env: "DEV"},
		},
		{
			name: "with branch",
			setup: func(f *serviceFixture) {
				f.appNamespaces.public[ref.NamespaceName] = publicDef
				f.namespaces.branches[nsKey(ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)] = &models.NamespaceRecord{
					ID:                "ns-2",
					ClusterName:       "gray-1",
					ParentClusterName: strPtr(ref.ClusterName),
				}
				f.instances.counts[nsKey(ref.AppID, ref.Env, "gray-1", ref.NamespaceName)] = 2
			},
			want: models.Namespace{
				AppID: "SampleApp", ClusterName: "default", NamespaceName: "TEST1.shared", Env: "DEV",
				IsPublic: true, IsLinkedNamespace: true, HasBranch: true,
				Branch: &models.Branch{ClusterName: "gray-1", LatestReleaseInstances: models.InstanceSummary{Total: 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			tt.setup(f)

			got, err := f.service().LoadNamespace(context.Background(), ref)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestLoadNamespace_Errors(t *testing.T) {
	t.Run("missing namespace", func(t *testing.T) {
		f := newServiceFixture()
		ref := sampleRef()
		ref.ClusterName = "other"

		_, err := f.service().LoadNamespace(context.Background(), ref)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid reference", func(t *testing.T) {
		f := newServiceFixture()
		ref := sampleRef()
		ref.Env = ""

		_, err := f.service().LoadNamespace(context.Background(), ref)

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "env")
	})

	t.Run("storage failure is passed through", func(t *testing.T) {
		f := newServiceFixture()
		boom := errors.New("connection refused")
		f.namespaces.err = boom

		_, err := f.service().LoadNamespace(context.Background(), sampleRef())

		assert.ErrorIs(t, err, boom)
	})
}

func TestListAssociatedNamespaces(t *testing.T) {
	f := newServiceFixture()
	f.appNamespaces.public["TEST1.shared"] = &models.AppNamespace{AppID: "OwnerApp", Name: "TEST1.shared", IsPublic: true}
	f.namespaces.associated = []models.AssociatedNamespace{
		{ID: "1", AppID: "OwnerApp"},
		{ID: "2", AppID: "SampleApp"},
		{ID: "3", AppID: "OtherApp"},
	}
	svc := f.service()

	got, err := svc.ListAssociatedNamespaces(context.Background(), "DEV", "TEST1.shared", 0, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListAssociatedNamespaces(context.Background(), "DEV", "TEST1.shared", 2, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OtherApp", got[0].AppID)
}

func TestListAssociatedNamespaces_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		nsName  string
		offset  int
		limit   int
		wantErr error
	}{
		{name: "missing env", nsName: "TEST1.shared", limit: 20, wantErr: domain.ErrValidation},
		{name: "missing name", env: "DEV", limit: 20, wantErr: domain.ErrValidation},
		{name: "negative offset", env: "DEV", nsName: "TEST1.shared", offset: -1, limit: 20, wantErr: domain.ErrValidation},
		{name: "zero limit", env: "DEV", nsName: "TEST1.shared", limit: 0, wantErr: domain.ErrValidation},
		{name: "limit too large", env: "DEV", nsName: "TEST1.shared", limit: 101, wantErr: domain.ErrValidation},
		{name: "not a public namespace", env: "DEV", nsName: "private.ns", limit: 20, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()

			_, err := f.service().ListAssociatedNamespaces(context.Background(), tt.env, tt.nsName, tt.offset, tt.limit)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

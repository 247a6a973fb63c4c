package rights

import (
	"context"
	"errors"
	"sort"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
)

type memoryRepo struct {
	grants   map[string]authz.Rights
	replaces int
	failNext error
}

func (m *memoryRepo) ListGrants(ctx context.Context, tenantID, userID int64) ([]authz.Grant, error) {
	modules := make([]string, 0, len(m.grants))
	for module := range m.grants {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	out := make([]authz.Grant, 0, len(modules))
	for _, module := range modules {
		out = append(out, authz.Grant{TenantID: tenantID, UserID: userID, Module: module, Rights: m.grants[module]})
	}
	return out, nil
}

func (m *memoryRepo) ReplaceGrants(ctx context.Context, tenantID, userID int64, grants map[string]authz.Rights) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.replaces++
	m.grants = make(map[string]authz.Rights, len(grants))
	for module, mask := range grants {
		m.grants[module] = mask
	}
	return nil
}

type recordingNotifier struct {
	calls    int
	tenantID int64
	userID   int64
	version  int64
}

func (r *recordingNotifier) GrantsChanged(ctx context.Context, tenantID, userID, version int64) {
	r.calls++
	r.tenantID = tenantID
	r.userID = userID
	r.version = version
}

func newTestService(t *testing.T, repo Repository, notifier ChangeNotifier) (*Service, *authz.Versions) {
	t.Helper()
	catalog, err := authz.NewCatalog("GODOWN", "VOUCHERS", "EVENT_TYPES")
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	versions := authz.NewVersions(client)
	return NewService(repo, catalog, versions, nil, notifier, nil), versions
}

func TestReplaceBumpsVersionOncePerBatch(t *testing.T) {
	repo := &memoryRepo{}
	notifier := &recordingNotifier{}
	svc, versions := newTestService(t, repo, notifier)
	ctx := context.Background()

	input := ReplaceInput{Grants: []GrantInput{
		{Module: "GODOWN", Actions: []string{"VIEW", "PRINT"}},
		{Module: "VOUCHERS", Actions: []string{"VIEW", "ADD", "EDIT"}},
	}}
	version, err := svc.Replace(ctx, 1, 7, input, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), version, "a whole batch bumps exactly once")

	current, err := versions.Current(ctx, 1, 7)
	require.NoError(t, err)
	require.Equal(t, int64(1), current)

	require.Equal(t, 1, notifier.calls)
	require.Equal(t, int64(1), notifier.tenantID)
	require.Equal(t, int64(7), notifier.userID)
	require.Equal(t, int64(1), notifier.version)

	require.True(t, repo.grants["GODOWN"].Has(authz.ActionView))
	require.True(t, repo.grants["GODOWN"].Has(authz.ActionPrint))
	require.False(t, repo.grants["GODOWN"].Has(authz.ActionEdit))
}

func TestReplaceRejectsUnknownModule(t *testing.T) {
	svc, versions := newTestService(t, &memoryRepo{}, nil)
	ctx := context.Background()

	input := ReplaceInput{Grants: []GrantInput{
		{Module: "PAYROLL", Actions: []string{"VIEW"}},
	}}
	_, err := svc.Replace(ctx, 1, 7, input, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	current, err := versions.Current(ctx, 1, 7)
	require.NoError(t, err)
	require.Zero(t, current, "a rejected write must not bump the version")
}

func TestReplaceRejectsDuplicateModule(t *testing.T) {
	svc, _ := newTestService(t, &memoryRepo{}, nil)
	input := ReplaceInput{Grants: []GrantInput{
		{Module: "GODOWN", Actions: []string{"VIEW"}},
		{Module: "GODOWN", Actions: []string{"EDIT"}},
	}}
	_, err := svc.Replace(context.Background(), 1, 7, input, "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReplaceRejectsUnknownAction(t *testing.T) {
	svc, _ := newTestService(t, &memoryRepo{}, nil)
	input := ReplaceInput{Grants: []GrantInput{
		{Module: "GODOWN", Actions: []string{"EXPORT"}},
	}}
	_, err := svc.Replace(context.Background(), 1, 7, input, "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReplaceFailureSkipsBumpAndNotify(t *testing.T) {
	repo := &memoryRepo{failNext: errors.New("deadlock detected")}
	notifier := &recordingNotifier{}
	svc, versions := newTestService(t, repo, notifier)
	ctx := context.Background()

	input := ReplaceInput{Grants: []GrantInput{
		{Module: "GODOWN", Actions: []string{"VIEW"}},
	}}
	_, err := svc.Replace(ctx, 1, 7, input, "")
	require.Error(t, err)

	current, err := versions.Current(ctx, 1, 7)
	require.NoError(t, err)
	require.Zero(t, current, "failed writes must not bump")
	require.Zero(t, notifier.calls)
}

func TestReplaceEmptyMatrixRevokesEverything(t *testing.T) {
	repo := &memoryRepo{grants: map[string]authz.Rights{
		"GODOWN": authz.RightsOf(authz.ActionView),
	}}
	svc, _ := newTestService(t, repo, nil)

	version, err := svc.Replace(context.Background(), 1, 7, ReplaceInput{}, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.Empty(t, repo.grants)
}

func TestGetReturnsMatrixWithVersion(t *testing.T) {
	repo := &memoryRepo{grants: map[string]authz.Rights{
		"GODOWN":   authz.RightsOf(authz.ActionView, authz.ActionPrint),
		"VOUCHERS": authz.RightsOf(authz.ActionView),
	}}
	notifier := &recordingNotifier{}
	svc, _ := newTestService(t, repo, notifier)
	ctx := context.Background()

	_, err := svc.OnGrantsChanged(ctx, 1, 7)
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.UserID)
	require.Equal(t, int64(1), got.Version)
	require.Len(t, got.Grants, 2)
	require.Equal(t, "GODOWN", got.Grants[0].Module)
	require.Equal(t, []string{"VIEW", "PRINT"}, got.Grants[0].Actions)
}

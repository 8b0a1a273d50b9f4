package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

// slowListRepo toma los datos al entrar a ListAll y, en la llamada blockOn, espera
// release antes de devolverlos.
type slowListRepo struct {
	*memCompanyRepo
	calls   atomic.Int32
	blockOn int32
	started chan struct{}
	release chan struct{}
}

func (r *slowListRepo) ListAll(ctx context.Context) ([]*entity.Company, error) {
	list, err := r.memCompanyRepo.ListAll(ctx)
	if r.calls.Add(1) == r.blockOn {
		close(r.started)
		<-r.release
	}
	return list, err
}

// Una relectura iniciada antes de una escritura y terminada después no pisa el
// snapshot posterior a la escritura.
func TestCompanySnapshot_RelecturaTardiaNoPisaEscritura(t *testing.T) {
	repo := &slowListRepo{
		memCompanyRepo: newMemCompanyRepo(entity.Company{ID: "c1", Name: "Alfa", Alerts: []string{}}),
		blockOn:        2,
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	snap := usecase.NewCompanySnapshot(repo, logger.Nop())
	ctx := context.Background()

	all, err := snap.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	late := make(chan error, 1)
	go func() { late <- snap.Refresh(ctx) }()
	<-repo.started

	require.NoError(t, snap.Create(ctx, &entity.Company{ID: "c2", Name: "Beta", Alerts: []string{}}))
	close(repo.release)
	require.NoError(t, <-late)

	all, err = snap.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Beta", all[1].Name)
}

// Si la relectura posterior a una escritura falla, una relectura anterior que
// termine después no deja el snapshot como vigente.
func TestCompanySnapshot_FalloPosteriorMantieneRecarga(t *testing.T) {
	repo := &slowListRepo{
		memCompanyRepo: newMemCompanyRepo(entity.Company{ID: "c1", Name: "Alfa", Alerts: []string{}}),
		blockOn:        1,
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	snap := usecase.NewCompanySnapshot(repo, logger.Nop())
	ctx := context.Background()

	late := make(chan error, 1)
	go func() { late <- snap.Refresh(ctx) }()
	<-repo.started

	repo.mu.Lock()
	repo.listErr = errStore
	repo.mu.Unlock()
	require.Error(t, snap.Refresh(ctx))

	close(repo.release)
	require.NoError(t, <-late)

	repo.mu.Lock()
	repo.listErr = nil
	repo.items["c2"] = entity.Company{ID: "c2", Name: "Beta", Alerts: []string{}}
	repo.mu.Unlock()

	all, err := snap.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "el snapshot se recarga en la siguiente lectura")
}

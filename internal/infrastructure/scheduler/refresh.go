// Package scheduler ejecuta el refresco periódico del snapshot de empresas para que
// las escrituras de otras instancias o del CLI de importación se vuelvan visibles.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

// Refresher relee la colección completa.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// DefaultTimeout tiempo máximo de cada refresco.
const DefaultTimeout = 30 * time.Second

// RefreshJob job cron que llama a Refresher.Refresh.
type RefreshJob struct {
	target  Refresher
	spec    string
	timeout time.Duration
	log     *logger.Logger
	cron    *cron.Cron
}

// NewRefreshJob construye el job. spec usa la sintaxis de robfig/cron ("@every 5m",
// "*/10 * * * *"); vacío desactiva el job.
func NewRefreshJob(target Refresher, spec string, log *logger.Logger) *RefreshJob {
	if log == nil {
		log = logger.Nop()
	}
	return &RefreshJob{
		target:  target,
		spec:    spec,
		timeout: DefaultTimeout,
		log:     log.Component("scheduler"),
	}
}

// Start programa el job. Con spec vacío no hace nada. Una ejecución que aún no
// terminó hace que se salte la siguiente.
func (j *RefreshJob) Start() error {
	if j.spec == "" {
		j.log.Info().Msg("refresco periódico desactivado")
		return nil
	}
	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(j.spec, j.RunOnce); err != nil {
		return fmt.Errorf("scheduler: spec %q inválido: %w", j.spec, err)
	}
	c.Start()
	j.cron = c
	j.log.Info().Str("spec", j.spec).Msg("refresco periódico programado")
	return nil
}

// RunOnce ejecuta un refresco y registra el resultado. Los fallos solo se registran:
// el snapshot queda marcado y la siguiente lectura vuelve a intentarlo.
func (j *RefreshJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.target.Refresh(ctx); err != nil {
		j.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("refresco del snapshot falló")
		return
	}
	j.log.Debug().Dur("elapsed", time.Since(start)).Msg("snapshot refrescado")
}

// Stop detiene el cron y espera a que termine la ejecución en curso (o a ctx).
func (j *RefreshJob) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

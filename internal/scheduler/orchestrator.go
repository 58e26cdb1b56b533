package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/etl"
)

// runTimeout bounds one scheduled refresh end to end.
const runTimeout = 30 * time.Minute

// Orchestrator runs the weekly refresh on a cron schedule: resolve the
// most recently kicked-off week, then re-run the loaders for it.
type Orchestrator struct {
	loader *etl.Loader
	cron   *cron.Cron
	spec   string
	log    *logrus.Entry
}

// NewOrchestrator creates a scheduler with a cron spec such as
// "30 6 * * 2" (Tuesdays 06:30).
func NewOrchestrator(loader *etl.Loader, spec string, log *logrus.Entry) *Orchestrator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Orchestrator{
		loader: loader,
		cron:   cron.New(),
		spec:   spec,
		log:    log,
	}
}

// Start registers the refresh job and begins the cron loop.
func (o *Orchestrator) Start() error {
	_, err := o.cron.AddFunc(o.spec, o.runRefresh)
	if err != nil {
		return err
	}
	o.cron.Start()
	o.log.WithField("spec", o.spec).Info("weekly refresh scheduled")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (o *Orchestrator) Stop() {
	ctx := o.cron.Stop()
	<-ctx.Done()
	o.log.Info("scheduler stopped")
}

// RunOnce resolves and refreshes the current target week immediately.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	target, err := o.loader.ResolveTargetWeek(ctx, nil, nil, true)
	if err != nil {
		return err
	}
	return o.loader.RefreshWeek(ctx, target, true)
}

func (o *Orchestrator) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	started := time.Now()
	if err := o.RunOnce(ctx); err != nil {
		o.log.WithError(err).Error("scheduled refresh failed")
		return
	}
	o.log.WithField("duration", time.Since(started).Round(time.Second).String()).
		Info("scheduled refresh completed")
}

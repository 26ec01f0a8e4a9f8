package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PriceRefresher starts a refresh of every price display.
type PriceRefresher interface {
	RefreshAll()
}

// Refresher triggers price refreshes on a cron schedule.
type Refresher struct {
	cron      *cron.Cron
	refresher PriceRefresher
	logger    *zap.Logger
}

// NewRefresher registers a refresh job on schedule. Standard five-field
// expressions, expressions with a leading seconds field, and descriptors
// such as "@every 30s" are accepted.
func NewRefresher(schedule string, refresher PriceRefresher, logger *zap.Logger) (*Refresher, error) {
	logger = logger.Named("Refresher")
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	r := &Refresher{
		cron:      cron.New(cron.WithParser(parser), cron.WithLogger(cronLogger{logger})),
		refresher: refresher,
		logger:    logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.RunNow); err != nil {
		return nil, fmt.Errorf("register refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("Auto-refresh started")
}

// Stop stops the scheduler and waits for a running job to return.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("Auto-refresh stopped")
}

// RunNow triggers a refresh immediately.
func (r *Refresher) RunNow() {
	r.logger.Debug("Refreshing prices")
	r.refresher.RefreshAll()
}

// cronLogger routes cron's own logging into zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

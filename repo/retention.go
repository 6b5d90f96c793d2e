package repo

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"time"
)

// RetentionSweeper purges expired execution log entries on a cron schedule.
type RetentionSweeper struct {
	cron  *cron.Cron
	store definitions.LogStore
	log   *logrus.Logger
}

func NewRetentionSweeper(schedule string, store definitions.LogStore, log *logrus.Logger) (*RetentionSweeper, error) {
	sweeper := &RetentionSweeper{
		cron:  cron.New(),
		store: store,
		log:   log,
	}
	_, err := sweeper.cron.AddFunc(schedule, sweeper.sweep)
	if err != nil {
		return nil, err
	}
	return sweeper, nil
}

func (s *RetentionSweeper) Start() {
	s.cron.Start()
}

func (s *RetentionSweeper) Stop() {
	s.cron.Stop()
}

func (s *RetentionSweeper) sweep() {
	purged, err := s.store.PurgeExpired(time.Now())
	if err != nil {
		s.log.WithError(err).Error("retention sweep failed")
		return
	}
	if purged > 0 {
		s.log.Infof("retention sweep purged %d log entries", purged)
	}
}

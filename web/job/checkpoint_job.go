package job

import (
	"github.com/solo-blog/console/logger"
)

// CheckpointJob flushes the SQLite write-ahead log into the database file.
type CheckpointJob struct {
	checkpoint func() error
}

// NewCheckpointJob creates a job that runs checkpoint on every tick.
func NewCheckpointJob(checkpoint func() error) *CheckpointJob {
	return &CheckpointJob{checkpoint: checkpoint}
}

// Run is called by the cron scheduler.
func (j *CheckpointJob) Run() {
	if err := j.checkpoint(); err != nil {
		logger.Warning("checkpoint job err: ", err)
	}
}

package universe

// RefreshJob reloads the universe snapshot on a schedule, picking up rows the
// collector wrote since the last load. Implements scheduler.Job.
type RefreshJob struct {
	svc *Service
}

// NewRefreshJob creates a refresh job for the given service.
func NewRefreshJob(svc *Service) *RefreshJob {
	return &RefreshJob{svc: svc}
}

// Name returns the job name for scheduler logs.
func (j *RefreshJob) Name() string {
	return "universe_refresh"
}

// Run reloads the snapshot.
func (j *RefreshJob) Run() error {
	return j.svc.Refresh()
}

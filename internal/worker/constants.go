package worker

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerQueueFull = "Worker queue full, job skipped"
	ErrMsgJobPanicked     = "job panicked"
)

// Pending spin monitor
const (
	LogMsgStalePendingSpins  = "Spins still waiting for randomness"
	ErrMsgCountPendingFailed = "failed to count pending spins"
)

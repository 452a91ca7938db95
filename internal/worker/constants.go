package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Watch Refresh Worker
// ============================================================================

// Log messages for watch refresh worker operations
const (
	LogMsgRefreshWorkerStarted = "Watch refresh worker started"
	LogMsgRefreshWorkerStopped = "Watch refresh worker stopped"
	LogMsgRefreshTickSkipped   = "Watch refresh job dropped, queue full"
	LogMsgRefreshFailed        = "Watched order book refresh failed"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)

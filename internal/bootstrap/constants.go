package bootstrap

// Log messages for startup and shutdown
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgSyncingItems         = "Syncing items from JSON config..."
	LogMsgShutdownComplete     = "Shutdown complete"
)

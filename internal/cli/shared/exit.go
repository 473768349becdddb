package shared

const (
	ExitOK           = 0
	ExitGeneric      = 1
	ExitConfigError  = 2
	ExitBuildFailed  = 3
	ExitSkippedFiles = 4
)

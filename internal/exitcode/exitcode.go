package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ParseError      = 4
	PersistError    = 5
	PartialSuccess  = 6
)

package errors

// Category is the broad class of an AppError. It decides how a fetch run
// reacts: NETWORK failures are skipped, everything else stops the run.
type Category string

const (
	CategoryNetwork  Category = "NETWORK"
	CategorySystem   Category = "SYSTEM"
	CategoryConfig   Category = "CONFIG"
	CategoryDatabase Category = "DATABASE"
)

// Fallback codes for errors that do not fit a specific one below.
const (
	CodeSystemGeneric   = "SYS-000"
	CodeNetworkGeneric  = "NET-000"
	CodeConfigGeneric   = "CFG-000"
	CodeDatabaseGeneric = "DB-000"
)

// Transfer failures.
const (
	CodeNetworkRequest = "NET-001" // request could not be built or sent
	CodeNetworkStatus  = "NET-002" // non-2xx response
	CodeNetworkRead    = "NET-003" // body read failed mid-transfer
)

// Local filesystem failures.
const (
	CodeSystemMkdir  = "SYS-001"
	CodeSystemCreate = "SYS-002"
	CodeSystemWrite  = "SYS-003"
)

const (
	CodeConfigParse   = "CFG-001"
	CodeConfigInvalid = "CFG-002"
)

const (
	CodeDatabaseOpen  = "DB-001"
	CodeDatabaseWrite = "DB-002"
	CodeDatabaseQuery = "DB-003"
)

package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldKind      = "kind"
	FieldID        = "expense_id"
	FieldKey       = "storage_key"
	FieldPath      = "path"
	FieldDuration  = "duration_ms"
)

// Components
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentTracker = "tracker"
	ComponentStorage = "storage"
	ComponentConfig  = "config"
	ComponentTUI     = "tui"
	ComponentDaemon  = "daemon"
)

// Operations
const (
	OpLoad  = "load"
	OpSave  = "save"
	OpAdd   = "add"
	OpPay   = "pay"
	OpUse   = "update_used"
	OpRm    = "remove"
	OpSetBl = "set_balance"
	OpPoll  = "poll"
)

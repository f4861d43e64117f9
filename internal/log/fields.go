package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldKey           = "key"
	FieldTransactionID = "transaction_id"
	FieldRecurringID   = "recurring_id"
	FieldName          = "name"
	FieldAmountCents   = "amount_cents"
	FieldTxType        = "type"
	FieldCategory      = "category"
	FieldFrequency     = "frequency"
	FieldDayOfMonth    = "day_of_month"
	FieldDate          = "date"
	FieldCount         = "count"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentStorage    = "storage"
	ComponentRecurrence = "recurrence"
	ComponentDashboard  = "dashboard"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpProcess = "process"
	OpClear   = "clear"
)

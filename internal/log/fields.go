package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldMonthKey    = "month_key"
	FieldEntryID     = "entry_id"
	FieldEntryKind   = "kind"
	FieldEntryName   = "entry_name"
	FieldAmountCents = "amount_cents"
	FieldTemplateID  = "template_id"
	FieldCarryFrom   = "carry_applied_from"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpAdd      = "add"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpReset    = "reset"
	OpCarry    = "carry_over"
	OpInvest   = "invest"
	OpTemplate = "template"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

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
	FieldUserID     = "user_id"
	FieldUsername   = "username"
	FieldSessionID  = "session_id"
	FieldAccountID  = "account_id"
	FieldGoalID     = "goal_id"
	FieldTxID       = "transaction_id"
	FieldTxType     = "transaction_type"
	FieldAmount     = "amount_cents"
	FieldRevision   = "revision"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentBackend   = "backend"
	ComponentReports   = "reports"
	ComponentExport    = "export"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpRecord   = "record"
	OpDelete   = "delete"
	OpUpdate   = "update"
	OpExport   = "export"
)

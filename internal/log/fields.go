package log

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldRequestID      = "request_id"
	FieldClientIP       = "client_ip"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldStatusCode     = "status_code"
	FieldDuration       = "duration_ms"
	FieldUserAgent      = "user_agent"
	FieldError          = "error"
	FieldOperation      = "operation"
	FieldOrganizationID = "organization_id"
	FieldUserID         = "user_id"
	FieldPeriod         = "period"
	FieldReturnType     = "return_type"
	FieldInvoiceID      = "invoice_id"
	FieldEmployeeID     = "employee_id"
	FieldJob            = "job"
	FieldEvent          = "event"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentCache      = "cache"
	ComponentEvents     = "events"
	ComponentJobs       = "jobs"
	ComponentGST        = "gst"
	ComponentAttendance = "attendance"
	ComponentBilling    = "billing"
	ComponentDashboard  = "dashboard"
	ComponentAudit      = "audit"
)

package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldShopID is the tenant shop ID
	FieldShopID = "shop_id"

	// FieldJobID is the generation job ID
	FieldJobID = "job_id"

	// FieldRunID is the diagnostic or resolution run ID
	FieldRunID = "run_id"

	// FieldProductID is the catalog product ID
	FieldProductID = "product_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Standard metric fields, attached per log entry for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldProgress is a resolution run progress percentage
	FieldProgress = "progress"

	// FieldSize is a response body size in bytes
	FieldSize = "size"
)

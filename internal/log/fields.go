package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldCurrency  = "currency"
	FieldSeries    = "series"
	FieldRowCount  = "row_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentDataset = "dataset"
	ComponentStore   = "ratestore"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCSV     = "csvfile"
)

package domain

// ServiceResult is the outcome of a mutation.
type ServiceResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Kind    ErrorKind   `json:"-"`
	Errors  []string    `json:"errors,omitempty"`
}

// OK builds a successful result.
func OK(message string, data interface{}) *ServiceResult {
	return &ServiceResult{Success: true, Message: message, Data: data}
}

// Fail builds a failed result from an error. Non-domain errors become Internal.
func Fail(err error) *ServiceResult {
	de := AsError(err)
	if de == nil {
		de = ErrInternal
	}
	return &ServiceResult{
		Success: false,
		Message: de.Message,
		Kind:    de.Kind,
		Errors:  de.FieldMessages(),
	}
}

// StationListResult is the outcome of a station query.
type StationListResult struct {
	Success      bool              `json:"success"`
	Stations     []ChargingStation `json:"stations,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

package serviceerror

type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the result type carried back from every lifecycle
// operation. Handlers map it to an HTTP response; services never panic.
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

var (
	InternalServerError = ServiceError{
		Type:             ServerErrorType,
		Code:             "CEX-5000",
		Error:            "internal_server_error",
		ErrorDescription: "An unexpected error occurred",
	}

	PersistenceError = ServiceError{
		Type:             ServerErrorType,
		Code:             "CEX-5001",
		Error:            "persistence_error",
		ErrorDescription: "A persistence error occurred",
	}

	ExternalServiceError = ServiceError{
		Type:             ServerErrorType,
		Code:             "CEX-5002",
		Error:            "external_service_error",
		ErrorDescription: "Error occurred while invoking the extension service",
	}

	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CEX-4001",
		Error:            "validation_error",
		ErrorDescription: "Validation failed",
	}

	// Consent lookups that miss are reported as a client error. The
	// upstream accelerator mapped this to 400 rather than 404 and callers
	// depend on that, so the HTTP mapping keeps it.
	ConsentNotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CEX-4004",
		Error:            "consent_not_found",
		ErrorDescription: "Consent not found",
	}

	UnsupportedMethodError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CEX-4005",
		Error:            "method_not_supported",
		ErrorDescription: "Method not supported",
	}
)

func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}

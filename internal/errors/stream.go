package errors

var (
	ErrSessionClosed = &DomainError{
		Kind:    KindStream,
		Code:    "SESSION_CLOSED",
		Message: "session is closed",
	}
	ErrSessionBackpressure = &DomainError{
		Kind:    KindStream,
		Code:    "SESSION_BACKPRESSURE",
		Message: "session send buffer is full",
	}
	ErrNoBaseline = &DomainError{
		Kind:    KindSync,
		Code:    "NO_BASELINE",
		Message: "no authoritative snapshot to apply delta to",
	}
	ErrInvalidRate = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_RATE",
		Message: "paymentsPerMinute must be between 1 and 60",
	}
	ErrInvalidPayment = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_PAYMENT",
		Message: "invalid payment payload",
	}
)

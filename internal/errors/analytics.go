package errors

var (
	ErrTenantRequired = &DomainError{
		Kind:    KindValidation,
		Code:    "TENANT_REQUIRED",
		Message: "tenantId is required",
	}
	ErrInvalidTenant = &DomainError{
		Kind:    KindAuth,
		Code:    "INVALID_TENANT",
		Message: "invalid tenant identifier",
	}
	ErrInvalidPeriod = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_PERIOD",
		Message: "period must be one of day, week, month",
	}
	ErrInvalidDateRange = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_DATE_RANGE",
		Message: "startDate and endDate must both be valid dates with startDate <= endDate",
	}
	ErrStoreUnavailable = &DomainError{
		Kind:    KindDependency,
		Code:    "STORE_UNAVAILABLE",
		Message: "payment store operation failed",
	}
)

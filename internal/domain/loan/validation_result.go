package loan

// ValidationCode identifies the rule a validation failed on.
type ValidationCode string

// Validation rule codes.
const (
	CodePrincipalRequired       ValidationCode = "PRINCIPAL_REQUIRED"
	CodePrincipalFormat         ValidationCode = "PRINCIPAL_FORMAT"
	CodePrincipalPositive       ValidationCode = "PRINCIPAL_POSITIVE"
	CodePrincipalMinRequired    ValidationCode = "PRINCIPAL_MIN_REQUIRED"
	CodePrincipalMaxExceeded    ValidationCode = "PRINCIPAL_MAX_EXCEEDED"
	CodeDurationRequired        ValidationCode = "DURATION_REQUIRED"
	CodeDurationFormat          ValidationCode = "DURATION_FORMAT"
	CodeDurationPositive        ValidationCode = "DURATION_POSITIVE"
	CodeDurationMinRequired     ValidationCode = "DURATION_MIN_REQUIRED"
	CodeDurationMaxExceeded     ValidationCode = "DURATION_MAX_EXCEEDED"
	CodeInterestRateFormat      ValidationCode = "INTEREST_RATE_FORMAT"
	CodeInterestRateNegative    ValidationCode = "INTEREST_RATE_NEGATIVE"
	CodeInterestRateMaxExceeded ValidationCode = "INTEREST_RATE_MAX_EXCEEDED"
	CodeFrequencyUnsupported    ValidationCode = "COMPOUNDING_FREQUENCY_UNSUPPORTED"
	CodeInvalidInput            ValidationCode = "INVALID_INPUT"
)

// Field returns the input field a code belongs to.
func (c ValidationCode) Field() string {
	switch c {
	case CodePrincipalRequired, CodePrincipalFormat, CodePrincipalPositive,
		CodePrincipalMinRequired, CodePrincipalMaxExceeded:
		return "principal"
	case CodeDurationRequired, CodeDurationFormat, CodeDurationPositive,
		CodeDurationMinRequired, CodeDurationMaxExceeded:
		return "duration_years"
	case CodeInterestRateFormat, CodeInterestRateNegative, CodeInterestRateMaxExceeded:
		return "interest_rate"
	case CodeFrequencyUnsupported:
		return "compounding_frequency"
	default:
		return "input"
	}
}

// ValidationResult is either Valid or Invalid(code, message).
// An Invalid result always carries a code and a non-empty message; Valid
// carries neither. The zero value is Valid.
type ValidationResult struct {
	code    ValidationCode
	message string
}

// Valid returns the passing result.
func Valid() ValidationResult {
	return ValidationResult{}
}

// Invalid returns a failing result. An empty code becomes CodeInvalidInput and
// an empty message is replaced by the code.
func Invalid(code ValidationCode, message string) ValidationResult {
	if code == "" {
		code = CodeInvalidInput
	}
	if message == "" {
		message = string(code)
	}
	return ValidationResult{code: code, message: message}
}

// IsValid reports whether validation passed.
func (r ValidationResult) IsValid() bool { return r.code == "" }

// Code returns the failing rule, or "" for a valid result.
func (r ValidationResult) Code() ValidationCode { return r.code }

// Message returns the human-readable reason, or "" for a valid result.
func (r ValidationResult) Message() string { return r.message }

// Field returns the field the failure belongs to, or "" for a valid result.
func (r ValidationResult) Field() string {
	if r.IsValid() {
		return ""
	}
	return r.code.Field()
}

package errs

// Severity drives how a surfaced error is presented: critical errors get a
// full-screen fallback, non-critical ones an inline display, recoverable ones
// a retry offer.
type Severity string

const (
	SeverityCritical    Severity = "critical"
	SeverityNonCritical Severity = "non_critical"
	SeverityRecoverable Severity = "recoverable"
)

var criticalCodes = map[string]bool{
	CodeDatabaseRead:     true,
	CodeDatabaseNotFound: true,
	CodeAuthTokenInvalid: true,
}

var recoverableCodes = map[string]bool{
	CodeDatabaseWrite:      true,
	CodeStorageUpload:      true,
	CodeStorageDelete:      true,
	CodeNetworkUnavailable: true,
	CodeLocationFailed:     true,
	CodePortalLinkFailed:   true,
	CodeAuthRateLimited:    true,
}

// Classify maps an error to a presentation severity. Unknown errors default
// to non-critical, non-recoverable.
func Classify(err error) Severity {
	e, ok := err.(*Error)
	if !ok {
		return SeverityNonCritical
	}
	switch {
	case criticalCodes[e.Code]:
		return SeverityCritical
	case recoverableCodes[e.Code]:
		return SeverityRecoverable
	default:
		return SeverityNonCritical
	}
}

package domain

import "net/http"

// FailureCode is the machine-readable code of an authentication or
// authorization failure.
type FailureCode string

const (
	CodeMissingToken        FailureCode = "MISSING_TOKEN"
	CodeMalformedToken      FailureCode = "MALFORMED_TOKEN"
	CodeExpiredToken        FailureCode = "EXPIRED_TOKEN"
	CodeInvalidSignature    FailureCode = "INVALID_SIGNATURE"
	CodeBadCredentials      FailureCode = "BAD_CREDENTIALS"
	CodeUnsupportedProvider FailureCode = "UNSUPPORTED_PROVIDER"
	CodeInsufficientRole    FailureCode = "INSUFFICIENT_ROLE"
	CodeNoMatchingRule      FailureCode = "NO_MATCHING_RULE"
)

// AuthFailure is a terminal request failure from the authentication pipeline.
// Each variant carries its own status and user-facing message as data; the
// message never distinguishes internally-logged subtypes (e.g. unknown account
// vs wrong password).
type AuthFailure struct {
	Code    FailureCode
	Status  int
	Message string
}

func (f *AuthFailure) Error() string { return f.Message }

// Predeclared failure variants. All token and credential failures are 401;
// role failures are 403.
var (
	FailMissingToken = &AuthFailure{
		Code: CodeMissingToken, Status: http.StatusUnauthorized,
		Message: "authorization token is missing",
	}
	FailMalformedToken = &AuthFailure{
		Code: CodeMalformedToken, Status: http.StatusUnauthorized,
		Message: "authorization token is malformed",
	}
	FailExpiredToken = &AuthFailure{
		Code: CodeExpiredToken, Status: http.StatusUnauthorized,
		Message: "authorization token has expired",
	}
	FailInvalidSignature = &AuthFailure{
		Code: CodeInvalidSignature, Status: http.StatusUnauthorized,
		Message: "authorization token signature is invalid",
	}
	FailBadCredentials = &AuthFailure{
		Code: CodeBadCredentials, Status: http.StatusUnauthorized,
		Message: "invalid login name or password",
	}
	FailUnsupportedProvider = &AuthFailure{
		Code: CodeUnsupportedProvider, Status: http.StatusUnauthorized,
		Message: "unsupported identity provider",
	}
	FailInsufficientRole = &AuthFailure{
		Code: CodeInsufficientRole, Status: http.StatusForbidden,
		Message: "insufficient role for this resource",
	}
	FailNoMatchingRule = &AuthFailure{
		Code: CodeNoMatchingRule, Status: http.StatusUnauthorized,
		Message: "no authorization rule matches this request",
	}
)

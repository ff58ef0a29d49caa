package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to display messages.

const (
	// Session (SESSION_)
	SessionRequired     = "SESSION_REQUIRED"      // join the group first
	SessionTokenExpired = "SESSION_TOKEN_EXPIRED" // token expired
	SessionTokenInvalid = "SESSION_TOKEN_INVALID" // malformed or forged token
	SessionTokenRevoked = "SESSION_TOKEN_REVOKED" // token revoked by leave
	SessionBadGroupCode = "SESSION_BAD_GROUP_CODE" // wrong shared code

	// Authorization (AUTHZ_)
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // not owner nor admin
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // admin-only operation

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // rating outside 0..10
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Voting (VOTE_)
	VoteAlreadyCast = "VOTE_ALREADY_CAST" // already voted for this cottage
	VoteElsewhere   = "VOTE_ELSEWHERE"    // active vote on another cottage
	VoteNotFound    = "VOTE_NOT_FOUND"

	// Upload (UPLOAD_)
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"
	UploadNotConfigured   = "UPLOAD_NOT_CONFIGURED"

	// Summary (SUMMARY_)
	SummaryNotConfigured = "SUMMARY_NOT_CONFIGURED" // no API key set
	SummaryNoComments    = "SUMMARY_NO_COMMENTS"    // nothing to summarize

	// Internal (INTERNAL_)
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)

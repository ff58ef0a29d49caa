package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
// The message check covers both postgres (23505) and sqlite wording.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "constraint failed")
}

// ErrorInfo pairs an error code with a message suitable for the client.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a repository error into a client-safe code and
// message. Context is a short hint like "cottage" or "comment" used to
// phrase the message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if IsNotFound(err) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return duplicateKeyInfo(err)
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable, please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong, please try again shortly",
	}
}

// ParseAndRespond parses the error and writes the response in one
// step, for controller branches with no more specific mapping.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, statusCode, info.Code, info.Message)
}

func duplicateKeyInfo(err error) ErrorInfo {
	s := strings.ToLower(err.Error())

	if strings.Contains(s, "votes") && strings.Contains(s, "user_name") {
		return ErrorInfo{
			Code:    VoteElsewhere,
			Message: "You have already voted",
		}
	}
	if strings.Contains(s, "idx_cottage_user_rating") || strings.Contains(s, "ratings") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "You have already rated this cottage",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "That already exists",
	}
}

func notFoundMessage(context string) string {
	switch strings.ToLower(context) {
	case "cottage":
		return "Cottage not found"
	case "comment":
		return "Comment not found"
	case "vote":
		return "Vote not found"
	case "rating":
		return "Rating not found"
	default:
		return "Requested resource not found"
	}
}

package errors

import (
	"net/http"
	"strings"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case strings.Contains(technicalMessage, "property not found"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgPropertyNotFound,
			Code:             ErrCodePropertyNotFound,
			HTTPStatus:       http.StatusNotFound,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "store operation"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgServiceUnavailable,
			Code:             ErrCodeStoreFailure,
			HTTPStatus:       http.StatusServiceUnavailable,
			OriginalError:    err,
		}
	default:
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInternalError,
			Code:             ErrCodeInternal,
			HTTPStatus:       http.StatusInternalServerError,
			OriginalError:    err,
		}
	}
}

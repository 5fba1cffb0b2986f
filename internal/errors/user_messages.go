package errors

// User-friendly error messages
const (
	MsgPropertyNotFound   = "Property not found."
	MsgUnauthorized       = "You do not have permission to modify this property."
	MsgServiceUnavailable = "We're unable to process your request right now. Please try again in a few minutes."
	MsgRateLimited        = "You're making requests too quickly! Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)

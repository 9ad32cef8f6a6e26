package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeAuthFailed         Code = "AUTH_FAILED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeFetchFailed        Code = "FETCH_FAILED"
	CodeWriteFailed        Code = "WRITE_FAILED"
	CodeChannelUnavailable Code = "CHANNEL_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Surface says where a failure is reported to the person using the view.
type Surface string

const (
	SurfaceLoginForm Surface = "login_form"
	SurfaceBanner    Surface = "banner"
	SurfaceAlert     Surface = "alert"
	SurfaceSilent    Surface = "silent"
)

type Metadata struct {
	Surface        Surface
	Retryable      bool
	UserMessage    string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeAuthFailed: {
		Surface:        SurfaceLoginForm,
		Retryable:      false,
		UserMessage:    "login failed",
		DetailsAllowed: false,
	},
	CodeForbidden: {
		Surface:        SurfaceLoginForm,
		Retryable:      false,
		UserMessage:    "account not permitted for this view",
		DetailsAllowed: false,
	},
	CodeInvalidInput: {
		Surface:        SurfaceAlert,
		Retryable:      false,
		UserMessage:    "validation failed",
		DetailsAllowed: true,
	},
	CodeFetchFailed: {
		Surface:        SurfaceBanner,
		Retryable:      true,
		UserMessage:    "failed to load data",
		DetailsAllowed: false,
	},
	CodeWriteFailed: {
		Surface:        SurfaceAlert,
		Retryable:      true,
		UserMessage:    "action failed",
		DetailsAllowed: false,
	},
	CodeChannelUnavailable: {
		Surface:        SurfaceSilent,
		Retryable:      true,
		UserMessage:    "connection error",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Surface:        SurfaceBanner,
		Retryable:      true,
		UserMessage:    "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf extracts the taxonomy code from any error chain.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		surface   Surface
		userMsg   string
		retryable bool
		detailsOK bool
	}{
		{code: CodeAuthFailed, surface: SurfaceLoginForm, userMsg: "login failed"},
		{code: CodeForbidden, surface: SurfaceLoginForm, userMsg: "account not permitted for this view"},
		{code: CodeInvalidInput, surface: SurfaceAlert, userMsg: "validation failed", detailsOK: true},
		{code: CodeFetchFailed, surface: SurfaceBanner, userMsg: "failed to load data", retryable: true},
		{code: CodeWriteFailed, surface: SurfaceAlert, userMsg: "action failed", retryable: true},
		{code: CodeChannelUnavailable, surface: SurfaceSilent, userMsg: "connection error", retryable: true},
		{code: CodeInternal, surface: SurfaceBanner, userMsg: "internal error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.Surface != tt.surface {
			t.Fatalf("code %s expected surface %q got %q", tt.code, tt.surface, meta.Surface)
		}
		if meta.UserMessage != tt.userMsg {
			t.Fatalf("code %s expected user message %q got %q", tt.code, tt.userMsg, meta.UserMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.Surface != SurfaceBanner {
		t.Fatalf("expected internal surface, got %q", meta.Surface)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeInvalidInput, "missing name")
	if base.Code() != CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "name"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeFetchFailed, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeFetchFailed {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(New(CodeWriteFailed, "x")) != CodeWriteFailed {
		t.Fatalf("CodeOf lost the code")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("plain errors should map to internal")
	}
}

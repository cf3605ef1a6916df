package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got := MetadataFor(tt.code)
			if got.HTTPStatus != tt.status {
				t.Fatalf("expected status %d got %d", tt.status, got.HTTPStatus)
			}
			if got.PublicMessage != tt.publicMsg {
				t.Fatalf("expected public message %q got %q", tt.publicMsg, got.PublicMessage)
			}
			if got.Retryable != tt.retryable {
				t.Fatalf("expected retryable %v got %v", tt.retryable, got.Retryable)
			}
			if got.DetailsAllowed != tt.detailsOK {
				t.Fatalf("expected details allowed %v got %v", tt.detailsOK, got.DetailsAllowed)
			}
		})
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	got := MetadataFor("SOMETHING_UNKNOWN")
	if got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", got.HTTPStatus)
	}
}

func TestNewCarriesCodeMessageAndDetails(t *testing.T) {
	err := New(CodeValidation, "missing variant id")
	if err.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", err.Code())
	}
	if err.Message() != "missing variant id" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Details() != nil {
		t.Fatal("details should be nil by default")
	}

	err.WithDetails(map[string]any{"field": "variant_id"})
	if err.Details() == nil {
		t.Fatal("details should be preserved")
	}
	if err.Error() != fmt.Sprintf("%s: %s", CodeValidation, "missing variant id") {
		t.Fatalf("unexpected Error() %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "replacing cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}

	// A nil cause degrades to a plain coded error.
	if Wrap(CodeConflict, nil, "no cause").Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
}

func TestAsFindsCodedErrorInChain(t *testing.T) {
	inner := New(CodeForbidden, "no entry")
	chained := fmt.Errorf("outer: %w", inner)
	if got := As(chained); got == nil || got.Code() != CodeForbidden {
		t.Fatal("As failed to find coded error in chain")
	}
	if As(nil) != nil {
		t.Fatal("As(nil) should return nil")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("As should return nil for uncoded errors")
	}
}

package errors

import (
	"fmt"
	"testing"
)

func TestLecternError_Error(t *testing.T) {
	err := &LecternError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "run not found",
	}

	expected := "NOT_FOUND: run not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("path is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "path is required" {
		t.Errorf("Message = %q, want %q", err.Message, "path is required")
	}
}

func TestNewMissingCredential(t *testing.T) {
	err := NewMissingCredential("GOOGLE_API_KEY")

	if err.Code != ErrMissingCredential {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingCredential)
	}
	if err.Status != 401 {
		t.Errorf("Status = %d, want 401", err.Status)
	}
	if err.Details["key_name"] != "GOOGLE_API_KEY" {
		t.Errorf("Details[key_name] = %v, want %q", err.Details["key_name"], "GOOGLE_API_KEY")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HZX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01HZX" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HZX")
	}
}

func TestNewDeckTooLarge(t *testing.T) {
	err := NewDeckTooLarge(500, 612)

	if err.Code != ErrDeckTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrDeckTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_slides"] != 500 {
		t.Errorf("Details[max_slides] = %v, want 500", err.Details["max_slides"])
	}
	if err.Details["actual_slides"] != 612 {
		t.Errorf("Details[actual_slides] = %v, want 612", err.Details["actual_slides"])
	}
}

func TestNewBackendUnavailable(t *testing.T) {
	err := NewBackendUnavailable("unknown backend \"bard\"")

	if err.Code != ErrBackendUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrBackendUnavailable)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("narrate")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "narrate cancelled" {
		t.Errorf("Message = %q, want %q", err.Message, "narrate cancelled")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrInvalidRequest) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for plain error")
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("decks[1]: %w", NewFileNotFound("b.md"))
		if !Is(wrapped, ErrFileNotFound) {
			t.Error("Is() = false, want true for wrapped LecternError")
		}
		lErr, ok := As(wrapped)
		if !ok || lErr.Details["path"] != "b.md" {
			t.Errorf("As() = %v, %v", lErr, ok)
		}
	})
}

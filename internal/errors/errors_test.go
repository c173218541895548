package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWorkspaceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *WorkspaceError
		want string
	}{
		{
			name: "op only",
			err:  NewWorkspaceError("save", "", nil),
			want: "save",
		},
		{
			name: "op and key",
			err:  NewWorkspaceError("save", "classdesk.tabs.order", nil),
			want: `save "classdesk.tabs.order"`,
		},
		{
			name: "op key and cause",
			err:  NewWorkspaceError("restore", "classdesk.tabs.order", ErrCorruptState),
			want: `restore "classdesk.tabs.order": workspace state corrupted`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkspaceError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewWorkspaceError("save", "k", cause)
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestInvalidKey(t *testing.T) {
	err := InvalidKey("classroom//x", "empty segment")
	if !IsInvalidKey(err) {
		t.Fatalf("IsInvalidKey(%v) = false, want true", err)
	}
	var wsErr *WorkspaceError
	if !As(err, &wsErr) {
		t.Fatal("expected a *WorkspaceError")
	}
	if wsErr.Op != "parse" || wsErr.Key != "classroom//x" {
		t.Errorf("unexpected fields: op=%q key=%q", wsErr.Op, wsErr.Key)
	}
}

func TestCorruptState(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		err := CorruptState("classdesk.tabs.order", fmt.Errorf("unexpected EOF"))
		if !IsCorrupt(err) {
			t.Errorf("IsCorrupt(%v) = false, want true", err)
		}
	})

	t.Run("without cause", func(t *testing.T) {
		err := CorruptState("classdesk.tabs.order", nil)
		if !IsCorrupt(err) {
			t.Errorf("IsCorrupt(%v) = false, want true", err)
		}
	})
}

func TestClassification_Negative(t *testing.T) {
	err := fmt.Errorf("unrelated")
	if IsCorrupt(err) || IsNotFound(err) || IsInvalidKey(err) {
		t.Error("unrelated errors should not be classified")
	}
	if !IsNotFound(fmt.Errorf("load: %w", ErrNotFound)) {
		t.Error("wrapped ErrNotFound should be classified as not found")
	}
}

package core

import (
	"errors"
	"testing"
)

func TestRequireAuthor(t *testing.T) {
	if err := RequireAuthor(7, 7); err != nil {
		t.Errorf("author acting on own entity: got %v, want nil", err)
	}

	err := RequireAuthor(7, 8)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("different actor: got %v, want ErrForbidden", err)
	}
}

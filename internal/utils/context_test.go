package utils

import (
	"context"
	"testing"
)

func TestSessionContext(t *testing.T) {
	ctx, data := SessionContext(context.Background())
	data.ID = "s1"
	ctx2, data2 := SessionContext(ctx)
	if ctx2 != ctx {
		t.Errorf("SessionContext() created new context")
	}
	if data2 != data {
		t.Errorf("SessionContext() = %v, want %v", data2, data)
	}
	if got := SessionID(ctx); got != "s1" {
		t.Errorf("SessionID() = %q, want %q", got, "s1")
	}
	if got := SessionID(context.Background()); got != "" {
		t.Errorf("SessionID() = %q, want empty", got)
	}
}

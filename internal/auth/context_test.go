package auth

import (
	"context"
	"testing"

	"github.com/piadas/piadas/internal/model"
)

func TestContextWithAuth(t *testing.T) {
	t.Parallel()

	ctx := ContextWithAuth(context.Background(), &model.AuthContext{Subject: "ana@x.com", Name: "Ana"})

	if got := SubjectFromContext(ctx); got != "ana@x.com" {
		t.Errorf("SubjectFromContext = %q, want ana@x.com", got)
	}
	if got := MustAuthFromContext(ctx).Name; got != "Ana" {
		t.Errorf("Name = %q, want Ana", got)
	}
}

func TestAuthFromContext_Missing(t *testing.T) {
	t.Parallel()

	if AuthFromContext(context.Background()) != nil {
		t.Error("expected nil auth context")
	}
	if SubjectFromContext(context.Background()) != "" {
		t.Error("expected empty subject")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustAuthFromContext to panic")
		}
	}()
	MustAuthFromContext(context.Background())
}

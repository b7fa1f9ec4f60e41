package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/tutorchat/tutorchat/types"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	r := NewRegistry()

	var order []string
	r.OnBeforeSend(func(ctx context.Context, profile types.UserProfile, input string) error {
		order = append(order, "first")
		return nil
	})
	r.OnBeforeSend(func(ctx context.Context, profile types.UserProfile, input string) error {
		order = append(order, "second")
		return nil
	})

	if err := r.RunBeforeSend(context.Background(), types.UserProfile{}, "hi"); err != nil {
		t.Fatalf("RunBeforeSend failed: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("execution order = %v", order)
	}
}

func TestFirstErrorAbortsChain(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")

	var reached bool
	r.OnAfterReply(func(ctx context.Context, turn *types.Turn) error {
		return boom
	})
	r.OnAfterReply(func(ctx context.Context, turn *types.Turn) error {
		reached = true
		return nil
	})

	turn := types.NewTurn(types.RoleAssistant, "hello")
	if err := r.RunAfterReply(context.Background(), turn); !errors.Is(err, boom) {
		t.Errorf("RunAfterReply err = %v, want boom", err)
	}
	if reached {
		t.Error("chain continued past the failing hook")
	}
}

func TestHooksReceiveArguments(t *testing.T) {
	r := NewRegistry()

	var gotInput string
	var gotProfile types.UserProfile
	r.OnBeforeSend(func(ctx context.Context, profile types.UserProfile, input string) error {
		gotProfile = profile
		gotInput = input
		return nil
	})

	var gotTurn *types.Turn
	r.OnAfterValidation(func(ctx context.Context, turn *types.Turn) error {
		gotTurn = turn
		return nil
	})

	profile := types.UserProfile{DisplayName: "Sam", Subject: "Mathematics"}
	if err := r.RunBeforeSend(context.Background(), profile, "question"); err != nil {
		t.Fatalf("RunBeforeSend failed: %v", err)
	}
	if gotProfile != profile || gotInput != "question" {
		t.Errorf("hook saw (%+v, %q)", gotProfile, gotInput)
	}

	turn := types.NewTurn(types.RoleAssistant, "answer")
	if err := r.RunAfterValidation(context.Background(), turn); err != nil {
		t.Fatalf("RunAfterValidation failed: %v", err)
	}
	if gotTurn != turn {
		t.Error("after-validation hook saw a different turn")
	}
}

func TestEmptyRegistryIsANoOp(t *testing.T) {
	r := NewRegistry()
	if err := r.RunBeforeSend(context.Background(), types.UserProfile{}, "hi"); err != nil {
		t.Errorf("RunBeforeSend = %v", err)
	}
	if err := r.RunAfterReply(context.Background(), nil); err != nil {
		t.Errorf("RunAfterReply = %v", err)
	}
	if err := r.RunAfterValidation(context.Background(), nil); err != nil {
		t.Errorf("RunAfterValidation = %v", err)
	}
}

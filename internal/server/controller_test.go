package server_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"gamedock/internal/adapter/fake"
	"gamedock/internal/server"
)

func testSpec() server.LaunchSpec {
	return server.LaunchSpec{
		Name:  "game-server",
		Image: "example/server:1",
		Port:  30000,
		Cmd:   []string{"--server"},
	}
}

func TestEnsureRunning_FromAbsent(t *testing.T) {
	rt := fake.NewRuntime()
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}

	spec, running, ok := rt.Instance("game-server")
	if !ok || !running {
		t.Fatalf("instance ok=%v running=%v, want created and running", ok, running)
	}
	if spec.Port != 30000 || spec.Image != "example/server:1" {
		t.Fatalf("instance spec = %+v, want launch spec", spec)
	}
	if !slices.Equal(rt.Methods(), []string{"List", "CreateAndStart"}) {
		t.Fatalf("calls = %v, want [List CreateAndStart]", rt.Methods())
	}
}

func TestEnsureRunning_FromStopped_Recreates(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), false)
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}

	_, running, ok := rt.Instance("game-server")
	if !ok || !running {
		t.Fatalf("instance ok=%v running=%v, want running", ok, running)
	}
	if !slices.Equal(rt.Methods(), []string{"List", "ForceRemove", "CreateAndStart"}) {
		t.Fatalf("calls = %v, want [List ForceRemove CreateAndStart]", rt.Methods())
	}
}

func TestEnsureRunning_FromStopped_RemovalFailureNotFatal(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), false)
	rt.ForceRemoveErr = errors.New("device busy")
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}
	// Creation is still attempted after the failed removal.
	if !slices.Equal(rt.Methods(), []string{"List", "ForceRemove", "CreateAndStart"}) {
		t.Fatalf("calls = %v, want [List ForceRemove CreateAndStart]", rt.Methods())
	}
}

func TestEnsureRunning_FromRunning_RestartsInPlace(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), true)
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}

	if !slices.Equal(rt.Methods(), []string{"List", "Restart"}) {
		t.Fatalf("calls = %v, want [List Restart]", rt.Methods())
	}
	if _, running, _ := rt.Instance("game-server"); !running {
		t.Fatal("instance should still be running")
	}
}

func TestStop_RemovesInstance(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), true)
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, _, ok := rt.Instance("game-server"); ok {
		t.Fatal("instance should be removed")
	}
}

func TestStop_AbsentIsNoOp(t *testing.T) {
	rt := fake.NewRuntime()
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !slices.Equal(rt.Methods(), []string{"List"}) {
		t.Fatalf("calls = %v, want [List]", rt.Methods())
	}
}

func TestStop_RemovalFailureSwallowed(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), true)
	rt.ForceRemoveErr = errors.New("device busy")
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.Stop(context.Background()); err != nil {
		t.Fatalf("Stop should swallow removal failure, got %v", err)
	}
}

func TestRestart_AbsentBringsUp(t *testing.T) {
	rt := fake.NewRuntime()
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if _, running, ok := rt.Instance("game-server"); !ok || !running {
		t.Fatal("instance should be created and running")
	}
	if len(rt.Calls("CreateAndStart")) != 1 {
		t.Fatalf("calls = %v, want a CreateAndStart", rt.Methods())
	}
}

func TestRestart_ExistingRestartsInPlace(t *testing.T) {
	rt := fake.NewRuntime()
	rt.SetInstance(testSpec(), true)
	ctrl := server.NewController(rt, testSpec())

	if err := ctrl.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !slices.Equal(rt.Methods(), []string{"List", "Restart"}) {
		t.Fatalf("calls = %v, want [List Restart]", rt.Methods())
	}
}

func TestDestroy_RemovesUnconditionally(t *testing.T) {
	rt := fake.NewRuntime()
	ctrl := server.NewController(rt, testSpec())

	// Absent instance: removal is still issued and NotFound-safe.
	if err := ctrl.Destroy(context.Background()); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if len(rt.Calls("ForceRemove")) != 1 {
		t.Fatalf("calls = %v, want a ForceRemove", rt.Methods())
	}
}

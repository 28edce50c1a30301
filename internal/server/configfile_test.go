package server_test

import (
	"context"
	"strings"
	"testing"

	"gamedock/internal/adapter/fake"
	"gamedock/internal/server"
)

func TestConfigEnsure_ContentTravelsInEnv(t *testing.T) {
	rt := fake.NewRuntime()
	cw := server.NewConfigWriter(rt, "worker:latest", "config", "port = 30000\n")

	if err := cw.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	job := rt.Calls("RunEphemeral")[0].Args[0].(server.EphemeralJob)
	if kind := jobKind(job); kind != "config" {
		t.Fatalf("job kind = %s, want config", kind)
	}

	found := false
	for _, e := range job.Env {
		if strings.HasSuffix(e, "=port = 30000\n") {
			found = true
		}
	}
	if !found {
		t.Fatalf("default content not passed via env, env = %v", job.Env)
	}
	// The script must not contain the content itself; user config may
	// hold shell metacharacters.
	if strings.Contains(job.Cmd[len(job.Cmd)-1], "port = 30000") {
		t.Fatal("default content leaked into the shell script")
	}
}

func TestConfigEnsure_SameGuardedCommandEveryCall(t *testing.T) {
	rt := fake.NewRuntime()
	cw := server.NewConfigWriter(rt, "worker:latest", "config", "a = 1\n")

	for i := 0; i < 2; i++ {
		if err := cw.Ensure(context.Background()); err != nil {
			t.Fatalf("Ensure call %d: %v", i+1, err)
		}
	}

	calls := rt.Calls("RunEphemeral")
	first := calls[0].Args[0].(server.EphemeralJob)
	second := calls[1].Args[0].(server.EphemeralJob)
	// Idempotence lives in the guarded script: both calls issue the
	// identical existence-checked write.
	if strings.Join(first.Cmd, " ") != strings.Join(second.Cmd, " ") {
		t.Fatalf("commands differ between calls:\n%v\n%v", first.Cmd, second.Cmd)
	}
}

func TestConfigEnsure_WorkerFailure(t *testing.T) {
	rt := fake.NewRuntime()
	rt.EphemeralExit = func(server.EphemeralJob) int { return 1 }
	cw := server.NewConfigWriter(rt, "worker:latest", "config", "a = 1\n")

	if err := cw.Ensure(context.Background()); err == nil {
		t.Fatal("Ensure should fail when the worker exits nonzero")
	}
}

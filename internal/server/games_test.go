package server_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"gamedock/internal/adapter/fake"
	"gamedock/internal/server"
)

// jobKind classifies ephemeral jobs by their mount shape, which is
// unique per operation.
func jobKind(job server.EphemeralJob) string {
	switch len(job.Mounts) {
	case 2:
		return "install"
	case 1:
		m := job.Mounts[0]
		switch {
		case m.Target == "/cache":
			return "fetch"
		case m.Target == "/data" && m.ReadOnly:
			return "probe"
		case m.Target == "/data":
			return "world"
		case m.Target == "/config":
			return "config"
		}
	}
	return "unknown"
}

func jobKinds(rt *fake.Runtime) []string {
	var out []string
	for _, c := range rt.Calls("RunEphemeral") {
		out = append(out, jobKind(c.Args[0].(server.EphemeralJob)))
	}
	return out
}

// exitByKind returns an EphemeralExit hook driven by job kind.
func exitByKind(codes map[string]int) func(server.EphemeralJob) int {
	return func(job server.EphemeralJob) int {
		return codes[jobKind(job)]
	}
}

func newStager(rt *fake.Runtime) *server.GameStager {
	return server.NewGameStager(rt, "worker:latest", "cache", "data")
}

func TestStage_FetchThenInstall(t *testing.T) {
	rt := fake.NewRuntime()
	st := newStager(rt)

	if err := st.Stage(context.Background(), "basegame", "https://example.com/basegame.tar.gz"); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	if !slices.Equal(jobKinds(rt), []string{"fetch", "install"}) {
		t.Fatalf("jobs = %v, want [fetch install]", jobKinds(rt))
	}

	install := rt.Calls("RunEphemeral")[1].Args[0].(server.EphemeralJob)
	if !install.Mounts[0].ReadOnly {
		t.Fatal("install should mount the cache volume read-only")
	}
	if install.Mounts[1].ReadOnly {
		t.Fatal("install needs the data volume writable")
	}
}

func TestStage_DownloadFailure(t *testing.T) {
	rt := fake.NewRuntime()
	rt.EphemeralExit = exitByKind(map[string]int{"fetch": 10})
	st := newStager(rt)

	err := st.Stage(context.Background(), "basegame", "https://example.com/basegame.tar.gz")
	if !errors.Is(err, server.ErrDownloadFailed) {
		t.Fatalf("Stage error = %v, want ErrDownloadFailed", err)
	}
	// Fail fast: no install attempt after a failed fetch.
	if !slices.Equal(jobKinds(rt), []string{"fetch"}) {
		t.Fatalf("jobs = %v, want [fetch]", jobKinds(rt))
	}
}

func TestStage_ArchiveLayoutFailure(t *testing.T) {
	rt := fake.NewRuntime()
	rt.EphemeralExit = exitByKind(map[string]int{"fetch": 12})
	st := newStager(rt)

	err := st.Stage(context.Background(), "basegame", "https://example.com/basegame.tar.gz")
	if !errors.Is(err, server.ErrArchiveLayout) {
		t.Fatalf("Stage error = %v, want ErrArchiveLayout", err)
	}
}

func TestStage_DescriptorMissingAfterFetch(t *testing.T) {
	rt := fake.NewRuntime()
	rt.EphemeralExit = exitByKind(map[string]int{"fetch": 13})
	st := newStager(rt)

	err := st.Stage(context.Background(), "basegame", "https://example.com/basegame.tar.gz")
	if !errors.Is(err, server.ErrDescriptorMissing) {
		t.Fatalf("Stage error = %v, want ErrDescriptorMissing", err)
	}
	// The operational copy is never touched when the fetch fails.
	if !slices.Equal(jobKinds(rt), []string{"fetch"}) {
		t.Fatalf("jobs = %v, want [fetch]", jobKinds(rt))
	}
}

func TestStage_DescriptorMissingAfterInstall(t *testing.T) {
	rt := fake.NewRuntime()
	rt.EphemeralExit = exitByKind(map[string]int{"install": 13})
	st := newStager(rt)

	err := st.Stage(context.Background(), "basegame", "https://example.com/basegame.tar.gz")
	if !errors.Is(err, server.ErrDescriptorMissing) {
		t.Fatalf("Stage error = %v, want ErrDescriptorMissing", err)
	}
}

func TestStage_RuntimeFailurePropagates(t *testing.T) {
	rt := fake.NewRuntime()
	rt.RunEphemeralErr = errors.New("daemon unreachable")
	st := newStager(rt)

	if err := st.Stage(context.Background(), "basegame", "https://example.com/x.tar.gz"); err == nil {
		t.Fatal("Stage should propagate runtime errors")
	}
}

func TestIsStaged(t *testing.T) {
	for _, tc := range []struct {
		name string
		exit int
		want bool
	}{
		{"descriptor present", 0, true},
		{"descriptor missing", 1, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rt := fake.NewRuntime()
			rt.EphemeralExit = func(server.EphemeralJob) int { return tc.exit }
			st := newStager(rt)

			got, err := st.IsStaged(context.Background(), "basegame")
			if err != nil {
				t.Fatalf("IsStaged: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsStaged = %v, want %v", got, tc.want)
			}

			job := rt.Calls("RunEphemeral")[0].Args[0].(server.EphemeralJob)
			if kind := jobKind(job); kind != "probe" {
				t.Fatalf("job kind = %s, want probe", kind)
			}
		})
	}
}

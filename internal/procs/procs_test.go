package procs

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func stubSnapshot(t *testing.T, infos []procInfo) {
	t.Helper()
	prev := snapshot
	snapshot = func() ([]procInfo, error) { return infos, nil }
	t.Cleanup(func() { snapshot = prev })
}

func stubTerminate(t *testing.T, fn func(int32) error) {
	t.Helper()
	prev := terminate
	terminate = fn
	t.Cleanup(func() { terminate = prev })
}

func TestFindByNameMatchesSubstring(t *testing.T) {
	stubSnapshot(t, []procInfo{
		{pid: 10, name: "HubstaffClient.bin.x86_64"},
		{pid: 11, name: "bash"},
		{pid: 12, name: "HubstaffClient.bin.x86_64"},
	})

	pids, err := FindByName("HubstaffClient")
	if err != nil {
		t.Fatalf("FindByName returned error: %v", err)
	}
	if len(pids) != 2 || pids[0] != 10 || pids[1] != 12 {
		t.Fatalf("unexpected pids: %v", pids)
	}
}

func TestFindByNameRequiresName(t *testing.T) {
	if _, err := FindByName("  "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestKillByNameSignalsEveryMatch(t *testing.T) {
	stubSnapshot(t, []procInfo{
		{pid: 20, name: "firefox-bin"},
		{pid: 21, name: "firefox-bin"},
	})
	var signalled []int32
	stubTerminate(t, func(pid int32) error {
		signalled = append(signalled, pid)
		return nil
	})

	killed, err := KillByName("firefox")
	if err != nil {
		t.Fatalf("KillByName returned error: %v", err)
	}
	if killed != 2 || len(signalled) != 2 {
		t.Fatalf("expected 2 kills, got %d (%v)", killed, signalled)
	}
}

func TestKillByNameIgnoresAlreadyExited(t *testing.T) {
	stubSnapshot(t, []procInfo{{pid: 30, name: "HubstaffClient.bin.x86_64"}})
	stubTerminate(t, func(int32) error { return unix.ESRCH })

	killed, err := KillByName("HubstaffClient")
	if err != nil {
		t.Fatalf("KillByName returned error: %v", err)
	}
	if killed != 0 {
		t.Fatalf("expected 0 kills, got %d", killed)
	}
}

func TestKillByNamePropagatesSignalFailure(t *testing.T) {
	stubSnapshot(t, []procInfo{{pid: 40, name: "HubstaffClient.bin.x86_64"}})
	stubTerminate(t, func(int32) error { return errors.New("permission denied") })

	if _, err := KillByName("HubstaffClient"); err == nil {
		t.Fatal("expected error when the signal fails")
	}
}

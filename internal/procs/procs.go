package procs

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

type procInfo struct {
	pid  int32
	name string
}

// Seams for tests; production code always goes through gopsutil and kill(2).
var (
	snapshot = func() ([]procInfo, error) {
		procs, err := process.Processes()
		if err != nil {
			return nil, fmt.Errorf("list processes: %w", err)
		}
		infos := make([]procInfo, 0, len(procs))
		for _, p := range procs {
			name, err := p.Name()
			if err != nil {
				// Processes can exit between enumeration and inspection.
				continue
			}
			infos = append(infos, procInfo{pid: p.Pid, name: name})
		}
		return infos, nil
	}
	terminate = func(pid int32) error {
		return unix.Kill(int(pid), unix.SIGKILL)
	}
)

// FindByName returns the PIDs of processes whose name contains name.
func FindByName(name string) ([]int32, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("process name required")
	}
	infos, err := snapshot()
	if err != nil {
		return nil, err
	}
	var pids []int32
	for _, info := range infos {
		if strings.Contains(info.name, name) {
			pids = append(pids, info.pid)
		}
	}
	return pids, nil
}

// KillByName terminates every process whose name contains name and returns
// how many were signalled. Already-exited processes are not an error.
func KillByName(name string) (int, error) {
	pids, err := FindByName(name)
	if err != nil {
		return 0, err
	}
	killed := 0
	for _, pid := range pids {
		if err := terminate(pid); err != nil {
			if err == unix.ESRCH {
				continue
			}
			return killed, fmt.Errorf("kill pid %d: %w", pid, err)
		}
		killed++
	}
	return killed, nil
}

// LaunchDetached starts binary with args and releases the process so it
// outlives the caller. Output is discarded, matching a fire-and-forget
// launch of a GUI client.
func LaunchDetached(binary string, args ...string) error {
	if strings.TrimSpace(binary) == "" {
		return fmt.Errorf("binary name required")
	}
	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", binary, err)
	}
	return cmd.Process.Release()
}

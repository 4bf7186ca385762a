package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pacer/internal/daemonctl"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Control the pacer daemon",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Launch the pacer daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if status, err := daemonctl.Status(ctx.socketPath()); err == nil && status.Running {
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			if err := daemonctl.Launch(exe, launchOptions(ctx)); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")

			client, err := daemonctl.WaitForClient(ctx.socketPath(), 10*time.Second)
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return err
			}
			if !status.Running {
				return fmt.Errorf("daemon launched but reports not running")
			}
			fmt.Fprintf(stdout, "Daemon started (pid %d)\n", status.PID)
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the pacer daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			pid, err := daemonctl.Stop(ctx.socketPath(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if pid > 0 {
				fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", pid)
			} else {
				fmt.Fprintln(stdout, "Daemon stopped")
			}
			return nil
		},
	}

	daemonCmd.AddCommand(startCmd)
	daemonCmd.AddCommand(stopCmd)
	return daemonCmd
}

// daemonExecutable resolves the pacerd binary, preferring a sibling of the
// CLI binary over PATH lookup.
func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "pacerd")
		if info, statErr := os.Stat(sibling); statErr == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	path, lookErr := exec.LookPath("pacerd")
	if lookErr != nil {
		return "", fmt.Errorf("locate pacerd binary: %w", lookErr)
	}
	return path, nil
}

func launchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}

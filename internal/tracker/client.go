package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"pacer/internal/clockfmt"
)

// ErrNotConnected reports that the tracker CLI could not reach the client
// process. It is a transient condition the Supervisor absorbs by
// relaunching the client.
var ErrNotConnected = errors.New("tracker not connected")

// ErrUnavailable reports that bounded status retries were exhausted without
// reaching the tracker. The daemon treats this as a terminal condition.
var ErrUnavailable = errors.New("tracker unavailable")

// Status is one tracker status response.
type Status struct {
	TrackedToday time.Duration
	Tracking     bool
}

// Client defines the tracker command interface.
type Client interface {
	Status(ctx context.Context) (Status, error)
	Stop(ctx context.Context) error
	Resume(ctx context.Context) error
}

var commandContext = exec.CommandContext

// CLI talks to the tracker through its vendor command-line binary.
type CLI struct {
	binary       string
	notConnected string
}

// NewCLI constructs a CLI client. notConnectedMessage is the exact error
// string the binary emits while the client process is unreachable.
func NewCLI(binary, notConnectedMessage string) *CLI {
	return &CLI{binary: binary, notConnected: notConnectedMessage}
}

type cliResponse struct {
	Error         string `json:"error"`
	Tracking      bool   `json:"tracking"`
	ActiveProject struct {
		TrackedToday string `json:"tracked_today"`
	} `json:"active_project"`
}

func (c *CLI) run(ctx context.Context, command string) (cliResponse, error) {
	var payload cliResponse
	cmd := commandContext(ctx, c.binary, command)
	output, err := cmd.Output()
	if err != nil {
		return payload, fmt.Errorf("run %s %s: %w", c.binary, command, err)
	}
	// A malformed response means an unsupported tracker version; there is
	// no safe pacing decision to make from it, so it propagates as fatal.
	if err := json.Unmarshal(output, &payload); err != nil {
		return payload, fmt.Errorf("parse %s %s response: %w", c.binary, command, err)
	}
	if payload.Error != "" {
		if payload.Error == c.notConnected {
			return payload, ErrNotConnected
		}
		return payload, fmt.Errorf("%s %s: tracker error: %s", c.binary, command, payload.Error)
	}
	return payload, nil
}

// Status queries today's tracked time and whether the timer is running.
func (c *CLI) Status(ctx context.Context) (Status, error) {
	payload, err := c.run(ctx, "status")
	if err != nil {
		return Status{}, err
	}
	tracked, err := clockfmt.Parse(payload.ActiveProject.TrackedToday)
	if err != nil {
		return Status{}, fmt.Errorf("status response: %w", err)
	}
	return Status{TrackedToday: tracked, Tracking: payload.Tracking}, nil
}

// Stop pauses the timer.
func (c *CLI) Stop(ctx context.Context) error {
	_, err := c.run(ctx, "stop")
	return err
}

// Resume restarts the timer.
func (c *CLI) Resume(ctx context.Context) error {
	_, err := c.run(ctx, "resume")
	return err
}

var _ Client = (*CLI)(nil)

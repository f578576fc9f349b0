package confluence

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/singleflight"
)

// CommandChecker shells out to an external confluence-checking tool
// (e.g. a CSI-style or Dedukti-confluence-style confluence checker) for
// every recompiled tree, piping the rule set's textual source on
// stdin. A zero exit status means confluent; any non-zero status
// (including a tool crash) carries the combined stdout+stderr as
// Detail.
//
// Concurrent calls for the same (head, ruleSource) pair are
// deduplicated through a singleflight.Group, since pkg/sig.AddRules
// may race with itself across goroutines recompiling different rule
// batches for the same head before a prior check has returned.
type CommandChecker struct {
	Name string
	Args []string

	group singleflight.Group
}

func NewCommandChecker(name string, args ...string) *CommandChecker {
	return &CommandChecker{Name: name, Args: args}
}

func (c *CommandChecker) Check(ctx context.Context, head string, ruleSource string) (Report, error) {
	key := head + "\x00" + ruleSource
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.run(ctx, ruleSource)
	})
	if err != nil {
		return Report{}, err
	}
	return v.(Report), nil
}

func (c *CommandChecker) run(ctx context.Context, ruleSource string) (Report, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = strings.NewReader(ruleSource)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return Report{Confluent: false, Detail: strings.TrimSpace(out.String())}, nil
		}
		return Report{}, fmt.Errorf("confluence: running %s: %w", c.Name, err)
	}
	return Report{Confluent: true, Detail: strings.TrimSpace(out.String())}, nil
}

package cli

import (
	"context"
	"os"

	"github.com/matzehuels/hydronet/pkg/pipeline"
)

// network loads input and assembles its network, showing a spinner while
// it works. Integrity warnings are logged by the build.
func (c *CLI) network(ctx context.Context, input string, f inputFlags) (*pipeline.Result, error) {
	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, stageMessages[pipeline.StageLoad])
	opts := c.options(input, f)
	opts.OnStage = spinner.Stage

	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	s := result.Stats.Network
	prog.done("network assembled", "lakes", s.Lakes, "reaches", s.Reaches, "cached", result.CacheHit)
	return result, nil
}

package cmdlog

import (
	"time"

	"github.com/spf13/cobra"

	"replygraph/internal/logging"
	"replygraph/internal/metrics"
)

func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	fields := map[string]any{"duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		metrics.IncCommandError(cmd)
		fields["error"] = err.Error()
		logging.Error(cmd+"_error", fields)
	} else {
		logging.Debug(cmd+"_ok", fields)
	}
	return err
}

// RunE adapts a cobra handler so every invocation is counted and logged.
func RunE(name string, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return Run(name, func() error { return f(cmd, args) })
	}
}

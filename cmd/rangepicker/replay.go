package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/rangepicker/internal/scenario"
	"github.com/username/rangepicker/pkg/dateutil"
	"github.com/username/rangepicker/pkg/random"
	"go.uber.org/zap"
)

func replayCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "replay FILE.yaml",
		Short: "Replay a scripted scenario and check its expectations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			started := time.Now()
			result, err := scenario.NewRunner(verify, logger).Run(s)
			if result != nil {
				for _, step := range result.Steps {
					rules := ""
					if len(step.Report.Rules) > 0 {
						rules = " (" + strings.Join(step.Report.Rules, ", ") + ")"
					}
					outPrintf("  %3d %-6s %3d day(s) changed%s\n", step.Index, step.Action, len(step.Changed), rules)
				}
			}
			if err != nil {
				return fmt.Errorf("scenario %q failed: %w", s.Name, err)
			}

			outPrintf("✅ %s: %d step(s) passed in %s\n", s.Name, len(result.Steps), time.Since(started).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Compare the store with a full rebuild after every step")

	return cmd
}

func selfcheckCmd() *cobra.Command {
	var steps, walks int
	var seed int64
	var today string
	var dump string

	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Run random event walks and compare every step with a full rebuild",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := dateutil.Today()
			if today != "" {
				var err error
				if start, err = dateutil.ParseDate(today); err != nil {
					return fmt.Errorf("invalid --today: %w", err)
				}
			}

			runner := scenario.NewRunner(true, logger)
			started := time.Now()

			for i := 0; i < walks; i++ {
				walkSeed := int64(0)
				if seed != 0 {
					walkSeed = seed + int64(i)
				}
				src := random.New(walkSeed)
				s := scenario.Generate(src, scenario.GenerateOptions{Steps: steps, Today: start})

				if _, err := runner.Run(s); err != nil {
					logger.Error("Random walk failed",
						zap.Int64("seed", src.Seed()),
						zap.Error(err))

					var divergence *scenario.DivergenceError
					if dump != "" {
						if derr := dumpScenario(dump, s); derr != nil {
							logger.Warn("Failed to dump scenario", zap.Error(derr))
						} else {
							outPrintf("📝 Failing scenario written to %s\n", dump)
						}
					}
					if errors.As(err, &divergence) {
						return fmt.Errorf("seed %d: incremental update diverged: %w", src.Seed(), err)
					}
					return fmt.Errorf("seed %d: %w", src.Seed(), err)
				}
				outPrintf("  walk %d (seed %d): %d steps ok\n", i+1, src.Seed(), steps)
			}

			outPrintf("✅ %d walk(s) of %d steps matched the rebuild in %s\n", walks, steps, time.Since(started).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 500, "Events per walk")
	cmd.Flags().IntVar(&walks, "walks", 10, "Number of walks")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed of the first walk (0 = random)")
	cmd.Flags().StringVar(&today, "today", "", "Start date of the walks (default: today)")
	cmd.Flags().StringVar(&dump, "dump", "", "Write a failing walk to this file for replay")

	return cmd
}

func dumpScenario(path string, s *scenario.Scenario) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/session"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// runEvent restores the session, applies fn, prints the changed days and
// saves the session again.
func runEvent(fn func(p *picker) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := openPicker(cfg)
	if err != nil {
		return err
	}

	before := p.controller.Snapshot()
	if err := fn(p); err != nil {
		return err
	}
	renderChanges(out, before, p.controller.Snapshot())

	return p.save()
}

func parseDayArg(arg string) (dateutil.Date, error) {
	day, err := dateutil.ParseDate(arg)
	if err != nil {
		return dateutil.Date{}, fmt.Errorf("invalid date %q: %w", arg, err)
	}
	return day, nil
}

func focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "focus start|end|none",
		Short:     "Move focus to a date input",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "end", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			focus, err := engine.ParseFocusedInput(args[0])
			if err != nil {
				return err
			}
			return runEvent(func(p *picker) error {
				sel := p.controller.Inputs().Selection
				sel.FocusedInput = focus
				p.controller.SetSelection(sel)
				return nil
			})
		},
	}
}

func hoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hover DATE",
		Short: "Move the pointer onto a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			return runEvent(func(p *picker) error {
				p.controller.HoverEnter(day)
				return nil
			})
		},
	}
}

func leaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave [DATE]",
		Short: "Move the pointer off a day (default: the hovered day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var day dateutil.Date
			if len(args) == 1 {
				var err error
				if day, err = parseDayArg(args[0]); err != nil {
					return err
				}
			}
			return runEvent(func(p *picker) error {
				if day.IsZero() {
					day = p.controller.Inputs().Hover
				}
				if day.IsZero() {
					outPrintln("nothing is hovered")
					return nil
				}
				p.controller.HoverLeave(day)
				return nil
			})
		},
	}
}

func clickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click DATE",
		Short: "Click a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			return runEvent(func(p *picker) error {
				res := p.controller.Click(day)
				switch {
				case res.Ignored:
					outPrintf("click on %s ignored\n", day)
				case res.Closed:
					outPrintf("range %s .. %s selected\n", res.Selection.StartDate, res.Selection.EndDate)
				}
				return nil
			})
		},
	}
}

func navigateCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [N]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil || n < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
			}
			return runEvent(func(p *picker) error {
				move := map[string]func() bool{
					"next": p.controller.NextMonth,
					"prev": p.controller.PrevMonth,
					"more": p.controller.LoadMoreMonths,
				}[name]
				for i := 0; i < n; i++ {
					if !move() {
						logger.Info("Navigation stopped at bound",
							zap.String("direction", name),
							zap.Int("moved", i))
						outPrintf("cannot go further: date bound is visible\n")
						break
					}
				}
				outPrintf("current month: %s\n", p.controller.Window().CurrentMonth())
				return nil
			})
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := session.NewManager(cfg.Session.StateFile, logger).Remove(); err != nil {
				return err
			}
			outPrintln("session cleared")
			return nil
		},
	}
}

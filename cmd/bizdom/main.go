package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "bizdom/internal/cli"
	"bizdom/internal/config"
	"bizdom/internal/game"
	"bizdom/internal/syncq"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	opts := &options{apiBase: cfg.APIBaseURL}
	if p, err := cl.LoadProfile(); err == nil {
		opts.apiBase = p.APIBaseURL
		opts.remote = p.Remote
	}

	root := &cobra.Command{
		Use:          "bizdom",
		Short:        "Run a company month by month",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.remote, "remote", opts.remote, "talk to a bizdom-api server instead of the local save")
	root.PersistentFlags().StringVar(&opts.apiBase, "api", opts.apiBase, "bizdom-api base URL for --remote")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newNewCmd(opts),
		newStatusCmd(opts),
		newStaffCmd(opts),
		newCandidatesCmd(opts),
		newMonthCmd(opts),
		newAdvanceCmd(opts),
		newPlayCmd(opts),
		newSyncCmd(opts),
		newControlCmd(opts),
		newConnectCmd(),
		newDisconnectCmd(),

		actionCmd(opts, "hire <candidate_id>", "Hire a candidate", game.ActionHire, 1, func(a []string) (game.Args, error) {
			id, err := parseID(a[0])
			return game.Args{CandidateID: id}, err
		}),
		actionCmd(opts, "fire <employee_id>", "Let an employee go", game.ActionFire, 1, employeeArg),
		actionCmd(opts, "train <employee_id>", "Send an employee to training", game.ActionTrain, 1, employeeArg),
		actionCmd(opts, "raise <employee_id> [amount]", "Raise an employee's salary", game.ActionRaiseSalary, 1, func(a []string) (game.Args, error) {
			args, err := employeeArg(a)
			if err == nil && len(a) > 1 {
				args.Amount, err = parseAmount(a[1])
			}
			return args, err
		}),
		actionCmd(opts, "resolve-strike <employee_id>", "Pay to end a strike", game.ActionResolveStrike, 1, employeeArg),
		actionCmd(opts, "marketing <channel_id> <budget>", "Set a channel's monthly budget", game.ActionMarketingBudget, 2, func(a []string) (game.Args, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(a[1]), 64)
			if err != nil {
				return game.Args{}, fmt.Errorf("invalid budget")
			}
			return game.Args{Target: a[0], Amount: v}, nil
		}),
		newLoanCmd(opts),
		newPerkCmd(opts),
		actionCmd(opts, "move <office_id>", "Move to another office", game.ActionMoveOffice, 1, targetArg),
		newInfraCmd(opts),
		actionCmd(opts, "upgrade-equipment", "Upgrade equipment to the next level", game.ActionUpgradeEquipment, 0, noArgs),
		actionCmd(opts, "boost <motivation|fatigue>", "Buy a temporary boost", game.ActionBuyBoost, 1, func(a []string) (game.Args, error) {
			return game.Args{Boost: game.BoostType(strings.ToLower(strings.TrimSpace(a[0])))}, nil
		}),
		actionCmd(opts, "dismiss", "Dismiss the current event", game.ActionDismissEvent, 0, noArgs),
		newProjectCmd(opts),
		newBoardCmd(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func withBackend(cmd *cobra.Command, o *options, timeout time.Duration, fn func(ctx context.Context, b backend) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	b, err := openBackend(ctx, o)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.WithoutCancel(ctx)); err != nil {
			printWarn(fmt.Sprintf("close: %v", err))
		}
	}()
	return fn(ctx, b)
}

func actionCmd(o *options, use, short, action string, nargs int, parse func([]string) (game.Args, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.RangeArgs(nargs, strings.Count(use, "<")+strings.Count(use, "[")),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parse(args)
			if err != nil {
				return err
			}
			return withBackend(cmd, o, 30*time.Second, func(ctx context.Context, b backend) error {
				result, err := b.Action(ctx, action, parsed)
				if err != nil {
					return err
				}
				return renderActionResult(action, result)
			})
		},
	}
}

func renderActionResult(action string, result any) error {
	switch r := result.(type) {
	case game.Loan:
		return renderOK(fmt.Sprintf("Loan #%d granted: %s a month for %d months.", r.ID, money(r.MonthlyPayment), r.RemainingMonths))
	case game.TemporaryBoost:
		return renderOK(fmt.Sprintf("%s boost active for %.0f days.", r.Type, r.RemainingDays))
	case game.VoteOutcome:
		if r.Approved {
			return renderOK(fmt.Sprintf("Board approved with %.0f%% support.", r.Support*100))
		}
		printWarn(fmt.Sprintf("Board rejected with %.0f%% support.", r.Support*100))
		return nil
	case game.BoardMember:
		return renderOK(fmt.Sprintf("%s joined the board with %.1f%%.", r.Name, r.SharePercent))
	}
	return renderOK(fmt.Sprintf("%s: done.", strings.ReplaceAll(action, "_", " ")))
}

func newNewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new company, discarding the current save",
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := promptRequired("Company name")
			if err != nil {
				return err
			}
			ceo, err := promptRequired("CEO name")
			if err != nil {
				return err
			}
			look, err := promptChoice("CEO look", []string{"classic", "casual", "bold"}, "classic")
			if err != nil {
				return err
			}
			return withBackend(cmd, o, 30*time.Second, func(ctx context.Context, b backend) error {
				if err := b.Reset(ctx); err != nil {
					return err
				}
				if _, err := b.Action(ctx, game.ActionConfigure, game.Args{CompanyName: company, CEOName: ceo, Appearance: look}); err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("%s is open for business.", company))
				return status(ctx, b)
			})
		},
	}
}

func status(ctx context.Context, b backend) error {
	s, err := b.State(ctx)
	if err != nil {
		return err
	}
	sum, err := b.Summary(ctx)
	if err != nil {
		return err
	}
	renderSummary(s, sum)
	return nil
}

func newStatusCmd(o *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the company dashboard",
		Aliases: []string{"dash"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, o, 30*time.Second, func(ctx context.Context, b backend) error {
				if err := status(ctx, b); err != nil {
					return err
				}
				if !all {
					return nil
				}
				s, err := b.State(ctx)
				if err != nil {
					return err
				}
				renderStaff(s)
				renderProjects(s)
				renderLoans(s)
				renderBoard(s)
				renderCatalog(s)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list staff, projects, loans, board and catalog")
	return cmd
}

func stateView(o *options, use, short string, render func(*game.State)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, o, 30*time.Second, func(ctx context.Context, b backend) error {
				s, err := b.State(ctx)
				if err != nil {
					return err
				}
				render(s)
				return nil
			})
		},
	}
}

func newStaffCmd(o *options) *cobra.Command {
	return stateView(o, "staff", "List employees", renderStaff)
}

func newCandidatesCmd(o *options) *cobra.Command {
	return stateView(o, "candidates", "List people you can hire", renderCandidates)
}

func newMonthCmd(o *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Close the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--count must be >= 1")
			}
			return withBackend(cmd, o, time.Duration(n)*30*time.Second, func(ctx context.Context, b backend) error {
				for i := 0; i < n; i++ {
					report, err := b.Month(ctx)
					if err != nil {
						return err
					}
					renderReport(report)
					if report.CashAfter <= 0 {
						printError("The company is bankrupt.")
						return nil
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 1, "number of months to run")
	return cmd
}

func newAdvanceCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <seconds>",
		Short: "Run the continuous clock for a number of game seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withBackend(cmd, o, 2*time.Minute, func(ctx context.Context, b backend) error {
				report, err := b.Advance(ctx, seconds)
				if err != nil {
					return err
				}
				for _, ev := range report.Events {
					renderEvent(ev)
				}
				for _, m := range report.Months {
					renderReport(m)
				}
				if report.GameOver {
					printError("The company is bankrupt.")
				}
				return status(ctx, b)
			})
		},
	}
}

func newSyncCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay commands queued while the server was unreachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := syncq.Default()
			if err != nil {
				return err
			}
			pending, err := queue.Load()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := cl.NewClient(o.apiBase)
			client.Queue = queue
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			results, err := client.Flush(ctx)
			if err != nil {
				return err
			}
			applied := 0
			for _, r := range results {
				if r.Status < 300 {
					applied++
					continue
				}
				printError(fmt.Sprintf("Replay %s: status %d %s", r.IdempotencyKey, r.Status, strings.TrimSpace(string(r.Body))))
			}
			printSuccess(fmt.Sprintf("Sync complete: applied=%d rejected=%d", applied, len(results)-applied))
			return nil
		},
	}
}

func newControlCmd(o *options) *cobra.Command {
	control := &cobra.Command{
		Use:   "clock [pause|resume|speed <x>]",
		Short: "Inspect or steer the server clock",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, speed := "", 0.0
			if len(args) > 0 {
				op = strings.ToLower(args[0])
			}
			if op == "speed" {
				if len(args) < 2 {
					return fmt.Errorf("speed needs a value")
				}
				v, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				speed = v
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := cl.NewClient(o.apiBase).Control(ctx, op, speed)
			if err != nil {
				return err
			}
			state := "running"
			switch {
			case st.Paused:
				state = "paused"
			case !st.Running:
				state = "stopped"
			}
			printInfo(fmt.Sprintf("Clock %s at x%.2f, one tick every %s.", state, st.Speed, st.Interval))
			return nil
		},
	}
	return control
}

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <api_base_url>",
		Short: "Play against a bizdom-api server from now on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := strings.TrimSpace(args[0])
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if _, err := cl.NewClient(base).Summary(ctx); err != nil {
				return fmt.Errorf("server check failed: %w", err)
			}
			if err := cl.SaveProfile(cl.Profile{APIBaseURL: base, Remote: true}); err != nil {
				return err
			}
			printSuccess("Connected to " + base + ".")
			return nil
		},
	}
}

func newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Go back to the local save",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearProfile(); err != nil {
				return err
			}
			printSuccess("Playing locally.")
			return nil
		},
	}
}

func newLoanCmd(o *options) *cobra.Command {
	loan := &cobra.Command{Use: "loan", Short: "Borrow and repay"}
	loan.AddCommand(
		actionCmd(o, "take <amount> <months>", "Take a loan at 3% a month", game.ActionTakeLoan, 2, func(a []string) (game.Args, error) {
			amount, err := parseAmount(a[0])
			if err != nil {
				return game.Args{}, err
			}
			months, err := strconv.Atoi(strings.TrimSpace(a[1]))
			if err != nil || months <= 0 {
				return game.Args{}, fmt.Errorf("invalid months")
			}
			return game.Args{Amount: amount, Months: months}, nil
		}),
		actionCmd(o, "repay <loan_id>", "Repay a loan in full", game.ActionRepayLoan, 1, func(a []string) (game.Args, error) {
			id, err := parseID(a[0])
			return game.Args{LoanID: id}, err
		}),
		stateView(o, "list", "List open loans", renderLoans),
	)
	return loan
}

func newPerkCmd(o *options) *cobra.Command {
	perk := &cobra.Command{Use: "perk", Short: "Staff perks"}
	perk.AddCommand(
		actionCmd(o, "buy <perk_id>", "Activate a perk", game.ActionBuyPerk, 1, targetArg),
		actionCmd(o, "remove <perk_id>", "Cancel a perk", game.ActionRemovePerk, 1, targetArg),
		stateView(o, "list", "Show offices, perks and infrastructure", renderCatalog),
	)
	return perk
}

func newInfraCmd(o *options) *cobra.Command {
	infra := &cobra.Command{Use: "infra", Short: "Infrastructure"}
	infra.AddCommand(
		actionCmd(o, "buy <item_id>", "Buy an infrastructure item", game.ActionBuyInfrastructure, 1, targetArg),
		actionCmd(o, "repair <item_id>", "Repair an owned item", game.ActionRepairInfra, 1, targetArg),
		stateView(o, "list", "Show offices, perks and infrastructure", renderCatalog),
	)
	return infra
}

func newProjectCmd(o *options) *cobra.Command {
	project := &cobra.Command{Use: "project", Short: "Tenders and delivery"}
	assign := func(action, use, short string) *cobra.Command {
		return actionCmd(o, use, short, action, 2, func(a []string) (game.Args, error) {
			id, err := parseID(a[1])
			return game.Args{Target: a[0], EmployeeID: id}, err
		})
	}
	project.AddCommand(
		stateView(o, "list", "List tenders and running projects", renderProjects),
		assign(game.ActionAssign, "assign <project_id> <employee_id>", "Put an employee on a tender"),
		assign(game.ActionUnassign, "unassign <project_id> <employee_id>", "Take an employee off a tender"),
		actionCmd(o, "start <project_id>", "Start a staffed tender", game.ActionStartProject, 1, targetArg),
	)
	return project
}

func newBoardCmd(o *options) *cobra.Command {
	board := &cobra.Command{Use: "board", Short: "Shareholders and capital"}
	memberPct := func(action, use, short string) *cobra.Command {
		return actionCmd(o, use, short, action, 2, func(a []string) (game.Args, error) {
			pct, err := parseAmount(a[1])
			return game.Args{Target: a[0], Percent: pct}, err
		})
	}
	pctOnly := func(action, use, short string) *cobra.Command {
		return actionCmd(o, use, short, action, 1, func(a []string) (game.Args, error) {
			pct, err := parseAmount(a[0])
			return game.Args{Percent: pct}, err
		})
	}
	board.AddCommand(
		stateView(o, "list", "Show shareholders", renderBoard),
		actionCmd(o, "raise [member_id]", "Sell 5% for 100k of fresh capital", game.ActionRaiseFunds, 0, func(a []string) (game.Args, error) {
			if len(a) == 0 {
				return game.Args{}, nil
			}
			return game.Args{Target: a[0]}, nil
		}),
		memberPct(game.ActionBuyShares, "buy <member_id> <percent>", "Buy shares from a member"),
		memberPct(game.ActionSellShares, "sell <member_id> <percent>", "Sell shares to a member"),
		pctOnly(game.ActionSellSharesToMarket, "sell-market <percent>", "Sell shares on the market"),
		pctOnly(game.ActionBuyback, "buyback <percent>", "Buy back shares with company cash"),
		newDecideCmd(o),
	)
	return board
}

func newDecideCmd(o *options) *cobra.Command {
	var d game.Decision
	var byShare bool
	cmd := &cobra.Command{
		Use:   "decide <title>",
		Short: "Put a decision to a board vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Title = args[0]
			d.Weighting = game.WeightByInfluence
			if byShare {
				d.Weighting = game.WeightByShare
			}
			dec := d
			return withBackend(cmd, o, 30*time.Second, func(ctx context.Context, b backend) error {
				result, err := b.Action(ctx, game.ActionDecision, game.Args{Decision: &dec})
				if err != nil {
					return err
				}
				return renderActionResult(game.ActionDecision, result)
			})
		},
	}
	cmd.Flags().Float64Var(&d.CashImpact, "cash", 0, "cash change if approved")
	cmd.Flags().Float64Var(&d.MotivationImpact, "motivation", 0, "motivation change if approved")
	cmd.Flags().Float64Var(&d.MarketShareImpact, "market", 0, "customer base growth fraction if approved")
	cmd.Flags().Float64Var(&d.Risk, "risk", 0, "risk in [0,1]")
	cmd.Flags().Float64Var(&d.RequiredSupport, "support", 0, "required support in (0,1]")
	cmd.Flags().BoolVar(&byShare, "by-share", false, "weight votes by share instead of influence")
	return cmd
}

func noArgs([]string) (game.Args, error) { return game.Args{}, nil }

func targetArg(a []string) (game.Args, error) {
	return game.Args{Target: strings.TrimSpace(a[0])}, nil
}

func employeeArg(a []string) (game.Args, error) {
	id, err := parseID(a[0])
	return game.Args{EmployeeID: id}, err
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

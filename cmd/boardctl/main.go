package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mtauhidul/ats-ui-demo-sub000/board"
	"github.com/mtauhidul/ats-ui-demo-sub000/cliparse"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

var (
	serverURL   string
	graceWindow time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Watch and drive a hiring pipeline board",
	Long:  `A terminal client for the pipeline board API. Shows a job's columns live and moves candidates between stages with the same optimistic flow as the web board.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return graceFromEnv(cmd.Flags())
	},
	SilenceUsage: true,
}

var watchCmd = &cobra.Command{
	Use:   "watch <job>",
	Short: "Print the board every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b := newBoard(args[0], cmd)

		unsubscribe := b.Subscribe(func(g board.Grouping) {
			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b.Snapshot(), g))
		})
		defer unsubscribe()

		err := b.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <job> <candidate> <stage>",
	Short: "Move a candidate to a stage",
	Long:  `Move a candidate to a stage. The stage may be given by id, name or legacy reference.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b := newBoard(args[0], cmd)
		if err := b.Refresh(ctx); err != nil {
			return err
		}

		snap := b.Snapshot()
		if len(snap.Pipeline.Stages) == 0 {
			return fmt.Errorf("job %s has no pipeline stages", args[0])
		}
		stage, rule := board.ResolveRule(args[2], snap.Pipeline)
		if rule == board.RuleFallback {
			return fmt.Errorf("no stage matches %q", args[2])
		}

		if err := b.Move(ctx, args[1], stage.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", candidateName(snap, args[1]), stage.Name)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <job> <ref>",
	Short: "Show which stage a reference resolves to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := board.NewClient(serverURL, nil)
		p, err := jobPipeline(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		if len(p.Stages) == 0 {
			return fmt.Errorf("job %s has no pipeline stages", args[0])
		}
		stage, rule := board.ResolveRule(args[1], p)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) via %s\n", stage.Name, stage.ID, rule)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <job> <candidate>",
	Short: "Show a candidate's stage history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := board.NewClient(serverURL, nil)
		ctx := cmd.Context()
		p, err := jobPipeline(ctx, client, args[0])
		if err != nil {
			return err
		}
		h, err := client.History(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderHistory(p, h))
		return nil
	},
}

// graceFromEnv falls back to GRACE_WINDOW when --grace-window was not
// given on the command line.
func graceFromEnv(flags *pflag.FlagSet) error {
	if !flags.Changed("grace-window") {
		if s := os.Getenv("GRACE_WINDOW"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return errors.New("invalid GRACE_WINDOW env variable")
			}
			graceWindow = d
		}
	}
	if graceWindow < 0 {
		return errors.New("grace window must not be negative")
	}
	return nil
}

// jobPipeline fetches the job's pipeline and reports a job without one
// as an error.
func jobPipeline(ctx context.Context, client *board.Client, jobID string) (models.Pipeline, error) {
	p, err := client.PipelineForJob(ctx, jobID)
	if err != nil {
		return models.Pipeline{}, err
	}
	if p == nil {
		return models.Pipeline{}, fmt.Errorf("job %s has no pipeline", jobID)
	}
	return *p, nil
}

func newBoard(jobID string, cmd *cobra.Command) *board.Board {
	client := board.NewClient(serverURL, nil)
	return board.New(jobID, board.NewGateway(client), board.Options{
		GraceWindow: graceWindow,
		Source:      client,
		Stream:      client,
		Notifier: board.NotifierFunc(func(message string) {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("error: "+message))
		}),
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("BOARD_SERVER", fmt.Sprintf("http://localhost:%d", cliparse.DefaultPort)), "board API base URL")
	rootCmd.PersistentFlags().DurationVar(&graceWindow, "grace-window", board.DefaultGraceWindow, "how long a confirmed move stays pinned before the server view wins (env GRACE_WINDOW)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log resolver fallbacks and stream reconnects")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(historyCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

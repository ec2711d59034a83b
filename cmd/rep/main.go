package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/pbaille/rep/internal/config"
	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/logger"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/rules"
	"github.com/pbaille/rep/internal/scheduler"
	"github.com/pbaille/rep/internal/session"
	"github.com/pbaille/rep/internal/store"
	"github.com/pbaille/rep/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	accessible bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rep",
		Short:         "Opening repertoire trainer with spaced repetition",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "data directory (default $"+config.EnvDir+" or ~/.rep)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().BoolVar(&accessible, "accessible", false, "plain line prompts")

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(manageCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(budgetCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Styles.Error.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	store   *store.Store
	log     zerolog.Logger
	logFile *os.File
}

func getApp() (*app, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	f, err := logger.OpenFile(cfg.LogPath())
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Output: f, Console: verbose})

	s, err := store.New(cfg.DBPath(), log)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &app{cfg: cfg, store: s, log: log, logFile: f}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.logFile.Close()
}

func (a *app) scheduler() *scheduler.Scheduler {
	cfg := scheduler.Config{ClampCounter: a.cfg.ClampDailyCounter}
	if a.cfg.Seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(a.cfg.Seed))
	}
	return scheduler.New(cfg)
}

func terminal() *ui.Terminal {
	return ui.NewTerminal(os.Stdout, accessible)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List repertoires with their training progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			names, err := a.store.List(ctx)
			if err != nil {
				return err
			}

			today := domain.Day(time.Now())
			rows := make([]ui.ListRow, 0, len(names))
			for _, name := range names {
				t, err := session.Open(ctx, a.store, name, time.Now)
				if err != nil {
					// one broken repertoire should not hide the others
					a.log.Error().Err(err).Str("repertoire", name).Msg("open failed")
					fmt.Fprintln(os.Stderr, ui.Styles.Error.Render(fmt.Sprintf("%s: %v", name, err)))
					continue
				}
				rows = append(rows, ui.ListRow{Name: name, Player: t.Player, Counts: t.Counts(today)})
			}

			fmt.Println(ui.List(rows))
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	var (
		colorFlag string
		fen       string
		pick      bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a repertoire",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			term := terminal()

			var (
				name   string
				player domain.Color
			)
			if len(args) == 1 {
				name = args[0]
			}
			if name != "" && colorFlag != "" {
				if player, err = domain.ParseColor(colorFlag); err != nil {
					return err
				}
			} else {
				name, player, err = term.NewRepertoire(name, func(s string) (bool, error) {
					return a.store.Exists(ctx, s)
				})
				if err != nil {
					return err
				}
			}

			if pick {
				if fen, err = term.PickStart(fen); err != nil {
					return err
				}
			}
			board, err := rules.NewBoard(fen)
			if err != nil {
				return err
			}

			t := repertoire.New(name, player, board.FEN(), board.Turn(), time.Now())
			t.LearningBudget = a.cfg.LearningBudget
			if err := a.store.Create(ctx, t); err != nil {
				if errors.Is(err, store.ErrDuplicateName) {
					return fmt.Errorf("a repertoire called %q already exists", name)
				}
				return err
			}

			fmt.Printf("Created %s (%s). Use 'rep manage %s' to add moves.\n", name, player, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&colorFlag, "color", "c", "", "side you play: white or black")
	cmd.Flags().StringVar(&fen, "fen", rules.StartFEN, "starting position")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the starting position by playing moves")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the training state of a repertoire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := session.Open(cmd.Context(), a.store, args[0], time.Now)
			if err != nil {
				return err
			}

			fmt.Println(ui.Overview(t.Name, t.Player, t.Counts(time.Now())))
			return nil
		},
	}
}

func manageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manage [name]",
		Short: "Walk the repertoire tree and edit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			m := session.NewManager(a.store, time.Now, a.log)
			saved, err := m.Run(cmd.Context(), args[0], terminal())
			if err != nil {
				return err
			}

			if saved {
				fmt.Println(ui.IconSuccess.Render() + " saved")
			} else {
				fmt.Println("Changes discarded.")
			}
			return nil
		},
	}
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train [name]",
		Short: "Practise the positions due today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tr := session.NewTrainer(a.store, a.scheduler(), time.Now, a.log)
			sum, err := tr.Run(cmd.Context(), args[0], terminal())
			if err != nil {
				return err
			}

			switch {
			case sum.UpToDate():
				fmt.Println(ui.Styles.Success.Render("Up to date, nothing to practise today."))
			case sum.Aborted:
				fmt.Printf("Session closed: %d graded, %d left for later.\n", sum.Graded, sum.Remaining)
			default:
				fmt.Printf("%s Done: %d graded.\n", ui.IconSuccess.Render(), sum.Graded)
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a repertoire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			name := args[0]
			if !yes {
				ok, err := terminal().Confirm(fmt.Sprintf("Permanently delete %s?", name))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := a.store.Delete(cmd.Context(), name); err != nil {
				return err
			}

			fmt.Printf("Deleted %s.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget [name] [positions]",
		Short: "Set how many positions are learned at the same time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid budget %q", args[1])
			}

			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			t, err := a.store.Open(ctx, args[0])
			if err != nil {
				return err
			}
			t.LearningBudget = n
			t.Normalize(time.Now())
			if err := a.store.Save(ctx, t); err != nil {
				return err
			}

			fmt.Printf("%s now learns up to %d positions at a time.\n", t.Name, n)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [name] [file]",
		Short: "Write a repertoire to a portable snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.store.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create snapshot: %w", err)
			}
			if err := store.Export(f, t); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			fmt.Printf("Exported %s to %s\n", t.Name, args[1])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Add a repertoire from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()

			t, err := store.Import(f, name)
			if err != nil {
				return err
			}
			if err := a.store.Create(cmd.Context(), t); err != nil {
				if errors.Is(err, store.ErrDuplicateName) {
					return fmt.Errorf("a repertoire called %q already exists, use --name", t.Name)
				}
				return err
			}

			fmt.Printf("Imported %s (%d positions)\n", t.Name, t.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "store under a different name")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mlderes/dstoolkit/internal/check"
	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/datastore"
	"github.com/mlderes/dstoolkit/internal/display"
	"github.com/mlderes/dstoolkit/internal/naming"
	"github.com/mlderes/dstoolkit/internal/pipeline"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dstoolkit",
		Short:         "Versioned data folder and table cleaning toolkit",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Config file first, then flags on top, then validate.
			if err := config.ApplyFile(&a.cfg, cmd.Flags()); err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log, err := a.newLogger(&a.cfg)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	config.BindFlags(root.PersistentFlags(), &a.cfg)

	root.AddCommand(
		newLatestCmd(a),
		newListCmd(a),
		newNameCmd(a),
		newLayoutCmd(a),
		newRunCmd(a),
		newCheckCmd(a),
	)
	return root
}

func newLatestCmd(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "latest DIR PATTERN [EXT]",
		Short: "Print the most recently modified file matching PATTERN*EXT",
		Long: `The latest command prints the name of the newest file in DIR whose name
starts with PATTERN and ends with EXT. Ties on modification time go to the
greatest name. Exits 1 when nothing matches.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, pattern, ext := args[0], args[1], optional(args, 2)
			name, err := naming.ResolveLatest(dir, pattern, ext)
			if err != nil {
				return err
			}
			if full {
				name = filepath.Join(dir, name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&full, "path", "p", false, "Print DIR/NAME instead of NAME")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls DIR PATTERN [EXT]",
		Aliases: []string{"list"},
		Short:   "List files matching PATTERN*EXT, newest first",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, pattern, ext := args[0], args[1], optional(args, 2)
			cands, err := naming.Candidates(dir, pattern, ext)
			if err != nil {
				return err
			}
			if len(cands) == 0 {
				return fmt.Errorf("%w: %s", naming.ErrNoMatch, filepath.Join(dir, pattern)+"*"+naming.NormalizeExt(ext))
			}
			a.log.Debug("%d candidate(s) in %s", len(cands), dir)
			return display.WriteCandidates(cmd.OutOrStdout(), cands)
		},
	}
}

func newNameCmd(a *app) *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "name DIR STEM SUFFIX",
		Short: "Print a versioned output path: DIR/STEM_MMdd_HHmmss.SUFFIX",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := naming.NewBuilder().Build(args[0], args[1], args[2], !latest)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "Use the rolling _latest token instead of a timestamp")
	return cmd
}

func newLayoutCmd(a *app) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the data root and its raw/processed/interim/external areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := datastore.NewDataFolder(a.cfg.DataRoot)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-9s  %s\n", "root", folder.Root())
			for _, area := range datastore.Areas {
				dir, err := folder.Area(area)
				if create && !a.cfg.DryRun {
					dir, err = folder.Ensure(area)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-9s  %s\n", area, dir)
			}
			if create && a.cfg.DryRun {
				a.log.Info("[DRY] Would create %d area(s) under %s", len(datastore.Areas), folder.Root())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "Create missing area directories")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the cleaning recipe from --config",
		Long: `The run command reads the newest input table named by the recipe, applies
its steps in order and writes the result to the output area.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &a.cfg
			if cfg.ConfigFile == "" {
				return fmt.Errorf("run needs a recipe: pass --config FILE")
			}
			if err := cfg.ValidateRecipe(); err != nil {
				return err
			}
			if cfg.LogFormat == config.LogText {
				display.PrintBanner(a.stdout)
			}
			if err := check.CheckRoot(cfg); err != nil {
				return err
			}

			// Cancel on SIGINT/SIGTERM so the pipeline stops between steps
			// without writing partial output.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					a.log.Warn("Received interrupt, finishing current step…")
					cancel()
				case <-ctx.Done():
				}
			}()

			stats := pipeline.Run(ctx, cfg, a.log)
			if !stats.OK() {
				return errReported
			}
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the data root and the recipe input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.LogFormat == config.LogText {
				display.PrintBanner(a.stdout)
			}
			if !check.RunCheck(&a.cfg, a.log) {
				return errReported
			}
			return nil
		},
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

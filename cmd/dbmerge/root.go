// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package dbmerge

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dbmerge/dbmerge/cmd/dbmerge/utils"
	"github.com/dbmerge/dbmerge/pkg/conf"
	"github.com/dbmerge/dbmerge/pkg/mergedb"
	"github.com/dbmerge/dbmerge/pkg/pbar"
	"github.com/dbmerge/dbmerge/pkg/sqlite"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbmerge",
		Short: "Merge two SQLite databases with priority override",
		Long: strings.Join([]string{
			"Merge two SQLite databases table by table, keyed on each table's primary key.",
			"Non-null values from the priority database win; the fallback database fills in",
			"the rest. Tables whose column sets differ between the two databases, or that",
			"declare no primary key and have no configured fallback keys, are skipped.",
		}, "\n"),
		Example: strings.Join([]string{
			`  # merge the corrected export over the older complete one`,
			`  dbmerge --priority corrected.db --fallback complete.db --output merged.db`,
			"",
			`  # merge a keyless table on configured columns`,
			`  dbmerge --priority a.db --fallback b.db --output out.db --fallback-key rankings=event_key,rank`,
		}, "\n"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd)
		},
	}
	viper.SetEnvPrefix("dbmerge")
	flags := rootCmd.Flags()
	flags.String("priority", "", "path of the database whose non-null values take precedence")
	flags.String("fallback", "", "path of the database supplying values the priority one lacks")
	flags.String("output", "", "path to save the merged database to")
	for _, name := range []string{"priority", "fallback", "output"} {
		viper.BindEnv(name)
		viper.BindPFlag(name, flags.Lookup(name))
	}
	flags.String("config", "", "read fallback key configuration from a YAML file")
	flags.StringArray("fallback-key", nil, "key columns as TABLE=COL1[,COL2...] for tables that declare no primary key (may be repeated)")
	flags.Bool("quiet", false, "don't display progress bar")
	utils.AddLoggerFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func runMerge(cmd *cobra.Command) error {
	cleanup, err := utils.SetupLogger(cmd)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	logger := utils.GetLogger(cmd)

	paths := map[string]string{}
	for _, name := range []string{"priority", "fallback", "output"} {
		fp := viper.GetString(name)
		if fp == "" {
			return fmt.Errorf("--%s is required", name)
		}
		paths[name] = fp
	}
	for _, name := range []string{"priority", "fallback"} {
		if _, err := os.Stat(paths[name]); err != nil {
			return fmt.Errorf("file not found: %s", paths[name])
		}
	}
	c, err := readConfig(cmd)
	if err != nil {
		return err
	}

	priority, err := sqlite.NewSource(paths["priority"])
	if err != nil {
		return err
	}
	defer priority.Close()
	fallback, err := sqlite.NewSource(paths["fallback"])
	if err != nil {
		return err
	}
	defer fallback.Close()
	sink, err := sqlite.NewSink(paths["output"])
	if err != nil {
		return err
	}
	defer sink.Close()

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	container := pbar.NewContainer(cmd.ErrOrStderr(), quiet)
	defer container.Wait()
	bar := container.NewBar(0, "tables")

	m := mergedb.NewMerger(priority, fallback, sink,
		mergedb.WithConfig(c),
		mergedb.WithLogger(*logger),
		mergedb.WithProgressBar(bar),
	)
	report, err := m.Run()
	if err != nil {
		bar.Abort()
		return err
	}
	container.Wait()
	printReport(cmd.OutOrStdout(), report, paths["output"])
	return nil
}

func readConfig(cmd *cobra.Command) (*conf.Config, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	c := conf.Default()
	if cfgPath != "" {
		if c, err = conf.ReadFile(cfgPath); err != nil {
			return nil, err
		}
	}
	overrides, err := cmd.Flags().GetStringArray("fallback-key")
	if err != nil {
		return nil, err
	}
	for _, s := range overrides {
		table, keys, err := conf.ParseFallbackKey(s)
		if err != nil {
			return nil, err
		}
		c.SetFallbackKeys(table, keys)
	}
	return c, nil
}

func printReport(out io.Writer, report *mergedb.Report, outPath string) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	for _, res := range report.Results {
		switch res.Status {
		case mergedb.StatusMerged:
			green.Fprint(out, "merged")
			fmt.Fprintf(out, " %s: %d rows (key: %s", res.Table, res.RowCount, strings.Join(res.KeyColumns, ", "))
			if res.FallbackKeys {
				fmt.Fprint(out, ", from config")
			}
			fmt.Fprint(out, ")\n")
		case mergedb.StatusSchemaMismatch, mergedb.StatusMissingKey:
			yellow.Fprint(out, "skipped")
			fmt.Fprintf(out, " %s: %s\n", res.Table, res.Reason)
		case mergedb.StatusError:
			red.Fprint(out, "failed")
			fmt.Fprintf(out, " %s: %v\n", res.Table, res.Err)
		}
	}
	fmt.Fprintf(out, "Merged %d of %d tables (%d skipped, %d failed). Output saved to %s\n",
		report.Merged(), len(report.Results), report.Skipped(), report.Failed(), outPath,
	)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/config"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list simulation models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDURATION\tDESCRIPTION")
			for _, m := range catalog.Default().List() {
				fmt.Fprintf(w, "%s\t%s\t%.0fs\t%s\n", m.ID, m.Title, m.NominalDuration, m.Description)
			}
			return w.Flush()
		},
	}
}

func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params [model]",
		Short: "show a model's parameters and their ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := catalog.Default().Get(modelArg(args))
			if err != nil {
				return err
			}
			fmt.Printf("%s\n%s\n\n", m.Title, m.ScientificNote)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDEFAULT\tMIN\tMAX\tUNIT\tIMPACT")
			for _, p := range m.Parameters() {
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\t%s\n", p.ID, p.Value, p.Min, p.Max, p.Unit, p.ImpactNote)
			}
			return w.Flush()
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.GetPreset(args[0], name)
				fmt.Printf("  %-14s %v\n", name, p.Params)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/luki/sensores/internal/logging"
	"github.com/luki/sensores/internal/sensor"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))

func listCmd(flags *globalFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the sensors the platform offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			log, closer, err := logging.Init(cfg.Log, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			backend, catalog, err := openPlatform(cfg, log)
			if err != nil {
				return err
			}
			defer backend.Close()

			out := cmd.OutOrStdout()
			entries := catalog.List()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No sensors available.")
			} else {
				fmt.Fprintln(out, headerStyle.Render("Sensors"))
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, e := range entries {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Kind, e.Name, e.Device)
				}
				tw.Flush()
			}

			if !all {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, headerStyle.Render("Devices"))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, d := range catalog.Devices() {
				kind := "-"
				if d.Kind != sensor.KindUnknown {
					kind = d.Kind.String()
				}
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", d.Device, kind, d.Vendor)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list every device the platform reports")
	return cmd
}

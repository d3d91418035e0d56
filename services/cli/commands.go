package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/thinsos/sos"
)

func newCapabilitiesCmd(a *app) *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Print the capabilities document",
		Long:  `Fetch the capabilities document, restricted to the sections of --level.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := sos.Level(level)
			if !l.Valid() {
				return fmt.Errorf("invalid level %q: expected one of %v", level, sos.Levels)
			}
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			doc, err := client.GetCapabilities(cmd.Context(), l)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&level, "level", string(sos.LevelAll), "service, content, operations, all or minimal")
	return cmd
}

func newAvailabilityCmd(a *app) *cobra.Command {
	var q sos.AvailabilityQuery
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Print the data-availability index",
		Long:  `List the series the service holds data for, optionally filtered.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			avail, err := client.GetDataAvailability(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), avail.Table(), a.settings.Format)
		},
	}
	cmd.Flags().StringVar(&q.FeatureOfInterest, "foi", "", "feature of interest")
	cmd.Flags().StringVar(&q.Procedure, "procedure", "", "procedure")
	cmd.Flags().StringVar(&q.ObservedProperty, "property", "", "observed property")
	return cmd
}

func newFeaturesCmd(a *app) *cobra.Command {
	var (
		foi     string
		geoJSON bool
	)
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the features of interest",
		Long:  `List the features of interest as a flat table, or as GeoJSON with --geojson.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			features, err := client.GetFeatures(cmd.Context(), foi)
			if err != nil {
				return err
			}
			if geoJSON {
				return writeJSON(cmd.OutOrStdout(), sos.FeaturesGeoJSON(features))
			}
			rows := make([]sos.Record, len(features))
			for i, f := range features {
				rows[i] = f.Flat()
			}
			return writeTable(cmd.OutOrStdout(), sos.NewTable(rows), a.settings.Format)
		},
	}
	cmd.Flags().StringVar(&foi, "foi", "", "feature of interest")
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "print a GeoJSON feature collection")
	return cmd
}

func newObservationsCmd(a *app) *cobra.Command {
	var q sos.FilterQuery
	cmd := &cobra.Command{
		Use:   "observations",
		Short: "Print observations of one series",
		Long: `Fetch the observations of an observed property at a feature of
interest and print them as flat rows. --from defaults to 1900-01-01 and a
missing --to is taken from the data-availability index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			table, err := client.GetObservation(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), table, a.settings.Format)
		},
	}
	cmd.Flags().StringVar(&q.FeatureOfInterest, "foi", "", "feature of interest (required)")
	cmd.Flags().StringVar(&q.ObservedProperty, "property", "", "observed property (required)")
	cmd.Flags().StringVar(&q.Procedure, "procedure", "", "procedure")
	cmd.Flags().StringVar(&q.FromDate, "from", "", "start of the time window (ISO-8601)")
	cmd.Flags().StringVar(&q.ToDate, "to", "", "end of the time window (ISO-8601)")
	_ = cmd.MarkFlagRequired("foi")
	_ = cmd.MarkFlagRequired("property")
	return cmd
}

func writeTable(w io.Writer, table *sos.Table, format string) error {
	if format == "json" {
		return writeJSON(w, table)
	}
	return table.WriteCSV(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/trip"
)

// tripsCommand creates the trips command for inspecting the input list.
func (c *CLI) tripsCommand() *cobra.Command {
	var (
		configPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Inspect the study's input trip list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			trips, err := trip.LoadTrips(cfg.Trips)
			if err != nil {
				return err
			}

			if interactive {
				return browseTrips(trips, cfg.HomeCoordinates())
			}

			printInfo("%d trips in %s", len(trips), cfg.Trips)
			for i, t := range trips {
				printDetail("%2d  %-30s %5.1f min %6.2f mi", i, t.DestinationPoint, t.WalkingDuration, t.TripLengthMiles)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "study.toml", "study configuration file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse trips in an interactive list")

	return cmd
}

// browseTrips runs the interactive trip browser and prints details for the
// selected trip, including a sample synthesized destination per version.
func browseTrips(trips []trip.Trip, versions []geo.Coordinate) error {
	model, err := tea.NewProgram(NewTripListModel(trips)).Run()
	if err != nil {
		return err
	}

	final, ok := model.(TripListModel)
	if !ok || final.Selected == nil {
		return nil
	}

	sel := final.Selected
	fmt.Println()
	fmt.Println(StyleTitle.Render(sel.Trip.DestinationPoint))
	printDetail("index     %d", sel.Index)
	printDetail("duration  %.1f min walking", sel.Trip.WalkingDuration)
	printDetail("length    %.2f mi", sel.Trip.TripLengthMiles)

	synth := geo.NewSynthesizer()
	for v, origin := range versions {
		dest := synth.Synthesize(sel.Trip.WalkingDuration, origin)
		printDetail("v%d  %.6f, %.6f  →  %.6f, %.6f", v, origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	}
	return nil
}

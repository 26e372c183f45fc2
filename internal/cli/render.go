package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/routelab/routestim/pkg/pipeline"
	"github.com/routelab/routestim/pkg/render"
	"github.com/routelab/routestim/pkg/trip"
)

// renderCommand creates the render command: screenshots from an existing
// routes document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		outputDir      string
		settleDelaySec int
	)

	cmd := &cobra.Command{
		Use:   "render [routes-file]",
		Short: "Capture map screenshots from an enriched routes document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routesFile := pipeline.DefaultRoutesFile
			if len(args) == 1 {
				routesFile = args[0]
			}

			records, err := trip.ImportJSON(routesFile)
			if err != nil {
				return err
			}
			printInfo("Loaded %d enriched trips from %s", len(records), routesFile)

			port, err := startBrowser(cmd.Context())
			if err != nil {
				return err
			}
			defer port.Close()

			renderer := render.NewRenderer(port, outputDir, c.Logger)
			if settleDelaySec > 0 {
				renderer.SettleDelay = secondsDuration(settleDelaySec)
			}

			prog := newProgress(c.Logger)
			n, err := renderer.Render(cmd.Context(), records)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d screenshots", n))

			printSuccess("Captured %d of %d screenshots", n, 2*len(records))
			printFile(outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", pipeline.DefaultOutputDir, "screenshot output directory")
	cmd.Flags().IntVar(&settleDelaySec, "settle", 0, "seconds to let the map settle before each capture")

	return cmd
}

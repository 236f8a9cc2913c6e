package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

func newRecenterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recenter <id>",
		Short: "Center the map on a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withSession(cmd, func(s *session) error {
				err := s.dispatch(intent.ListClicked{WorkoutID: id, Target: intent.TargetItem})
				if err != nil {
					return fmt.Errorf("recenter %s: %w", id, err)
				}
				c, zoom, _ := s.layer.Center()
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"id": id, "lat": c.Lat(), "lng": c.Lng(), "zoom": zoom})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Centered on %s at zoom %d\n", c, zoom)
				return nil
			})
		},
	}
}

func newMapCmd() *cobra.Command {
	var (
		out    string
		locate bool
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Export the map as GeoJSON",
		Long: "Export every marker as a GeoJSON FeatureCollection. With --locate the\n" +
			"current position is looked up first and included as the map center.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				if locate {
					ctx, cancel := context.WithTimeout(cmd.Context(), s.settings.Location.Timeout)
					defer cancel()
					// A failed lookup is logged and the map stays uncentered.
					_ = s.orch.Locate(ctx)
				}
				if out == "" {
					data, err := s.layer.MarshalGeoJSON()
					if err != nil {
						return sysError(fmt.Errorf("encode map: %w", err))
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := s.layer.WriteGeoJSON(out); err != nil {
					return sysError(fmt.Errorf("write map: %w", err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d markers to %s\n", len(s.layer.Markers()), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write GeoJSON to this file instead of stdout")
	cmd.Flags().BoolVar(&locate, "locate", false, "center the map on the current position")
	return cmd
}

// positionOrZero returns the map center, or the zero position when the map
// has not been centered yet.
func positionOrZero(s *session) types.Coords {
	c, _, ok := s.layer.Center()
	if !ok {
		return types.Coords{}
	}
	return c
}

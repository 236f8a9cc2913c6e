package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// fieldFlags holds the raw form fields shared by add and edit. Values stay
// strings so the validator sees exactly what the user typed.
type fieldFlags struct {
	distance      string
	duration      string
	cadence       string
	elevationGain string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.distance, "distance", "", "distance in km")
	cmd.Flags().StringVar(&f.duration, "duration", "", "duration in minutes")
	cmd.Flags().StringVar(&f.cadence, "cadence", "", "cadence in steps per minute (running)")
	cmd.Flags().StringVar(&f.elevationGain, "elevation-gain", "", "elevation gain in meters (cycling)")
}

// event builds the form submission for kind.
func (f fieldFlags) event(kind string) intent.FormSubmitted {
	return intent.FormSubmitted{
		Kind:          kind,
		Distance:      f.distance,
		Duration:      f.duration,
		Cadence:       f.cadence,
		ElevationGain: f.elevationGain,
	}
}

func newAddCmd() *cobra.Command {
	var (
		lat, lng float64
		fields   fieldFlags
	)
	cmd := &cobra.Command{
		Use:   "add <running|cycling>",
		Short: "Log a workout at a position",
		Long: "Log a workout at --lat/--lng. Running takes --cadence, cycling takes\n" +
			"--elevation-gain. All numbers must be positive and below the configured limit.",
		Example: "  mapty add running --lat 51.5 --lng -0.12 --distance 5 --duration 25 --cadence 80",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("add: --lat and --lng are required")
			}
			return withSession(cmd, func(s *session) error {
				err := s.dispatch(
					intent.MapClicked{Coords: types.Coords{lat, lng}},
					fields.event(args[0]),
				)
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
				w, _ := s.orch.LastSubmitted()
				return printWorkout(cmd, w)
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	fields.register(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		kind   string
		fields fieldFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a workout's kind or numbers",
		Long: "Edit opens the workout's form prefilled with its current values, applies\n" +
			"the given flags, and submits. Position, ID and creation time never change.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withSession(cmd, func(s *session) error {
				w, ok := s.orch.Workout(id)
				if !ok {
					return fmt.Errorf("edit %s: %w", id, types.ErrNotFound)
				}
				ev := prefill(w, kind, fields)
				err := s.dispatch(intent.ListClicked{WorkoutID: id, Target: intent.TargetEdit}, ev)
				if err != nil {
					return fmt.Errorf("edit %s: %w", id, err)
				}
				w, _ = s.orch.LastSubmitted()
				return printWorkout(cmd, w)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "running or cycling (default: unchanged)")
	fields.register(cmd)
	return cmd
}

// prefill fills every field the user left empty from w, the way the form
// shows a workout's current values when it opens for edit.
func prefill(w types.Workout, kind string, f fieldFlags) intent.FormSubmitted {
	if kind == "" {
		kind = string(w.Kind)
	}
	if f.distance == "" {
		f.distance = formatFloat(w.Distance)
	}
	if f.duration == "" {
		f.duration = formatFloat(w.Duration)
	}
	if kind == string(w.Kind) {
		switch {
		case w.Running != nil && f.cadence == "":
			f.cadence = strconv.Itoa(w.Running.Cadence)
		case w.Cycling != nil && f.elevationGain == "":
			f.elevationGain = formatFloat(w.Cycling.ElevationGain)
		}
	}
	return f.event(kind)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withSession(cmd, func(s *session) error {
				err := s.dispatch(intent.ListClicked{WorkoutID: id, Target: intent.TargetDelete})
				if err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]string{"deleted": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				n := len(s.orch.Workouts())
				if err := s.dispatch(intent.MenuClicked{Item: intent.MenuDeleteAll}); err != nil {
					return fmt.Errorf("clear: %w", err)
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]int{"deleted": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d workouts\n", n)
				return nil
			})
		},
	}
}

// sortMenu maps a sort key to the menu entry that selects it.
var sortMenu = map[types.SortKey]intent.MenuItem{
	types.SortRecent:   intent.MenuSortRecent,
	types.SortDistance: intent.MenuSortDistance,
	types.SortDuration: intent.MenuSortDuration,
}

func newListCmd() *cobra.Command {
	var sortFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts",
		Long:  "List workouts newest first, or by distance or duration, longest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := types.ParseSortKey(sortFlag)
			if err != nil {
				return fmt.Errorf("list: %w (want recent, distance or duration)", err)
			}
			return withSession(cmd, func(s *session) error {
				if err := s.dispatch(intent.MenuClicked{Item: sortMenu[key]}); err != nil {
					return fmt.Errorf("list: %w", err)
				}
				items := s.list.Items()
				ws := make([]types.Workout, len(items))
				for i, it := range items {
					ws[i] = it.Workout
				}
				return printWorkouts(cmd, ws)
			})
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", string(types.SortRecent), "order: recent, distance or duration")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one workout in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withSession(cmd, func(s *session) error {
				w, ok := s.orch.Workout(id)
				if !ok {
					return fmt.Errorf("show %s: %w", id, types.ErrNotFound)
				}
				return printDetails(cmd, w)
			})
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/internal/view"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// printWorkout writes one workout in the selected output mode. JSON output
// uses the persisted record shape.
func printWorkout(cmd *cobra.Command, w types.Workout) error {
	if flags.jsonMode {
		return printJSON(cmd, persist.FromWorkout(w))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", w.ID, view.PlainItem(w))
	return nil
}

// printWorkouts writes workouts in the given order.
func printWorkouts(cmd *cobra.Command, ws []types.Workout) error {
	if flags.jsonMode {
		return printJSON(cmd, persist.FromWorkouts(ws))
	}
	if len(ws) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No workouts.")
		return nil
	}
	for _, w := range ws {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", w.ID, view.PlainItem(w))
	}
	return nil
}

// printDetails writes every field of w for the show command.
func printDetails(cmd *cobra.Command, w types.Workout) error {
	if flags.jsonMode {
		return printJSON(cmd, persist.FromWorkout(w))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", w.ID)
	fmt.Fprintf(out, "Title:       %s %s\n", w.Kind.Icon(), w.Description)
	fmt.Fprintf(out, "Kind:        %s\n", w.Kind)
	fmt.Fprintf(out, "Created:     %s\n", w.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Coords:      %s\n", w.Coords)
	for _, s := range view.Stats(w) {
		fmt.Fprintf(out, "             %s %s %s\n", s.Icon, s.Value, s.Unit)
	}
	return nil
}

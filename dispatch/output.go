package dispatch

import (
	"fmt"
	"io"
)

const noProviderMessage = "No provider available for the requested trade."

// WriteResult prints the selected provider, or every ranked match in list
// mode, one per line.
func WriteResult(w io.Writer, result *Result, list bool) error {
	if len(result.Matches) == 0 {
		_, err := fmt.Fprintln(w, noProviderMessage)
		return err
	}

	if !list {
		best := result.Matches[0].Provider
		_, err := fmt.Fprintf(w, "Selected provider: ID=%s Name=%s\n", best.ID, best.Name)
		return err
	}

	for i, m := range result.Matches {
		if _, err := fmt.Fprintf(w, "%d. ID=%s Name=%s Distance=%.2f km\n", i+1, m.Provider.ID, m.Provider.Name, m.DistanceKm); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"io"
)

// progressLine returns an engine progress sink that redraws one
// "label NN%" line on w and ends it at 100%. Repeated percentages are
// skipped.
func progressLine(w io.Writer, label string) func(int) {
	last := -1
	return func(percent int) {
		if percent == last {
			return
		}
		last = percent
		fmt.Fprintf(w, "\r%s %3d%%", label, percent)
		if percent >= 100 {
			fmt.Fprintln(w)
			last = -1
		}
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/MTG-Drawer/internal/gui"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

// displaySubmission prints the parse summary, the current hand and both distributions.
func displaySubmission(w io.Writer, result *gui.SubmitResult) {
	fmt.Fprintf(w, "Deck: %d cards (%d unique)", result.Cards, result.UniqueCards)
	if result.Dropped > 0 {
		fmt.Fprintf(w, ", %d lines skipped", result.Dropped)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	displayHand(w, result.Current)
	displayStats(w, result.Stats)
}

// displayHand prints one card label per line.
func displayHand(w io.Writer, hand drawer.Hand) {
	fmt.Fprintln(w, "Current Hand")
	fmt.Fprintln(w, "============")
	if len(hand) == 0 {
		fmt.Fprintln(w, "(empty)")
	}
	for _, label := range hand.Labels() {
		fmt.Fprintf(w, "  %s\n", label)
	}
	fmt.Fprintln(w)
}

// displayStats prints the color and type distributions.
func displayStats(w io.Writer, snap stats.Snapshot) {
	fmt.Fprintf(w, "Total draws: %d (stats over %s)\n\n", snap.TotalHands, snap.Scope)
	displayDistribution(w, "Colors", snap.Colors)
	displayDistribution(w, "Types", snap.Types)
}

func displayDistribution(w io.Writer, title string, dist stats.Distribution) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	width := 0
	for _, bucket := range dist {
		width = max(width, len(bucket.Name))
	}
	for _, bucket := range dist {
		fmt.Fprintf(w, "  %-*s %d\n", width, bucket.Name, bucket.Value)
	}
	fmt.Fprintln(w)
}

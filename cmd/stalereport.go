package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"time"

	"edroute/internal/ebgs"
)

// stalereport runs the stale-systems query headlessly and prints the
// result, or writes it as a CSV the main app can load.
func main() {
	var (
		faction = flag.String("faction", "", "Faction name to query")
		minAge  = flag.Int("min-age", 2, "Minimum data age in hours")
		limit   = flag.Int("limit", 0, "Maximum number of systems (0 for all)")
		output  = flag.String("output", "", "Output CSV file path (prints to stdout if not specified)")
		baseURL = flag.String("base-url", ebgs.DefaultBaseURL, "Elite BGS API base URL")
	)
	flag.Parse()

	if *faction == "" {
		fmt.Fprintln(os.Stderr, "A faction name is required (-faction)")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := ebgs.NewClient()
	client.BaseURL = *baseURL

	presences, err := client.StaleSystems(ctx, *faction, time.Duration(*minAge)*time.Hour, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	route := ebgs.RouteFromPresences(presences, now)

	if *output == "" {
		for i, entry := range route {
			fmt.Printf("%3d  %-30s %s\n", i+1, entry.System, entry.Note)
		}
		return
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create %s: %v\n", *output, err)
		os.Exit(1)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"System Name", "Notes"}); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
	for _, entry := range route {
		if err := writer.Write([]string{entry.System, entry.Note}); err != nil {
			fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
			os.Exit(1)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d systems to %s\n", len(route), *output)
}

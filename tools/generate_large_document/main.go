// Large Document Generator
//
// This tool generates a large trip-log document for performance testing
// and profiling. It creates realistic rows with varied dates, times and
// odometer readings to stress-test the evaluator and the xlsx exporter.
//
// Usage:
//
//	go run main.go > large.json
//	go run main.go 100000 > large.json  # Specify number of rows
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/roelvdberg/rekenblad/schema"
)

const defaultRows = 50000

func main() {
	rows := defaultRows
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid row count %q: %s\n", os.Args[1], err)
			os.Exit(1)
		}
		rows = n
	}

	rng := rand.New(rand.NewSource(42))
	tpl := schema.DefaultTripLog()

	doc := schema.NewDocument("perf-test", tpl)
	doc.Meta.Name = fmt.Sprintf("Performance test (%d rows)", rows)
	doc.Meta.CreatedAt = time.Now()

	day := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	odometer := 125000.0

	for i := 0; i < rows; i++ {
		begin := 6.0 + rng.Float64()*4  // start between 06:00 and 10:00
		worked := 4.0 + rng.Float64()*8 // shift between 4 and 12 hours
		distance := 50.0 + rng.Float64()*600

		row := schema.Row{
			"datum":      day.Format("2006-01-02"),
			"begin_tijd": round2(begin),
			"eind_tijd":  round2(begin + worked),
			"pauze":      round2(0.25 + rng.Float64()*0.75),
			"correctie":  0,
			"begin_km":   round2(odometer),
			"eind_km":    round2(odometer + distance),
		}

		// Occasional nights away and expenses.
		if rng.Intn(10) == 0 {
			row["overnachting"] = round2(60 + rng.Float64()*40)
		}
		if rng.Intn(5) == 0 {
			row["overige_kosten"] = round2(rng.Float64() * 25)
		}

		doc.AppendRow(row)

		odometer += distance
		day = day.AddDate(0, 0, 1)
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode document: %s\n", err)
		os.Exit(1)
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/averdin/uav-deconfliction/engine"
	"github.com/averdin/uav-deconfliction/events"
	"github.com/averdin/uav-deconfliction/ingestion"
	"github.com/averdin/uav-deconfliction/missions"
	"github.com/averdin/uav-deconfliction/report"
)

const maxPrintedConflicts = 20

func main() {
	var (
		primary    = flag.Int("primary", missions.DefaultPrimaryID, "drone id of the primary mission")
		minDist    = flag.Float64("min-distance", missions.DefaultMinDistance, "minimum separation in meters")
		timeWindow = flag.Float64("time-window-sec", missions.DefaultTimeWindowSec, "temporal conflict window in seconds")
		interpStep = flag.Float64("interp-step-sec", missions.DefaultInterpStepSec, "trajectory resampling step in seconds")
		timeCol    = flag.String("time-col", "Time", "name of the timestamp column")
		reportPath = flag.String("report", "", "write an Excel conflict report to this path")
		chartPath  = flag.String("chart", "", "write an HTML trajectory chart to this path")
		dbPath     = flag.String("db", "", "mission archive path; batch mode archives the loaded mission, -serve defaults to data/missions.db")
		serve      = flag.Bool("serve", false, "run the HTTP server instead of a one-shot evaluation")
		addr       = flag.String("addr", ":8080", "listen address for -serve")
	)
	flag.Parse()

	if *serve {
		runServer(*addr, *dbPath)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: uav-deconfliction [flags] <waypoints.xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := engine.QueryConfig{
		MinDistanceMeters: *minDist,
		TimeWindowSec:     *timeWindow,
		InterpStepSec:     *interpStep,
	}
	if err := runEvaluation(flag.Arg(0), *primary, cfg, *timeCol, *reportPath, *chartPath, *dbPath); err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
}

// runEvaluation is the one-shot batch mode: load a workbook, run the full
// deconfliction query and print the verdict.
func runEvaluation(path string, primaryID int, cfg engine.QueryConfig, timeCol, reportPath, chartPath, dbPath string) error {
	ds, err := ingestion.LoadWaypoints(path, ingestion.LoadOptions{TimeColumn: timeCol})
	if err != nil {
		return err
	}
	log.Printf("Loaded %d waypoints across %d drones from %s", len(ds), len(ds.DroneIDs()), path)

	if dbPath != "" {
		if err := missions.InitDatabase(dbPath); err != nil {
			return err
		}
		defer missions.CloseDatabase()
		id, err := missions.SaveMission(path, path, ds)
		if err != nil {
			return err
		}
		log.Printf("Archived mission %d to %s", id, dbPath)
	}

	status := engine.QueryMissionStatus(ds, primaryID, cfg)

	fmt.Printf("Status: %s\n", status.Status)
	fmt.Printf("Spatial conflicts:  %d\n", len(status.SpatialConflicts))
	fmt.Printf("Temporal conflicts: %d\n", len(status.TemporalConflicts))
	printConflicts("spatial", status.SpatialConflicts)
	printConflicts("temporal", status.TemporalConflicts)

	if reportPath != "" {
		if err := report.WriteWorkbook(reportPath, path, primaryID, cfg, status); err != nil {
			return err
		}
		log.Printf("Report written to %s", reportPath)
	}
	if chartPath != "" {
		f, err := os.Create(chartPath)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()
		if err := report.RenderChart(f, path, ds, primaryID, status); err != nil {
			return err
		}
		log.Printf("Chart written to %s", chartPath)
	}
	return nil
}

func printConflicts(kind string, conflicts []engine.Conflict) {
	for i, c := range conflicts {
		if i == maxPrintedConflicts {
			fmt.Printf("  ... %d more %s conflicts\n", len(conflicts)-i, kind)
			return
		}
		fmt.Printf("  [%s] drone %d at %s: %.2f m\n",
			kind, c.Other.DroneID, c.Primary.Time.Format("15:04:05.000"), c.DistanceMeters)
	}
}

func runServer(addr, dbPath string) {
	events.Init()
	if err := missions.InitDatabase(dbPath); err != nil {
		log.Fatalf("Failed to open mission archive: %v", err)
	}

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down gracefully...")
		if err := missions.CloseDatabase(); err != nil {
			log.Printf("Error closing mission archive: %v", err)
		}
		os.Exit(0)
	}()

	events.SetupHandlers()
	missions.SetupHandlers()

	log.Printf("Server started at http://127.0.0.1%s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

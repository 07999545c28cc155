package missions

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/averdin/uav-deconfliction/engine"
	"github.com/averdin/uav-deconfliction/events"
	"github.com/averdin/uav-deconfliction/ingestion"
	"github.com/averdin/uav-deconfliction/report"
)

// Boundary defaults; the engine itself holds none.
const (
	DefaultPrimaryID     = 1001
	DefaultMinDistance   = 10.0
	DefaultTimeWindowSec = 1.0
	DefaultInterpStepSec = 0.5
)

const maxUploadBytes = 64 << 20

func SetupHandlers() {
	http.HandleFunc("/missions", handleListMissions)
	http.HandleFunc("/missions/upload", handleUpload)
	http.HandleFunc("/missions/data", handleMissionData)
	http.HandleFunc("/missions/evaluate", handleEvaluate)
	http.HandleFunc("/missions/chart", handleChart)
	http.HandleFunc("/missions/export", handleExport)
	http.HandleFunc("/missions/delete", handleDelete)
	http.HandleFunc("/missions/feed", handleFeed)
}

func handleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := ListMissions()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list missions: %v", err), http.StatusInternalServerError)
		return
	}
	if missions == nil {
		missions = []Mission{}
	}
	writeJSON(w, missions)
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Workbook file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	opts := ingestion.LoadOptions{TimeColumn: r.FormValue("time_col")}
	ds, err := ingestion.LoadWaypointsFrom(file, header.Filename, opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load waypoints: %v", err), http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	id, err := SaveMission(name, header.Filename, ds)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to archive mission: %v", err), http.StatusInternalServerError)
		return
	}

	events.LogEvent(events.Event{
		Type:      "mission_imported",
		Mission:   name,
		Detail:    fmt.Sprintf("%d waypoints, %d drones", len(ds), len(ds.DroneIDs())),
		Timestamp: time.Now(),
	})

	mission, err := GetMission(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read back mission: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, mission)
}

func handleMissionData(w http.ResponseWriter, r *http.Request) {
	id, err := missionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ds, err := LoadDataset(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load dataset: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, ds)
}

func handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := missionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := evaluateMission(r, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	events.LogEvent(events.Event{
		Type:      "evaluation_run",
		Mission:   result.Mission,
		Detail:    result.Result.Status,
		Timestamp: time.Now(),
	})
	broadcastEvaluation(result)

	writeJSON(w, result)
}

func handleChart(w http.ResponseWriter, r *http.Request) {
	id, err := missionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := evaluateMission(r, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ds, err := LoadDataset(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load dataset: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderChart(w, result.Mission, ds, result.PrimaryID, result.Result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to render chart: %v", err), http.StatusInternalServerError)
	}
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := missionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := evaluateMission(r, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f, err := report.BuildWorkbook(result.Mission, result.PrimaryID, result.Config, result.Result)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build report: %v", err), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	events.LogEvent(events.Event{
		Type:      "report_exported",
		Mission:   result.Mission,
		Detail:    result.Result.Status,
		Timestamp: time.Now(),
	})

	filename := fmt.Sprintf("conflict_report_%d_%s.xlsx", id, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		log.Printf("Error writing report download: %v", err)
	}
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := missionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mission, err := GetMission(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := DeleteMission(id); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete mission: %v", err), http.StatusInternalServerError)
		return
	}

	events.LogEvent(events.Event{
		Type:      "mission_deleted",
		Mission:   mission.Name,
		Timestamp: time.Now(),
	})

	w.WriteHeader(http.StatusOK)
}

// evaluateMission loads the archived dataset and runs a full deconfliction
// query with thresholds taken from the request.
func evaluateMission(r *http.Request, id int) (EvaluationResult, error) {
	mission, err := GetMission(id)
	if err != nil {
		return EvaluationResult{}, err
	}
	ds, err := LoadDataset(id)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	primaryID := intParam(r, "primary", DefaultPrimaryID)
	cfg := engine.QueryConfig{
		MinDistanceMeters: floatParam(r, "min_distance", DefaultMinDistance),
		TimeWindowSec:     floatParam(r, "time_window_sec", DefaultTimeWindowSec),
		InterpStepSec:     floatParam(r, "interp_step_sec", DefaultInterpStepSec),
	}

	status := engine.QueryMissionStatus(ds, primaryID, cfg)

	return EvaluationResult{
		MissionID: mission.ID,
		Mission:   mission.Name,
		PrimaryID: primaryID,
		Config:    cfg,
		Result:    status,
	}, nil
}

func missionID(r *http.Request) (int, error) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	if idStr == "" {
		return 0, fmt.Errorf("mission id required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid mission id %q", idStr)
	}
	return id, nil
}

func intParam(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	if s := r.FormValue(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func floatParam(r *http.Request, name string, def float64) float64 {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	if s := r.FormValue(name); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

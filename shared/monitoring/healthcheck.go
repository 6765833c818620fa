package monitoring

import (
	"fmt"
	"log"
	"net/http"
)

type HealthServer struct {
	monitor *Monitor
	port    string
	// trigger, when set, starts a pipeline run on POST /pipeline.
	trigger func()
}

func NewHealthServer(monitor *Monitor, port string, trigger func()) *HealthServer {
	if port == "" {
		port = "8080"
	}
	return &HealthServer{
		monitor: monitor,
		port:    port,
		trigger: trigger,
	}
}

func (h *HealthServer) Start() {
	http.HandleFunc("/health", h.healthHandler)
	http.HandleFunc("/status", h.statusHandler)
	http.HandleFunc("/pipeline", h.pipelineHandler)

	log.Printf("Health check server starting on port %s", h.port)
	go func() {
		if err := http.ListenAndServe(":"+h.port, nil); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.GetStatusSummary())
	}
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", h.monitor.GetStatusSummary())
}

// pipelineHandler triggers a run outside the schedule. The run happens in
// the background; a trigger that overlaps a run already in progress is
// skipped by the scheduler.
func (h *HealthServer) pipelineHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, "POST required")
		return
	}
	if h.trigger == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "manual trigger not configured")
		return
	}

	go h.trigger()
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprint(w, "pipeline run triggered")
}

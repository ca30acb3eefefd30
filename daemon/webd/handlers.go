package webd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jellydator/ttlcache/v3"
	"github.com/tidwall/gjson"

	"github.com/mikkohei13/biotools/api"
	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/params"
)

const uploadsDirName = "uploads"

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	WSOpen    bool                    `json:"ws_open"`
	WSConns   int                     `json:"ws_conns"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		WSOpen:    !s.melodyInstance.IsClosed(),
		WSConns:   s.melodyInstance.Len(),
		Config:    s.Config,
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal config", "error", err)
		http.Error(w, "Failed to marshal config", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(j)
	if err != nil {
		s.logger.Error("Failed to write response", "error", err)
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

func handleMethods(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(diversity.NewAnalyzer(nil).Methods()); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

// uploadPath is where a dataset's occurrence file lives under the
// daemon's data dir.
func (s *WebDaemon) uploadPath(dataset conceptual.DatasetID) string {
	return filepath.Join(s.Config.DataDir, uploadsDirName, dataset.String()+".tsv")
}

// handleUpload stores a posted TSV occurrence export for later
// analysis. The dataset name comes from the 'dataset' query param.
// The body is either the raw TSV or a multipart form with a 'file'
// field. When 'method' and 'resolution_km' params come along, the
// upload is analyzed in the same request and the colored score map
// returned.
func (s *WebDaemon) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", 500)
		return
	}
	dataset := conceptual.DatasetID(r.URL.Query().Get("dataset"))
	if dataset.Empty() {
		http.Error(w, "Missing dataset", http.StatusBadRequest)
		return
	}

	var source io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			s.logger.Error("Failed to read multipart file", "error", err)
			http.Error(w, "Missing multipart 'file' field", http.StatusBadRequest)
			return
		}
		defer file.Close()
		source = file
	}

	target := s.uploadPath(dataset)
	if err := os.MkdirAll(filepath.Dir(target), 0770); err != nil {
		s.logger.Error("Failed to create uploads dir", "error", err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	f, err := os.Create(target)
	if err != nil {
		s.logger.Error("Failed to create upload file", "error", err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	n, err := io.Copy(f, source)
	if err != nil {
		s.logger.Error("Failed to store upload", "error", err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	s.logger.Info("Stored upload", "dataset", dataset, "size", humanize.Bytes(uint64(n)))

	// Analyze in-request when asked to.
	if method := r.URL.Query().Get("method"); method != "" {
		resolution, _ := strconv.Atoi(r.URL.Query().Get("resolution_km"))
		s.analyzeUpload(w, r, api.Request{
			Dataset:    dataset,
			Method:     method,
			Resolution: grid.Resolution(resolution),
		})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dataset": dataset,
		"bytes":   n,
	})
}

// handleAnalyze runs one analysis over a previously uploaded dataset.
// The request body is JSON with dataset, method and resolution fields,
// parsed leniently, so clients sending extra fields are fine.
func (s *WebDaemon) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", 500)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read request body", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	req := api.Request{
		Dataset:    conceptual.DatasetID(gjson.GetBytes(body, "dataset").String()),
		Method:     gjson.GetBytes(body, "method").String(),
		Resolution: grid.Resolution(gjson.GetBytes(body, "resolution").Int()),
	}
	s.analyzeUpload(w, r, req)
}

// analyzeUpload runs one analysis over an uploaded dataset and writes
// the result, consulting the TTL result cache first.
func (s *WebDaemon) analyzeUpload(w http.ResponseWriter, r *http.Request, req api.Request) {
	if req.Dataset.Empty() {
		http.Error(w, "Missing dataset", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		s.logger.Warn("Invalid analyze request", "error", err, "url", r.URL)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cacheKey := fmt.Sprintf("%s/%s/%d", req.Dataset, req.Method, req.Resolution)
	if item := s.resultCache.Get(cacheKey); item != nil {
		s.logger.Debug("Analyze request cached", "key", cacheKey)
		s.respondResult(w, item.Value())
		return
	}

	source := s.uploadPath(req.Dataset)
	if _, err := os.Stat(source); err != nil {
		http.Error(w, "No dataset that", http.StatusNotFound)
		return
	}

	d := api.NewDataset(req.Dataset, s.Config.DataDir, s.Config.DiversityConfig)
	defer d.Close()

	result, err := d.AnalyzeFile(r.Context(), source, req)
	if err != nil {
		s.logger.Error("Failed to analyze", "error", err)
		http.Error(w, "Failed to analyze", http.StatusInternalServerError)
		return
	}
	if err := d.WriteArtifacts(result); err != nil {
		s.logger.Error("Failed to write artifacts", "error", err)
	}

	s.resultCache.Set(cacheKey, result, ttlcache.DefaultTTL)
	s.feedAnalyzed.Send(result)
	s.respondResult(w, result)
}

func (s *WebDaemon) respondResult(w http.ResponseWriter, result *api.Result) {
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

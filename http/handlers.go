package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"gradesense/artifact"
	"gradesense/db"
	"gradesense/inference"
	"gradesense/logging"
	"gradesense/monitoring"
)

var (
	artifactStore *artifact.Store
	metrics       *monitoring.Metrics
	feed          *monitoring.Feed
	resultCache   *lru.Cache[string, inference.Result]
	auditEnabled  bool
)

// SetArtifactStore injects the bundle holder used by the predict handler.
func SetArtifactStore(s *artifact.Store) {
	artifactStore = s
}

// SetMetrics injects the counters; nil disables them.
func SetMetrics(m *monitoring.Metrics) {
	metrics = m
}

// SetFeed injects the websocket prediction feed; nil disables it.
func SetFeed(f *monitoring.Feed) {
	feed = f
}

// EnableAudit toggles writing served predictions to the audit log.
func EnableAudit(enabled bool) {
	auditEnabled = enabled
}

// InitResultCache sizes the identical-request cache. The pipeline is pure,
// so a (bundle generation, request) pair always maps to the same result.
func InitResultCache(size int) error {
	if size <= 0 {
		resultCache = nil
		return nil
	}
	cache, err := lru.New[string, inference.Result](size)
	if err != nil {
		return err
	}
	resultCache = cache
	return nil
}

// RegisterHandlers wires all routes onto the mux.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/predict", handlePredict)
	mux.HandleFunc("GET /api/predictions/recent", handleRecentPredictions)
	mux.HandleFunc("GET /api/metrics", handleMetrics)
	mux.HandleFunc("GET /api/ws/predictions", handlePredictionFeed)
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Student Mental Health CGPA Prediction API",
		"endpoints": map[string]string{
			"predict":     "POST /api/predict",
			"health":      "GET /api/health",
			"recent":      "GET /api/predictions/recent",
			"metrics":     "GET /api/metrics",
			"predictions": "WS /api/ws/predictions",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if artifactStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
		})
		return
	}

	status := artifactStore.Status()
	state := "healthy"
	code := http.StatusOK
	if !status.ModelLoaded || !status.ScalerLoaded || !status.EncodersLoaded {
		state = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":          state,
		"model_loaded":    status.ModelLoaded,
		"scaler_loaded":   status.ScalerLoaded,
		"encoders_loaded": status.EncodersLoaded,
	})
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if metrics != nil {
		metrics.RecordRequest()
	}

	var record inference.StudentRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if artifactStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "model artifacts not loaded"})
		return
	}
	bundle, generation := artifactStore.Current()
	if bundle == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "model artifacts not loaded"})
		return
	}

	cacheKey := predictCacheKey(generation, record)
	if resultCache != nil {
		if cached, ok := resultCache.Get(cacheKey); ok {
			if metrics != nil {
				metrics.RecordCacheHit()
			}
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := inference.Run(record, bundle)
	if err != nil {
		writePredictError(w, err)
		return
	}

	if resultCache != nil {
		resultCache.Add(cacheKey, result)
	}
	if metrics != nil {
		metrics.RecordServed(time.Since(start))
	}
	if feed != nil {
		feed.Publish(monitoring.PredictionEvent{
			PredictedCGPA: result.PredictedCGPA,
			CGPARange:     result.CGPARange,
			Course:        record.Course,
			Timestamp:     time.Now().UTC(),
		})
	}
	if auditEnabled {
		if err := db.SavePrediction(record, result); err != nil {
			logging.L().Warn("audit log write failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func writePredictError(w http.ResponseWriter, err error) {
	var validationErr *inference.ValidationError
	if errors.As(err, &validationErr) {
		if metrics != nil {
			metrics.RecordValidationError()
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
		return
	}

	var categoryErr *inference.UnknownCategoryError
	if errors.As(err, &categoryErr) {
		if metrics != nil {
			metrics.RecordUnknownCategory()
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   categoryErr.Error(),
			"feature": categoryErr.Feature,
			"value":   categoryErr.Value,
		})
		return
	}

	logging.L().Error("prediction failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "prediction failed"})
}

func handleRecentPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := db.QueryRecentPredictions(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rows),
		"data":  rows,
	})
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if metrics == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "metrics disabled"})
		return
	}
	writeJSON(w, http.StatusOK, metrics.Snapshot())
}

func handlePredictionFeed(w http.ResponseWriter, r *http.Request) {
	if feed == nil {
		http.Error(w, "feed disabled", http.StatusNotFound)
		return
	}
	feed.HandleWS(w, r)
}

// predictCacheKey ties cached results to the bundle generation so an
// artifact swap invalidates every prior entry.
func predictCacheKey(generation uint64, record inference.StudentRecord) string {
	payload, _ := json.Marshal(record)
	return fmt.Sprintf("%d|%s", generation, payload)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

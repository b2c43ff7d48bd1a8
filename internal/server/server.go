package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/internal/schedule"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/coerce"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/iwvelando/amortize/pkg/frequency"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/iwvelando/amortize/pkg/simpleinterest"
	"go.uber.org/zap"
)

// Options tunes the handler returned by NewHandler. Zero values select defaults.
type Options struct {
	MaxUploadSize int64
	MaxPeriods    int
	Version       string
	Cache         cache.Cache
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	maxPeriods    int
	version       string
	cache         cache.Cache
}

// NewHandler constructs the HTTP handler that serves the amortization API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if opts.MaxPeriods <= 0 {
		opts.MaxPeriods = constants.DefaultMaxPeriods
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		maxPeriods:    opts.MaxPeriods,
		version:       trimmedVersion,
		cache:         opts.Cache,
	}

	mux := http.NewServeMux()

	// Single schedule from calculator fields
	mux.HandleFunc("/api/amortization", h.handleAmortization)

	// Flat-rate illustration
	mux.HandleFunc("/api/simple-interest", h.handleSimpleInterest)

	// Batch schedules from an uploaded YAML configuration
	mux.HandleFunc("/api/schedules", h.handleSchedules)

	mux.HandleFunc("/api/frequencies", h.handleFrequencies)
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

type requestIDKey struct{}

// withRequestID tags every request with an identifier, reusing one supplied by
// the caller, and logs the request once it completes.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		h.logger.Debug("request",
			zap.String("op", "server.withRequestID"),
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type amortizationRequest struct {
	coerce.Raw
	Frequency interface{} `json:"frequency"`
	StartDate string      `json:"startDate"`
}

type amortizationResponse struct {
	Input     amortization.Input `json:"input"`
	Frequency string             `json:"frequency"`
	amortization.Result
	DueDates []string `json:"dueDates,omitempty"`
	Cached   bool     `json:"cached"`
	Duration string   `json:"duration"`
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, err := h.decodeAmortizationRequest(w, r)
	if err != nil {
		h.respondBodyError(w, r, err, op)
		return
	}

	if req.PeriodsPerYear == nil {
		req.PeriodsPerYear = req.Frequency
	}
	in := coerce.Input(req.Raw)

	if n := amortization.TotalPeriods(in); n > h.maxPeriods {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("schedule of %d periods exceeds limit of %d", n, h.maxPeriods), op)
		return
	}

	result, cached := h.compute(r.Context(), in)
	if !result.Finite() {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity,
			"schedule amounts overflow; reduce the principal or rate", op)
		return
	}

	response := amortizationResponse{
		Input:     in,
		Frequency: frequency.Frequency(in.PeriodsPerYear).String(),
		Result:    result,
		Cached:    cached,
	}

	if req.StartDate != "" && len(result.Rows) > 0 {
		months := frequency.Frequency(in.PeriodsPerYear).MonthsBetween()
		if months == 0 {
			h.respondErrorWithOp(w, r, http.StatusBadRequest,
				"due dates need payments a whole number of months apart", op)
			return
		}
		dates, err := datetime.DueDates(req.StartDate, months, len(result.Rows))
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		response.DueDates = dates
	}

	response.Duration = time.Since(start).String()
	h.logger.Info("amortization computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r.Context())),
		zap.Int("rows", len(result.Rows)),
		zap.Bool("cached", cached),
	)
	h.writeJSON(w, http.StatusOK, response)
}

// decodeAmortizationRequest reads the calculator fields from a JSON body or,
// for form posts, from form values.
func (h *handler) decodeAmortizationRequest(w http.ResponseWriter, r *http.Request) (amortizationRequest, error) {
	var req amortizationRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("failed to parse form: %w", err)
		}
		req.Principal = formValue(r, "principal")
		req.AnnualRatePercent = formValue(r, "annualRatePercent")
		req.TenureYears = formValue(r, "tenureYears")
		req.PeriodsPerYear = formValue(r, "periodsPerYear")
		req.Frequency = formValue(r, "frequency")
		req.StartDate = r.PostForm.Get("startDate")
		return req, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

func isForm(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/x-www-form-urlencoded")
}

// formValue returns nil for absent fields so they stay distinguishable from
// empty ones.
func formValue(r *http.Request, key string) interface{} {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	return r.PostForm.Get(key)
}

// compute serves in from the cache when possible. Cache failures are logged and
// never fail the request.
func (h *handler) compute(ctx context.Context, in amortization.Input) (amortization.Result, bool) {
	if !in.Valid() {
		return amortization.Compute(in), false
	}

	key := cache.Key(in)
	result, err := h.cache.Get(ctx, key)
	if err == nil {
		return result, true
	}
	if !errors.Is(err, cache.ErrMiss) {
		h.logger.Warn("cache lookup failed",
			zap.String("op", "server.compute"),
			zap.String("requestId", requestID(ctx)),
			zap.Error(err),
		)
	}

	result = amortization.Compute(in)
	if !result.Finite() {
		return result, false
	}
	if err := h.cache.Set(ctx, key, result); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", "server.compute"),
			zap.String("requestId", requestID(ctx)),
			zap.Error(err),
		)
	}
	return result, false
}

type simpleInterestRequest struct {
	Amount            interface{} `json:"amount"`
	AnnualRatePercent interface{} `json:"annualRatePercent"`
	TenureMonths      interface{} `json:"tenureMonths"`
}

func (h *handler) handleSimpleInterest(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimpleInterest"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req simpleInterestRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondBodyError(w, r, fmt.Errorf("failed to decode request: %w", err), op)
		return
	}

	illustration := simpleinterest.Compute(
		coerce.Number(req.Amount),
		coerce.Number(req.AnnualRatePercent),
		coerce.Int(req.TenureMonths),
	)
	h.writeJSON(w, http.StatusOK, illustration)
}

type schedulesResponse struct {
	Schedules []schedule.Schedule `json:"schedules"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

func (h *handler) handleSchedules(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedules"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.respondBodyError(w, r, fmt.Errorf("failed to parse upload: %w", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	schedules, err := schedule.GetSchedules(h.logger, *cfg, h.maxPeriods)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, schedule.ErrTooManyPeriods) || errors.Is(err, schedule.ErrNotFinite) {
			status = http.StatusUnprocessableEntity
		}
		h.respondErrorWithOp(w, r, status, fmt.Sprintf("failed to compute schedules: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, schedules); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("schedules computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r.Context())),
		zap.Int("schedules", len(schedules)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, schedulesResponse{
		Schedules: schedules,
		CSV:       csvBuf.String(),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

type frequencyInfo struct {
	Name           string `json:"name"`
	PeriodsPerYear int    `json:"periodsPerYear"`
	MonthsBetween  int    `json:"monthsBetween"`
}

func (h *handler) handleFrequencies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	supported := frequency.Supported()
	infos := make([]frequencyInfo, 0, len(supported))
	for _, f := range supported {
		infos = append(infos, frequencyInfo{
			Name:           f.String(),
			PeriodsPerYear: f.PeriodsPerYear(),
			MonthsBetween:  f.MonthsBetween(),
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"frequencies":   infos,
		"outputFormats": []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON},
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", requestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// respondBodyError answers a request whose body could not be read: 413 when it
// exceeded maxUploadSize, 400 otherwise.
func (h *handler) respondBodyError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
}

// writeJSON encodes payload before committing status, so an unencodable value
// becomes a 500 rather than an empty success.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"failed to encode response"}`+"\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gotidy/domain/core"
	"gotidy/domain/table"
	"gotidy/domain/tidy"
	"gotidy/internal"
	"gotidy/internal/cleaning"
	apperrors "gotidy/internal/errors"
	"gotidy/internal/profiling"
	"gotidy/internal/report"
)

// tableRequest is the common request envelope: a table plus operation
// parameters. The table field accepts either the columns+records object
// form or a bare array of records.
type tableRequest struct {
	Table *table.Table `json:"table"`

	// Convert parameters.
	Strategy string       `json:"strategy,omitempty"`
	Options  *tidy.Options `json:"options,omitempty"`

	// Clean parameters.
	Missing          *missingSpec `json:"missing,omitempty"`
	Outliers         *outlierSpec `json:"outliers,omitempty"`
	RemoveDuplicates bool         `json:"remove_duplicates,omitempty"`
	CleanStrings     bool         `json:"clean_strings,omitempty"`

	// Report parameters.
	Title string `json:"title,omitempty"`
}

type missingSpec struct {
	Strategy string   `json:"strategy"`
	Columns  []string `json:"columns,omitempty"`
}

type outlierSpec struct {
	Strategy string   `json:"strategy"`
	Columns  []string `json:"columns,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStrategies lists the conversion strategies with their descriptions.
func (a *App) handleStrategies(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        tidy.Strategy `json:"name"`
		Description string        `json:"description"`
	}
	var out []entry
	for _, s := range tidy.Strategies() {
		out = append(out, entry{Name: s, Description: s.Description()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"strategies": out})
}

// handleAnalyze classifies the table's columns and recommends a strategy.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	analysis := tidy.Analyze(req.Table)
	writeJSON(w, http.StatusOK, analysis)
}

// handleConvert runs a tidy conversion and returns the converted table
// alongside a shape summary.
func (a *App) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	strategy := tidy.Strategy(req.Strategy)
	opts := tidy.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	if opts.Separator == "" {
		opts.Separator = a.cfg.Convert.Separator
	}

	result, err := tidy.Convert(req.Table, strategy, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table": result,
		"summary": report.ConversionSummary{
			Strategy:      strategy,
			InputRows:     req.Table.NumRows(),
			OutputRows:    result.NumRows(),
			InputColumns:  req.Table.NumColumns(),
			OutputColumns: result.NumColumns(),
		},
	})
}

// handleProfile computes per-column and table-level statistics.
func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	profile, err := a.profiler.ProfileTable(r.Context(), req.Table)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleQuality scores the table 0-100.
func (a *App) handleQuality(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profiling.QualityScore(req.Table))
}

// handleClean applies the requested cleaning steps in a fixed order:
// missing values, duplicates, outliers, string tidying.
func (a *App) handleClean(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	result := req.Table
	var err error

	if req.Missing != nil {
		result, err = cleaning.HandleMissing(result, cleaning.MissingStrategy(req.Missing.Strategy), req.Missing.Columns)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if req.RemoveDuplicates {
		result = cleaning.RemoveDuplicates(result)
	}
	if req.Outliers != nil {
		result, err = cleaning.HandleOutliers(result, cleaning.OutlierStrategy(req.Outliers.Strategy), req.Outliers.Columns)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if req.CleanStrings {
		result = cleaning.CleanStrings(result, nil)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"table": result})
}

// handleReport analyzes, profiles, optionally converts, and renders the
// combined report as markdown plus HTML.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	analysis := tidy.Analyze(req.Table)
	quality := profiling.QualityScore(req.Table)
	profile, err := a.profiler.ProfileTable(r.Context(), req.Table)
	if err != nil {
		writeError(w, err)
		return
	}

	in := report.Input{
		Title:    req.Title,
		Analysis: &analysis,
		Profile:  profile,
		Quality:  &quality,
	}

	if req.Strategy != "" {
		strategy := tidy.Strategy(req.Strategy)
		opts := tidy.DefaultOptions()
		if req.Options != nil {
			opts = *req.Options
		}
		if opts.Separator == "" {
			opts.Separator = a.cfg.Convert.Separator
		}
		converted, err := tidy.Convert(req.Table, strategy, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Conversion = &report.ConversionSummary{
			Strategy:      strategy,
			InputRows:     req.Table.NumRows(),
			OutputRows:    converted.NumRows(),
			InputColumns:  req.Table.NumColumns(),
			OutputColumns: converted.NumColumns(),
		}
	}

	writeJSON(w, http.StatusOK, report.Generate(in))
}

// decodeRequest parses the request body and enforces the upload row cap.
// On failure it writes the error response and returns ok=false.
func (a *App) decodeRequest(w http.ResponseWriter, r *http.Request) (*tableRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperrors.InvalidInput("failed to read request body"))
		return nil, false
	}
	var req tableRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid request JSON: %v", err)))
		return nil, false
	}
	if req.Table == nil {
		writeError(w, apperrors.InvalidInput("request is missing the table field"))
		return nil, false
	}
	if req.Table.NumRows() > a.cfg.Server.MaxUploadRows {
		writeError(w, apperrors.InvalidInput(fmt.Sprintf(
			"table has %d rows, limit is %d", req.Table.NumRows(), a.cfg.Server.MaxUploadRows)))
		return nil, false
	}
	return &req, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		internal.DefaultLogger.Error("Failed to encode response: %v", err)
	}
}

// writeError maps domain and application errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperrors.GetCode(err)

	switch {
	case core.IsUnsupportedStrategy(err):
		status = http.StatusBadRequest
		code = apperrors.CodeUnsupported
	case core.IsInputError(err):
		status = http.StatusBadRequest
		code = apperrors.CodeInvalidInput
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
		code = apperrors.CodeNotFound
	case code == apperrors.CodeInvalidInput, code == apperrors.CodeValidationError:
		status = http.StatusBadRequest
	case code == apperrors.CodeUnsupported:
		status = http.StatusBadRequest
	case code == apperrors.CodeNotFound:
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}

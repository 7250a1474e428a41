package server

import (
	"io"
	"net/http"
)

// uploads are capped well above any realistic schedule document.
const maxUploadBytes = 10 << 20

type findRefRequest struct {
	Query string `json:"natural_language_query"`
}

// handleFindRef runs the matching engine against a natural language request.
func (s *Server) handleFindRef(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	var req findRefRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.match.FindBestRefs(r.Context(), league.ID, req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "matching failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleIngest accepts a multipart schedule upload and runs the ingestion
// pipeline. Pass use_llm=false to disable the extraction fallback.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	useLLM := r.FormValue("use_llm") != "false"

	result, err := s.ingest.Ingest(r.Context(), league.ID, header.Filename, data, useLLM)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

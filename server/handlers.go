package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"autolist/export"
	"autolist/generator"
	"autolist/models"
	"autolist/utils"
)

type generateRequest struct {
	PostURL  string `json:"post_url"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
}

type sourceInfo struct {
	URL       string   `json:"url,omitempty"`
	Author    string   `json:"author,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

type generateResponse struct {
	SessionID  string                   `json:"session_id"`
	Category   string                   `json:"category"`
	Listing    *models.Listing          `json:"listing"`
	Validation *models.ValidationResult `json:"validation"`
	Source     *sourceInfo              `json:"source,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "ok",
		"available_categories": len(s.catalog.Categories()),
		"pdf_export":           export.FindChromeBinary() != "" || s.cfg.ChromeBin != "",
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.catalog.Categories()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":       cats,
		"total_categories": len(cats),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, status, err := s.generateOne(r, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) generateOne(r *http.Request, req generateRequest) (*generateResponse, int, error) {
	if req.Caption == "" && req.PostURL == "" {
		return nil, http.StatusUnprocessableEntity, errors.New("either 'caption' or 'post_url' is required")
	}

	post := &models.RawPost{Caption: req.Caption, Platform: "direct", FetchedAt: time.Now()}
	if req.PostURL != "" {
		if s.fetcher == nil {
			return nil, http.StatusServiceUnavailable, errors.New("post fetching is not enabled on this server")
		}
		fetched, err := s.fetcher.Fetch(r.Context(), req.PostURL)
		if err != nil {
			return nil, http.StatusBadGateway, fmt.Errorf("fetch post: %w", err)
		}
		post = fetched
	}

	norm := s.normalizer.Normalize(post)
	category := req.Category
	if category == "" {
		category = s.catalog.Detect(norm.Caption, norm.Hashtags)
	}

	listing, err := s.gen.Generate(r.Context(), generator.Input{
		Caption:   norm.Caption,
		Hashtags:  norm.Hashtags,
		PriceHint: norm.PriceHint,
		Category:  category,
		ImageURLs: norm.ImageURLs,
	})
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("generate listing: %w", err)
	}

	validation := s.validator.Validate(listing)
	sess := s.sessions.create(listing, post)

	resp := &generateResponse{
		SessionID:  sess.ID,
		Category:   listing.Category,
		Listing:    listing,
		Validation: validation,
	}
	if post.URL != "" {
		resp.Source = &sourceInfo{URL: post.URL, Author: post.Author, ImageURLs: post.ImageURLs}
	}
	return resp, http.StatusOK, nil
}

type batchRequest struct {
	Posts []generateRequest `json:"posts"`
}

type batchItem struct {
	Index  int               `json:"index"`
	Result *generateResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

const maxBatchSize = 10

func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Posts) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "'posts' must not be empty")
		return
	}
	if len(req.Posts) > maxBatchSize {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("batch size %d exceeds maximum %d", len(req.Posts), maxBatchSize))
		return
	}

	items := make([]batchItem, len(req.Posts))
	pool := utils.NewWorkerPool(s.cfg.MaxConcurrency, s.cfg.RateLimitMs)
	seen := utils.NewStringSet()

	for i, p := range req.Posts {
		i, p := i, p
		if p.PostURL != "" && !seen.Add(p.PostURL) {
			items[i] = batchItem{Index: i, Error: fmt.Sprintf("duplicate post URL %s", p.PostURL)}
			continue
		}
		pool.Submit(func() {
			resp, _, err := s.generateOne(r, p)
			if err != nil {
				items[i] = batchItem{Index: i, Error: err.Error()}
				return
			}
			items[i] = batchItem{Index: i, Result: resp}
		})
	}
	pool.Wait()

	successful := 0
	for _, it := range items {
		if it.Error == "" {
			successful++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_processed": len(items),
		"successful":      successful,
		"failed":          len(items) - successful,
		"results":         items,
	})
}

type validateRequest struct {
	Listing *models.Listing `json:"listing"`
	AutoFix bool            `json:"auto_fix"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Listing == nil {
		writeError(w, http.StatusUnprocessableEntity, "'listing' is required")
		return
	}

	if req.AutoFix {
		writeJSON(w, http.StatusOK, s.validator.AutoFix(req.Listing))
		return
	}
	writeJSON(w, http.StatusOK, s.validator.Validate(req.Listing))
}

type exportRequest struct {
	Listing *models.Listing `json:"listing"`
	Format  string          `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Listing == nil {
		writeError(w, http.StatusUnprocessableEntity, "'listing' is required")
		return
	}
	s.serveExport(w, r, req.Listing, req.Format)
}

func (s *Server) handleListingGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "listing session not found")
		return
	}
	resp := &generateResponse{SessionID: sess.ID, Category: sess.Listing.Category, Listing: sess.Listing}
	if sess.Source != nil && sess.Source.URL != "" {
		resp.Source = &sourceInfo{URL: sess.Source.URL, Author: sess.Source.Author, ImageURLs: sess.Source.ImageURLs}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListingUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := s.sessions.update(id, &listing)
	if !ok {
		writeError(w, http.StatusNotFound, "listing session not found")
		return
	}
	writeJSON(w, http.StatusOK, &generateResponse{
		SessionID:  sess.ID,
		Category:   sess.Listing.Category,
		Listing:    sess.Listing,
		Validation: s.validator.Validate(sess.Listing),
	})
}

func (s *Server) handleListingAnalytics(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "listing session not found")
		return
	}
	validation := s.validator.Validate(sess.Listing)
	writeJSON(w, http.StatusOK, s.analytics.Analyze(sess.Listing, validation))
}

func (s *Server) handleListingExport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, ok := s.sessions.get(vars["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "listing session not found")
		return
	}
	s.serveExport(w, r, sess.Listing, vars["format"])
}

// serveExport renders the listing and streams it as an attachment.
// PDF failures surface the renderer's stable error message with 502 so
// the frontend shows one consistent notification.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, listing *models.Listing, format string) {
	f, err := export.ParseFormat(format)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	file, err := s.exporter.Export(r.Context(), listing, f)
	if err != nil {
		if errors.Is(err, export.ErrRendererUnavailable) || errors.Is(err, export.ErrConversionFailed) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

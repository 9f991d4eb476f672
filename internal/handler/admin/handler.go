package admin

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/service/answer"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// maxUploadBytes bounds one upload request; policy documents are small PDFs.
const maxUploadBytes = 64 << 20

// Handler serves the admin ingestion endpoints. Upload and reingest stay
// decoupled so several uploads can share a single index rebuild.
type Handler struct {
	answers *answer.Client
	authmw  *middleware.Authenticator
}

// New creates the admin handler.
func New(answers *answer.Client, authmw *middleware.Authenticator) *Handler {
	return &Handler{answers: answers, authmw: authmw}
}

// RegisterRoutes registers the admin routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Post("/upload", h.handleUpload)
		r.Post("/reingest", h.handleReingest)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	// The frontend posts everything under "files"; fall back to scanning all
	// fields so order is preserved in the common case.
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		for _, fieldHeaders := range r.MultipartForm.File {
			headers = append(headers, fieldHeaders...)
		}
	}

	var docs []answer.Document
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "unreadable file in upload")
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "unreadable file in upload")
			return
		}
		docs = append(docs, answer.Document{Name: header.Filename, Content: content})
	}

	if len(docs) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	if err := h.answers.Upload(r.Context(), docs); err != nil {
		log.Printf("[admin] upload of %d file(s) failed: %v", len(docs), err)
		utils.RespondError(w, http.StatusBadGateway, "upload failed, try again later")
		return
	}

	log.Printf("[admin] forwarded %d file(s) to the answering service", len(docs))
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleReingest(w http.ResponseWriter, r *http.Request) {
	if err := h.answers.Reingest(r.Context()); err != nil {
		log.Printf("[admin] reingest trigger failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "reingest failed, try again later")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

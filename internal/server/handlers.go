package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/pipeline"
	"github.com/hyunwoo-dev/paperlens/internal/store"
)

const maxUploadBytes = 64 << 20

// defaultUserEmail identifies the account used when an upload carries no
// user_id.
const defaultUserEmail = "test@example.com"

type uploadResponse struct {
	Message    string `json:"message,omitempty"`
	Filename   string `json:"filename,omitempty"`
	DocumentID string `json:"document_id"`
	Summary    string `json:"summary"`
	Domain     string `json:"domain"`
	Answer     string `json:"answer,omitempty"`
}

type documentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Summary    string    `json:"summary"`
	Domain     string    `json:"domain"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type qaRecordResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type askExistingRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	question := r.FormValue("question")

	user, err := s.resolveUser(r)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A re-upload of the same filename returns the stored analysis instead
	// of running the pipeline again.
	if existing, err := s.store.GetDocumentByUserAndFilename(r.Context(), user.ID, header.Filename); err == nil {
		writeJSON(w, http.StatusOK, uploadResponse{
			Message:    "File already uploaded.",
			DocumentID: existing.ID,
			Summary:    existing.Summary,
			Domain:     existing.Domain,
		})
		return
	}

	path, err := s.saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := s.extractDoc(path)
	if err != nil {
		// No document record exists yet, so keep the upload dir consistent.
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("removing failed upload %s: %v", path, rmErr)
		}
		writeError(w, http.StatusUnprocessableEntity, "could not extract text: "+err.Error())
		return
	}
	meta := chunker.Meta{Title: doc.Meta.Title, Source: doc.Meta.Source}

	var st *pipeline.State
	if question != "" {
		st, err = s.analyzer.AnalyzeAndAnswer(r.Context(), doc.Text, meta, question)
	} else {
		st, err = s.analyzer.Analyze(r.Context(), doc.Text, meta)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	for _, fault := range st.Faults {
		log.Printf("upload %s: %v", header.Filename, fault)
	}

	record := &store.Document{
		UserID:   user.ID,
		Filename: header.Filename,
		FilePath: path,
		Summary:  st.Summary,
		Domain:   st.Domain,
	}
	if err := s.store.CreateDocument(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.analyzer.CacheRetriever(record.ID, st.Retriever)

	if question != "" {
		qa := &store.QARecord{DocumentID: record.ID, Question: question, Answer: st.Answer}
		if err := s.store.SaveQA(r.Context(), qa); err != nil {
			log.Printf("saving qa record: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Filename:   header.Filename,
		DocumentID: record.ID,
		Summary:    st.Summary,
		Domain:     st.Domain,
		Answer:     st.Answer,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponses(docs))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.analyzer.EvictRetriever(id)

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("removing %s: %v", doc.FilePath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

func (s *Server) handleAskExisting(w http.ResponseWriter, r *http.Request) {
	var req askExistingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "document_id and question are required")
		return
	}

	doc, err := s.store.GetDocument(r.Context(), req.DocumentID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	// Rebuild the index from the stored file if the retriever has been
	// evicted. Extraction failure degrades to the QA stage's fixed
	// no-index answer.
	if !s.analyzer.HasRetriever(doc.ID) {
		if extracted, err := s.extractDoc(doc.FilePath); err == nil {
			meta := chunker.Meta{Title: extracted.Meta.Title, Source: extracted.Meta.Source}
			if _, err := s.analyzer.Index(r.Context(), doc.ID, extracted.Text, meta); err != nil {
				log.Printf("reindexing %s: %v", doc.ID, err)
			}
		} else {
			log.Printf("re-extracting %s: %v", doc.FilePath, err)
		}
	}

	answer, err := s.analyzer.AnswerExisting(r.Context(), doc.ID, req.Question)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	qa := &store.QARecord{DocumentID: doc.ID, Question: req.Question, Answer: answer}
	if err := s.store.SaveQA(r.Context(), qa); err != nil {
		log.Printf("saving qa record: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleQAHistory(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	records, err := s.store.ListQAByDocument(r.Context(), documentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]qaRecordResponse, len(records))
	for i, rec := range records {
		out[i] = qaRecordResponse{
			ID:        rec.ID,
			Question:  rec.Question,
			Answer:    rec.Answer,
			CreatedAt: rec.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocumentsByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	docs, err := s.store.ListDocumentsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponses(docs))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}

// resolveUser looks up the user named by the user_id form field, or falls
// back to the shared default account, creating it on first use.
func (s *Server) resolveUser(r *http.Request) (*store.User, error) {
	if userID := r.FormValue("user_id"); userID != "" {
		return s.store.GetUser(r.Context(), userID)
	}

	user, err := s.store.GetUserByEmail(r.Context(), defaultUserEmail)
	if errors.Is(err, store.ErrNotFound) {
		user = &store.User{Email: defaultUserEmail}
		if createErr := s.store.CreateUser(r.Context(), user); createErr != nil {
			return nil, createErr
		}
		return user, nil
	}
	return user, err
}

func (s *Server) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.cfg.UploadDir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func toDocumentResponses(docs []store.Document) []documentResponse {
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentResponse{
			ID:         d.ID,
			Filename:   d.Filename,
			Summary:    d.Summary,
			Domain:     d.Domain,
			UploadedAt: d.UploadedAt,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

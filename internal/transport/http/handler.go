package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"quiz-grading-service/internal/app"
	"quiz-grading-service/internal/domain"
)

// Handler wires the quiz REST API. The answer key only ever leaves through
// the authoring write responses; quiz reads are sanitized.
type Handler struct {
	authoring *app.AuthoringService
	grading   *app.GradingService
	feed      *FeedHandler
	secret    []byte
}

func NewHandler(authoring *app.AuthoringService, grading *app.GradingService, feed *FeedHandler, secret []byte) *Handler {
	return &Handler{authoring: authoring, grading: grading, feed: feed, secret: secret}
}

// Router builds the chi router for the service.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/quizzes", func(r chi.Router) {
		r.Post("/", h.createQuiz)
		r.Get("/{quizID}", h.getQuiz)
		r.Put("/{quizID}", h.updateQuiz)
		r.Delete("/{quizID}", h.deleteQuiz)
		r.With(Identity(h.secret)).Post("/{quizID}/submit", h.submitQuiz)
	})

	if h.feed != nil {
		r.Get("/ws/feed", h.feed.ServeWS)
	}
	return r
}

// questionView is a question with the answer key stripped.
type questionView struct {
	Text                string              `json:"text"`
	Type                domain.QuestionType `json:"type"`
	AnswerOptions       []string            `json:"answerOptions,omitempty"`
	AnswerSelectionType string              `json:"answerSelectionType,omitempty"`
	Points              int                 `json:"points"`
}

type quizView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CourseID    string         `json:"courseId,omitempty"`
	SectionID   string         `json:"sectionId,omitempty"`
	Questions   []questionView `json:"questions"`
}

func sanitize(quiz domain.Quiz) quizView {
	questions := make([]questionView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = questionView{
			Text:                q.Text,
			Type:                q.Type,
			AnswerOptions:       q.AnswerOptions,
			AnswerSelectionType: q.AnswerSelectionType,
			Points:              q.Points,
		}
	}
	return quizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		CourseID:    quiz.CourseID,
		SectionID:   quiz.SectionID,
		Questions:   questions,
	}
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.authoring.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitize(quiz))
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var draft domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid quiz payload"})
		return
	}
	created, err := h.authoring.CreateQuiz(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	var draft domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid quiz payload"})
		return
	}
	updated, err := h.authoring.UpdateQuiz(r.Context(), chi.URLParam(r, "quizID"), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.authoring.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	Answers     []any `json:"answers"`
	TimeSpentMs int64 `json:"timeSpentMs"`
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid submission payload"})
		return
	}
	result, err := h.grading.Submit(r.Context(), UserID(r.Context()),
		chi.URLParam(r, "quizID"), req.Answers, time.Duration(req.TimeSpentMs)*time.Millisecond)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type errorBody struct {
	Error    string `json:"error"`
	Question int    `json:"question,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: err.Error()}

	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrQuizNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyCompleted):
		status = http.StatusConflict
	case errors.As(err, &vErr):
		status = http.StatusUnprocessableEntity
		body.Question = vErr.Question
	default:
		// Storage and cache errors stay in the log, not the response.
		log.Printf("request failed: %v", err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

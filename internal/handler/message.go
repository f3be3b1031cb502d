package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/middleware"
	"github.com/timecapsule/capsule/internal/model"
	"github.com/timecapsule/capsule/internal/repository"
)

type MessageHandler struct {
	messageRepo repository.MessageRepository
	now         func() time.Time
}

func NewMessageHandler(messageRepo repository.MessageRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, now: time.Now}
}

func (h *MessageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{messageID}", h.Get)
	r.Put("/{messageID}", h.Update)
	r.Delete("/{messageID}", h.Delete)

	return r
}

// GET /api/v1/messages/
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	msgs, err := h.messageRepo.FindByUserID(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to list messages")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, paginate(msgs, ParsePagination(r)))
}

// POST /api/v1/messages/
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var draft model.MessageDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	if violations := model.ValidateDraft(draft, h.now()); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	msg, err := h.messageRepo.Create(r.Context(), user.ID, draft)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create message")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to create message")
		return
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("message_id", msg.ID).
		Str("delivery_date", msg.DeliveryDate.String()).
		Msg("message scheduled")

	writeJSON(w, http.StatusOK, msg)
}

// GET /api/v1/messages/{messageID}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// PUT /api/v1/messages/{messageID}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stored, ok := h.load(w, r)
	if !ok {
		return
	}
	if stored.IsDelivered {
		writeError(w, http.StatusConflict, apperrors.ErrCodeInvalidRequest, "Message already delivered")
		return
	}

	var update model.MessageUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	draft := update.Draft(stored.GenerationSettings)
	if violations := model.ValidateMessage(draft.Message()); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	msg, err := h.messageRepo.Update(r.Context(), user.ID, stored.ID, draft)
	if err != nil {
		log.Error().Err(err).Int64("message_id", stored.ID).Msg("failed to update message")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to update message")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeNotFound, "Message not found")
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// DELETE /api/v1/messages/{messageID}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stored, ok := h.load(w, r)
	if !ok {
		return
	}
	if stored.IsDelivered {
		writeError(w, http.StatusConflict, apperrors.ErrCodeInvalidRequest, "Message already delivered")
		return
	}

	if _, err := h.messageRepo.Delete(r.Context(), user.ID, stored.ID); err != nil {
		log.Error().Err(err).Int64("message_id", stored.ID).Msg("failed to delete message")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to delete message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *MessageHandler) load(w http.ResponseWriter, r *http.Request) (*model.Message, bool) {
	user := middleware.GetUser(r.Context())

	id, ok := idParam(w, r, "messageID")
	if !ok {
		return nil, false
	}

	msg, err := h.messageRepo.FindByID(r.Context(), user.ID, id)
	if err != nil {
		log.Error().Err(err).Int64("message_id", id).Msg("failed to load message")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to load message")
		return nil, false
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeNotFound, "Message not found")
		return nil, false
	}
	return msg, true
}

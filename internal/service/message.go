package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/model"
)

// MessageService is the client for the messages collection. It keeps no
// cache; callers own the lists they build from its results.
type MessageService struct {
	api API
	now func() time.Time
}

func NewMessageService(api API) *MessageService {
	return &MessageService{api: api, now: time.Now}
}

func messagePath(id int64) string {
	return fmt.Sprintf("/messages/%d", id)
}

// List returns the caller's messages in server order.
func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message
	if err := s.api.Do(ctx, http.MethodGet, "/messages/", nil, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

func (s *MessageService) Get(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	if err := s.api.Do(ctx, http.MethodGet, messagePath(id), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Create validates the draft locally and submits it. A draft with
// violations is rejected before any request is made.
func (s *MessageService) Create(ctx context.Context, draft model.MessageDraft) (*model.Message, error) {
	if err := model.ViolationError(model.ValidateDraft(draft, s.now())); err != nil {
		return nil, err
	}

	var msg model.Message
	if err := s.api.Do(ctx, http.MethodPost, "/messages/", draft, &msg); err != nil {
		return nil, err
	}

	log.Info().
		Int64("message_id", msg.ID).
		Str("delivery_method", string(msg.DeliveryMethod)).
		Str("delivery_date", msg.DeliveryDate.String()).
		Msg("message scheduled")

	return &msg, nil
}

// Update replaces the writable fields of a message with msg. Delivered
// messages are refused locally. The delivery date is not re-checked
// against the clock. Cleared fields are sent explicitly.
func (s *MessageService) Update(ctx context.Context, id int64, msg model.Message) (*model.Message, error) {
	if msg.IsDelivered {
		return nil, apperrors.AlreadyDelivered()
	}
	if err := model.ViolationError(model.ValidateMessage(msg)); err != nil {
		return nil, err
	}

	var updated model.Message
	if err := s.api.Do(ctx, http.MethodPut, messagePath(id), msg.Update(), &updated); err != nil {
		return nil, err
	}

	log.Info().Int64("message_id", id).Msg("message updated")
	return &updated, nil
}

// Patch fetches the message, overlays edit and submits the result.
func (s *MessageService) Patch(ctx context.Context, id int64, edit model.MessageEdit) (*model.Message, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if edit.IsEmpty() {
		return current, nil
	}
	return s.Update(ctx, id, edit.Apply(*current))
}

// Delete removes a message. A message that is already gone counts as
// deleted.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	err := s.api.Do(ctx, http.MethodDelete, messagePath(id), nil, nil)
	if apperrors.Is(err, apperrors.ErrCodeNotFound) {
		log.Debug().Int64("message_id", id).Msg("message already deleted")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().Int64("message_id", id).Msg("message deleted")
	return nil
}

// DeleteMessage refuses delivered messages locally and deletes the rest.
func (s *MessageService) DeleteMessage(ctx context.Context, msg model.Message) error {
	if msg.IsDelivered {
		return apperrors.AlreadyDelivered()
	}
	return s.Delete(ctx, msg.ID)
}

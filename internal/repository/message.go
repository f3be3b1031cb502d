package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/timecapsule/capsule/internal/model"
)

type MessageRepository interface {
	FindByID(ctx context.Context, userID, id int64) (*model.Message, error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Message, error)
	Create(ctx context.Context, userID int64, draft model.MessageDraft) (*model.Message, error)
	Update(ctx context.Context, userID, id int64, draft model.MessageDraft) (*model.Message, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	MarkDueDelivered(ctx context.Context, now time.Time) (int64, error)
}

type memoryMessageRepo struct {
	mu       sync.RWMutex
	nextID   int64
	messages map[int64]model.Message
	now      func() time.Time
}

// NewMemoryMessageRepository returns the stub backend's message store.
// Lookups are scoped to the owning user; another user's message is reported
// as missing.
func NewMemoryMessageRepository() MessageRepository {
	return &memoryMessageRepo{
		nextID:   1,
		messages: make(map[int64]model.Message),
		now:      time.Now,
	}
}

func (r *memoryMessageRepo) FindByID(_ context.Context, userID, id int64) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(userID, id), nil
}

func (r *memoryMessageRepo) find(userID, id int64) *model.Message {
	msg, ok := r.messages[id]
	if !ok || msg.UserID != userID {
		return nil
	}
	msg = msg.Clone()
	return &msg
}

func (r *memoryMessageRepo) FindByUserID(_ context.Context, userID int64) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]model.Message, 0)
	for id, msg := range r.messages {
		if msg.UserID == userID {
			msgs = append(msgs, *r.find(userID, id))
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })
	return msgs, nil
}

func (r *memoryMessageRepo) Create(_ context.Context, userID int64, draft model.MessageDraft) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := model.NewTimestamp(r.now())
	msg := draft.Message()
	msg.ID = r.nextID
	msg.UserID = userID
	msg.IsDelivered = false
	msg.CreatedAt = &created
	r.messages[msg.ID] = msg
	r.nextID++
	return r.find(userID, msg.ID), nil
}

func (r *memoryMessageRepo) Update(_ context.Context, userID, id int64, draft model.MessageDraft) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(userID, id)
	if stored == nil {
		return nil, nil
	}
	updated := model.NewTimestamp(r.now())
	msg := draft.Message()
	msg.ID, msg.UserID, msg.IsDelivered = stored.ID, stored.UserID, stored.IsDelivered
	msg.CreatedAt = stored.CreatedAt
	msg.UpdatedAt = &updated
	r.messages[id] = msg
	return r.find(userID, id), nil
}

func (r *memoryMessageRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(userID, id) == nil {
		return false, nil
	}
	delete(r.messages, id)
	return true, nil
}

// MarkDueDelivered flips is_delivered for every pending message whose
// delivery date is not after now. Delivered messages never revert.
func (r *memoryMessageRepo) MarkDueDelivered(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, msg := range r.messages {
		if msg.IsDelivered || msg.DeliveryDate.After(now) {
			continue
		}
		msg.IsDelivered = true
		updated := model.NewTimestamp(now)
		msg.UpdatedAt = &updated
		r.messages[id] = msg
		count++
	}
	return count, nil
}

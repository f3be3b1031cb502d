package form

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsule/capsule/internal/model"
)

func storedMessage() model.Message {
	return model.Message{
		ID:                 1,
		Title:              "Original",
		Content:            "Body",
		DeliveryDate:       model.NewTimestamp(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		DeliveryMethod:     model.DeliveryEmail,
		RecipientEmail:     "a@b.com",
		GenerationSettings: model.DefaultGenerationSettings(),
	}
}

func editing(t *testing.T) MessageState {
	t.Helper()
	s, err := Reduce(MessageState{Entity: storedMessage()}, BeginEdit{})
	require.NoError(t, err)
	return s
}

func TestReduce_Table(t *testing.T) {
	failure := errors.New("boom")

	tests := []struct {
		name   string
		from   Phase
		action Action
		to     Phase
	}{
		{"begin edit", Viewing, BeginEdit{}, Editing},
		{"field change", Editing, FieldChange{Field: "title", Value: "x"}, Editing},
		{"cancel editing", Editing, Cancel{}, Viewing},
		{"submit", Editing, Submit{}, Submitting},
		{"success", Submitting, Success[model.Message]{Entity: storedMessage()}, Viewing},
		{"failure", Submitting, Failure{Err: failure}, Failed},
		{"retry", Failed, Retry{}, Submitting},
		{"cancel failed", Failed, Cancel{}, Viewing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Reduce(MessageState{Phase: tc.from, Entity: storedMessage()}, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.to, next.Phase)
		})
	}
}

func TestReduce_RejectsTransitionsOutsideTable(t *testing.T) {
	tests := []struct {
		from   Phase
		action Action
	}{
		{Viewing, Submit{}},
		{Viewing, FieldChange{Field: "title", Value: "x"}},
		{Viewing, Cancel{}},
		{Editing, BeginEdit{}},
		{Editing, Retry{}},
		{Editing, Success[model.Message]{}},
		{Submitting, Submit{}},
		{Submitting, Cancel{}},
		{Submitting, FieldChange{Field: "title", Value: "x"}},
		{Failed, Submit{}},
		{Failed, FieldChange{Field: "title", Value: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.from.String()+" "+tc.action.name(), func(t *testing.T) {
			state := MessageState{Phase: tc.from, Entity: storedMessage()}
			next, err := Reduce(state, tc.action)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, state, next)
		})
	}
}

func TestReduce_PendingEdits(t *testing.T) {
	t.Run("field changes overlay without touching the entity", func(t *testing.T) {
		s := editing(t)
		s, err := Reduce(s, FieldChange{Field: "title", Value: "Changed"})
		require.NoError(t, err)

		assert.Equal(t, "Original", s.Entity.Title)
		assert.Equal(t, "Changed", s.Candidate().Title)
	})

	t.Run("generation settings merge one key", func(t *testing.T) {
		s := editing(t)
		s, err := Reduce(s, FieldChange{Field: "generation_settings.tone", Value: "formal"})
		require.NoError(t, err)

		gs := s.Candidate().GenerationSettings
		assert.Equal(t, model.ToneFormal, gs.Tone)
		assert.Equal(t, model.LengthMedium, gs.Length)
		assert.Equal(t, model.StylePersonal, gs.Style)
	})

	t.Run("rejected field keeps state", func(t *testing.T) {
		s := editing(t)
		next, err := Reduce(s, FieldChange{Field: "is_delivered", Value: "true"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, s, next)
	})

	t.Run("cancel discards pending", func(t *testing.T) {
		s := editing(t)
		s, _ = Reduce(s, FieldChange{Field: "title", Value: "Changed"})
		s, err := Reduce(s, Cancel{})
		require.NoError(t, err)
		assert.True(t, s.Pending.IsEmpty())
		assert.Equal(t, "Original", s.Candidate().Title)
	})

	t.Run("failure preserves pending and surfaces error", func(t *testing.T) {
		s := editing(t)
		s, _ = Reduce(s, FieldChange{Field: "title", Value: "Changed"})
		s, _ = Reduce(s, Submit{})

		failure := errors.New("server unavailable")
		s, err := Reduce(s, Failure{Err: failure})
		require.NoError(t, err)
		assert.Equal(t, Failed, s.Phase)
		assert.Equal(t, failure, s.Err)
		assert.Equal(t, "Changed", s.Candidate().Title)

		s, err = Reduce(s, Retry{})
		require.NoError(t, err)
		assert.Nil(t, s.Err)
		assert.Equal(t, "Changed", s.Candidate().Title)
	})

	t.Run("success replaces entity and clears pending", func(t *testing.T) {
		s := editing(t)
		s, _ = Reduce(s, FieldChange{Field: "title", Value: "Changed"})
		s, _ = Reduce(s, Submit{})

		stored := storedMessage()
		stored.Title = "Changed"
		s, err := Reduce(s, Success[model.Message]{Entity: stored})
		require.NoError(t, err)
		assert.Equal(t, Viewing, s.Phase)
		assert.Equal(t, "Changed", s.Entity.Title)
		assert.True(t, s.Pending.IsEmpty())
	})
}

func TestMessageViolations_ConditionalPhone(t *testing.T) {
	s := editing(t)
	assert.Empty(t, MessageViolations(s))
	assert.NotContains(t, MessageRequiredFields(s), "recipient_phone")

	s, err := Reduce(s, FieldChange{Field: "delivery_method", Value: "both"})
	require.NoError(t, err)
	assert.Contains(t, MessageRequiredFields(s), "recipient_phone")
	require.Len(t, MessageViolations(s), 1)
	assert.Equal(t, "recipient_phone", MessageViolations(s)[0].Field)

	s, err = Reduce(s, FieldChange{Field: "delivery_method", Value: "email"})
	require.NoError(t, err)
	assert.Empty(t, MessageViolations(s))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}

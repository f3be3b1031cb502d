package form

import "github.com/timecapsule/capsule/internal/model"

type (
	MessageState = State[model.Message, model.MessageEdit]
	MessageForm  = Controller[model.Message, model.MessageEdit]
	ProfileState = State[model.UserProfile, model.ProfileEdit]
	ProfileForm  = Controller[model.UserProfile, model.ProfileEdit]
)

func NewMessageForm(msg model.Message, commit CommitFunc[model.Message]) *MessageForm {
	return NewController[model.Message, model.MessageEdit](msg, commit)
}

func NewProfileForm(profile model.UserProfile, commit CommitFunc[model.UserProfile]) *ProfileForm {
	return NewController[model.UserProfile, model.ProfileEdit](profile, commit)
}

// MessageViolations validates the candidate of a message form.
// recipient_phone is only reported while the method is sms or both.
func MessageViolations(s MessageState) []model.Violation {
	return model.ValidateMessage(s.Candidate())
}

// MessageRequiredFields lists the fields the form must collect for its
// current candidate.
func MessageRequiredFields(s MessageState) []string {
	return model.RequiredFields(s.Candidate())
}

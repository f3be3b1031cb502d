package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenerationSettingsEdit overlays single generation settings.
type GenerationSettingsEdit struct {
	Tone   *Tone
	Length *Length
	Style  *Style
}

func (e GenerationSettingsEdit) apply(gs GenerationSettings) GenerationSettings {
	if gs.IsZero() {
		gs = DefaultGenerationSettings()
	}
	if e.Tone != nil {
		gs.Tone = *e.Tone
	}
	if e.Length != nil {
		gs.Length = *e.Length
	}
	if e.Style != nil {
		gs.Style = *e.Style
	}
	return gs
}

// MessageEdit is a pending, unsaved overlay of a message. Nil fields are
// left untouched when the edit is applied.
type MessageEdit struct {
	Title              *string
	Content            *string
	MediaURLs          *[]string
	DeliveryDate       *Timestamp
	DeliveryMethod     *DeliveryMethod
	RecipientEmail     *string
	RecipientPhone     *string
	PersonalityProfile map[string]any
	GenerationSettings *GenerationSettingsEdit
}

// MessageFields lists the field names accepted by MessageEdit.With.
var MessageFields = []string{
	"title", "content", "media_urls", "delivery_date", "delivery_method",
	"recipient_email", "recipient_phone", "personality_profile",
	"generation_settings.tone", "generation_settings.length", "generation_settings.style",
}

// With returns a copy of the edit with one field set from its textual form.
// Generation settings are addressed per key and merged one level deep, so
// setting the tone keeps a pending length or style.
func (e MessageEdit) With(field, value string) (MessageEdit, error) {
	switch field {
	case "title":
		e.Title = &value
	case "content":
		e.Content = &value
	case "media_urls":
		urls := splitList(value)
		e.MediaURLs = &urls
	case "delivery_date":
		ts, err := ParseTimestamp(value)
		if err != nil {
			return e, err
		}
		e.DeliveryDate = &ts
	case "delivery_method":
		method := DeliveryMethod(value)
		e.DeliveryMethod = &method
	case "recipient_email":
		e.RecipientEmail = &value
	case "recipient_phone":
		e.RecipientPhone = &value
	case "personality_profile":
		profile := map[string]any{}
		if value != "" {
			if err := json.Unmarshal([]byte(value), &profile); err != nil {
				return e, fmt.Errorf("personality_profile must be a JSON object: %w", err)
			}
		}
		e.PersonalityProfile = profile
	case "generation_settings.tone", "generation_settings.length", "generation_settings.style":
		gs := GenerationSettingsEdit{}
		if e.GenerationSettings != nil {
			gs = *e.GenerationSettings
		}
		switch strings.TrimPrefix(field, "generation_settings.") {
		case "tone":
			tone := Tone(value)
			gs.Tone = &tone
		case "length":
			length := Length(value)
			gs.Length = &length
		case "style":
			style := Style(value)
			gs.Style = &style
		}
		e.GenerationSettings = &gs
	default:
		return e, fmt.Errorf("unknown message field %q", field)
	}
	return e, nil
}

// Apply overlays the edit on a copy of m.
func (e MessageEdit) Apply(m Message) Message {
	out := m.Clone()

	if e.Title != nil {
		out.Title = *e.Title
	}
	if e.Content != nil {
		out.Content = *e.Content
	}
	if e.MediaURLs != nil {
		out.MediaURLs = cloneStrings(*e.MediaURLs)
	}
	if e.DeliveryDate != nil {
		out.DeliveryDate = *e.DeliveryDate
	}
	if e.DeliveryMethod != nil {
		out.DeliveryMethod = *e.DeliveryMethod
	}
	if e.RecipientEmail != nil {
		out.RecipientEmail = *e.RecipientEmail
	}
	if e.RecipientPhone != nil {
		out.RecipientPhone = *e.RecipientPhone
	}
	if e.PersonalityProfile != nil {
		out.PersonalityProfile = cloneMap(e.PersonalityProfile)
	}
	if e.GenerationSettings != nil {
		out.GenerationSettings = e.GenerationSettings.apply(m.GenerationSettings)
	}
	return out
}

func (e MessageEdit) IsEmpty() bool {
	return e.Title == nil && e.Content == nil && e.MediaURLs == nil &&
		e.DeliveryDate == nil && e.DeliveryMethod == nil && e.RecipientEmail == nil &&
		e.RecipientPhone == nil && e.PersonalityProfile == nil && e.GenerationSettings == nil
}

// RequiredFields lists the fields a form must collect for the edited
// message. recipient_phone is only listed for sms and both delivery.
func RequiredFields(m Message) []string {
	fields := []string{"title", "content", "delivery_date", "delivery_method", "recipient_email"}
	if m.DeliveryMethod.RequiresPhone() {
		fields = append(fields, "recipient_phone")
	}
	return fields
}

// ProfileEdit is a pending overlay of the user profile.
type ProfileEdit struct {
	Email           *string
	FullName        *string
	PersonalityData *JSONBlob
}

var ProfileFields = []string{"email", "full_name", "personality_data"}

func (e ProfileEdit) With(field, value string) (ProfileEdit, error) {
	switch field {
	case "email":
		e.Email = &value
	case "full_name":
		e.FullName = &value
	case "personality_data":
		blob := ParseJSONBlob(value)
		e.PersonalityData = &blob
	default:
		return e, fmt.Errorf("unknown profile field %q", field)
	}
	return e, nil
}

func (e ProfileEdit) Apply(p UserProfile) UserProfile {
	out := p
	if e.Email != nil {
		out.Email = *e.Email
	}
	if e.FullName != nil {
		out.FullName = *e.FullName
	}
	if e.PersonalityData != nil {
		out.PersonalityData = *e.PersonalityData
	}
	return out
}

func (e ProfileEdit) IsEmpty() bool {
	return e.Email == nil && e.FullName == nil && e.PersonalityData == nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

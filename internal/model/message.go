package model

// GenerationSettings are forwarded untouched to the content generator.
type GenerationSettings struct {
	Tone   Tone   `json:"tone" yaml:"tone"`
	Length Length `json:"length" yaml:"length"`
	Style  Style  `json:"style" yaml:"style"`
}

// IsZero reports whether no setting is present, as for messages the
// server stored without generation settings.
func (gs GenerationSettings) IsZero() bool {
	return gs == GenerationSettings{}
}

func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		Tone:   ToneWarm,
		Length: LengthMedium,
		Style:  StylePersonal,
	}
}

type Message struct {
	ID                 int64              `json:"id" yaml:"id"`
	UserID             int64              `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Title              string             `json:"title" yaml:"title"`
	Content            string             `json:"content" yaml:"content"`
	MediaURLs          []string           `json:"media_urls,omitempty" yaml:"media_urls,omitempty"`
	DeliveryDate       Timestamp          `json:"delivery_date" yaml:"delivery_date"`
	DeliveryMethod     DeliveryMethod     `json:"delivery_method" yaml:"delivery_method"`
	RecipientEmail     string             `json:"recipient_email" yaml:"recipient_email"`
	RecipientPhone     string             `json:"recipient_phone,omitempty" yaml:"recipient_phone,omitempty"`
	PersonalityProfile map[string]any     `json:"personality_profile,omitempty" yaml:"personality_profile,omitempty"`
	GenerationSettings GenerationSettings `json:"generation_settings" yaml:"generation_settings"`
	IsDelivered        bool               `json:"is_delivered" yaml:"is_delivered"`
	CreatedAt          *Timestamp         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt          *Timestamp         `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (m Message) Status() MessageStatus {
	if m.IsDelivered {
		return MessageStatusDelivered
	}
	return MessageStatusPending
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	out.MediaURLs = cloneStrings(m.MediaURLs)
	out.PersonalityProfile = cloneMap(m.PersonalityProfile)
	return out
}

// Draft returns the writable representation of the message, the body sent
// on create.
func (m Message) Draft() MessageDraft {
	return MessageDraft{
		Title:              m.Title,
		Content:            m.Content,
		MediaURLs:          cloneStrings(m.MediaURLs),
		DeliveryDate:       m.DeliveryDate,
		DeliveryMethod:     m.DeliveryMethod,
		RecipientEmail:     m.RecipientEmail,
		RecipientPhone:     m.RecipientPhone,
		PersonalityProfile: cloneMap(m.PersonalityProfile),
		GenerationSettings: m.GenerationSettings,
	}
}

// MessageUpdate is the full writable representation sent on PUT. Cleared
// fields are sent explicitly so the server overwrites them. Generation
// settings the server never stored stay absent.
type MessageUpdate struct {
	Title              string              `json:"title"`
	Content            string              `json:"content"`
	MediaURLs          []string            `json:"media_urls"`
	DeliveryDate       Timestamp           `json:"delivery_date"`
	DeliveryMethod     DeliveryMethod      `json:"delivery_method"`
	RecipientEmail     string              `json:"recipient_email"`
	RecipientPhone     string              `json:"recipient_phone"`
	PersonalityProfile map[string]any      `json:"personality_profile"`
	GenerationSettings *GenerationSettings `json:"generation_settings,omitempty"`
}

// Update returns the PUT body for the message.
func (m Message) Update() MessageUpdate {
	u := MessageUpdate{
		Title:              m.Title,
		Content:            m.Content,
		MediaURLs:          cloneStrings(m.MediaURLs),
		DeliveryDate:       m.DeliveryDate,
		DeliveryMethod:     m.DeliveryMethod,
		RecipientEmail:     m.RecipientEmail,
		RecipientPhone:     m.RecipientPhone,
		PersonalityProfile: cloneMap(m.PersonalityProfile),
	}
	if u.MediaURLs == nil {
		u.MediaURLs = []string{}
	}
	if !m.GenerationSettings.IsZero() {
		gs := m.GenerationSettings
		u.GenerationSettings = &gs
	}
	return u
}

// Draft converts the update into a draft. Absent generation settings fall
// back to current.
func (u MessageUpdate) Draft(current GenerationSettings) MessageDraft {
	d := MessageDraft{
		Title:              u.Title,
		Content:            u.Content,
		MediaURLs:          cloneStrings(u.MediaURLs),
		DeliveryDate:       u.DeliveryDate,
		DeliveryMethod:     u.DeliveryMethod,
		RecipientEmail:     u.RecipientEmail,
		RecipientPhone:     u.RecipientPhone,
		PersonalityProfile: cloneMap(u.PersonalityProfile),
		GenerationSettings: current,
	}
	if u.GenerationSettings != nil {
		d.GenerationSettings = *u.GenerationSettings
	}
	return d
}

// MessageDraft is an unsaved candidate message.
type MessageDraft struct {
	Title              string             `json:"title" yaml:"title"`
	Content            string             `json:"content" yaml:"content"`
	MediaURLs          []string           `json:"media_urls,omitempty" yaml:"media_urls,omitempty"`
	DeliveryDate       Timestamp          `json:"delivery_date" yaml:"delivery_date"`
	DeliveryMethod     DeliveryMethod     `json:"delivery_method" yaml:"delivery_method"`
	RecipientEmail     string             `json:"recipient_email" yaml:"recipient_email"`
	RecipientPhone     string             `json:"recipient_phone,omitempty" yaml:"recipient_phone,omitempty"`
	PersonalityProfile map[string]any     `json:"personality_profile,omitempty" yaml:"personality_profile,omitempty"`
	GenerationSettings GenerationSettings `json:"generation_settings" yaml:"generation_settings"`
}

// NewDraft returns an empty draft with the form defaults: email delivery
// and the default generation settings.
func NewDraft() MessageDraft {
	return MessageDraft{
		DeliveryMethod:     DeliveryEmail,
		GenerationSettings: DefaultGenerationSettings(),
	}
}

// Message lifts the draft into an unsaved Message so it can be edited with
// the same overlay as persisted messages.
func (d MessageDraft) Message() Message {
	return Message{
		Title:              d.Title,
		Content:            d.Content,
		MediaURLs:          cloneStrings(d.MediaURLs),
		DeliveryDate:       d.DeliveryDate,
		DeliveryMethod:     d.DeliveryMethod,
		RecipientEmail:     d.RecipientEmail,
		RecipientPhone:     d.RecipientPhone,
		PersonalityProfile: cloneMap(d.PersonalityProfile),
		GenerationSettings: d.GenerationSettings,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

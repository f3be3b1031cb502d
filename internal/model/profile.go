package model

import "encoding/json"

type UserProfile struct {
	ID              int64    `json:"id" yaml:"id"`
	Email           string   `json:"email" yaml:"email"`
	FullName        string   `json:"full_name" yaml:"full_name"`
	IsActive        bool     `json:"is_active" yaml:"is_active"`
	PersonalityData JSONBlob `json:"personality_data,omitempty" yaml:"personality_data,omitempty"`
	WritingSamples  []string `json:"writing_samples,omitempty" yaml:"writing_samples,omitempty"`
	VoiceSamples    []string `json:"voice_samples,omitempty" yaml:"voice_samples,omitempty"`
}

// ProfileUpdate is the full writable representation of a profile.
type ProfileUpdate struct {
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	PersonalityData JSONBlob `json:"personality_data"`
}

func (p UserProfile) Update() ProfileUpdate {
	return ProfileUpdate{
		Email:           p.Email,
		FullName:        p.FullName,
		PersonalityData: p.PersonalityData,
	}
}

type Registration struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	FullName        string   `json:"full_name"`
	PersonalityData JSONBlob `json:"personality_data,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// JSONBlob is an opaque JSON value kept verbatim.
type JSONBlob []byte

// ParseJSONBlob keeps valid JSON as is and stores anything else as a JSON
// string, so free text is accepted where a blob is expected.
func ParseJSONBlob(s string) JSONBlob {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return JSONBlob(s)
	}
	encoded, _ := json.Marshal(s)
	return JSONBlob(encoded)
}

func (b JSONBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

func (b *JSONBlob) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	*b = append((*b)[0:0], data...)
	return nil
}

func (b JSONBlob) MarshalYAML() (any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b), nil
	}
	return v, nil
}

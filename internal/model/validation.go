package model

import (
	"strings"
	"time"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/util"
)

// Violation is one failed validation rule.
type Violation struct {
	Field  string `json:"field" yaml:"field"`
	Reason string `json:"reason" yaml:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// ValidateDraft checks a draft before it is created. The delivery date must
// lie after now.
func ValidateDraft(d MessageDraft, now time.Time) []Violation {
	violations := validateWritable(d)
	if !d.DeliveryDate.IsZero() && !d.DeliveryDate.After(now) {
		violations = append(violations, Violation{Field: "delivery_date", Reason: "must be in the future"})
	}
	return violations
}

// ValidateMessage checks the writable fields of an existing message. The
// delivery date is not re-validated against the clock.
func ValidateMessage(m Message) []Violation {
	return validateWritable(m.Draft())
}

func validateWritable(d MessageDraft) []Violation {
	var violations []Violation
	add := func(field, reason string) {
		violations = append(violations, Violation{Field: field, Reason: reason})
	}

	if strings.TrimSpace(d.Title) == "" {
		add("title", "is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		add("content", "is required")
	}
	if d.DeliveryDate.IsZero() {
		add("delivery_date", "is required")
	}

	switch {
	case d.DeliveryMethod == "":
		add("delivery_method", "is required")
	case !util.IsValidEnum(string(d.DeliveryMethod), DeliveryMethods):
		add("delivery_method", "must be one of "+strings.Join(DeliveryMethods, ", "))
	}

	switch {
	case strings.TrimSpace(d.RecipientEmail) == "":
		add("recipient_email", "is required")
	case !util.IsValidEmail(d.RecipientEmail):
		add("recipient_email", "is not a valid email address")
	}

	if d.DeliveryMethod.RequiresPhone() && strings.TrimSpace(d.RecipientPhone) == "" {
		add("recipient_phone", "is required for "+string(d.DeliveryMethod)+" delivery")
	}

	gs := d.GenerationSettings
	if gs.IsZero() {
		return violations
	}
	if !util.IsValidEnum(string(gs.Tone), Tones) {
		add("generation_settings.tone", "must be one of "+strings.Join(Tones, ", "))
	}
	if !util.IsValidEnum(string(gs.Length), Lengths) {
		add("generation_settings.length", "must be one of "+strings.Join(Lengths, ", "))
	}
	if !util.IsValidEnum(string(gs.Style), Styles) {
		add("generation_settings.style", "must be one of "+strings.Join(Styles, ", "))
	}

	return violations
}

// ValidateRegistration checks the fields the register endpoint requires.
func ValidateRegistration(r Registration) []Violation {
	var violations []Violation
	switch {
	case strings.TrimSpace(r.Email) == "":
		violations = append(violations, Violation{Field: "email", Reason: "is required"})
	case !util.IsValidEmail(r.Email):
		violations = append(violations, Violation{Field: "email", Reason: "is not a valid email address"})
	}
	if r.Password == "" {
		violations = append(violations, Violation{Field: "password", Reason: "is required"})
	}
	if strings.TrimSpace(r.FullName) == "" {
		violations = append(violations, Violation{Field: "full_name", Reason: "is required"})
	}
	return violations
}

// ValidateProfile checks a full profile representation.
func ValidateProfile(p ProfileUpdate) []Violation {
	var violations []Violation
	if !util.IsValidEmail(p.Email) {
		violations = append(violations, Violation{Field: "email", Reason: "is not a valid email address"})
	}
	if strings.TrimSpace(p.FullName) == "" {
		violations = append(violations, Violation{Field: "full_name", Reason: "is required"})
	}
	return violations
}

// ValidatePasswordChange checks the new password against its confirmation.
func ValidatePasswordChange(current, next, confirm string) []Violation {
	var violations []Violation
	if current == "" {
		violations = append(violations, Violation{Field: "current_password", Reason: "is required"})
	}
	if next == "" {
		violations = append(violations, Violation{Field: "new_password", Reason: "is required"})
	} else if next != confirm {
		violations = append(violations, Violation{Field: "confirm_password", Reason: "does not match new password"})
	}
	return violations
}

// ViolationError turns a non-empty violation list into a VALIDATION_FAILED
// error carrying the list as details.
func ViolationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return apperrors.ValidationFailed(strings.Join(parts, "; ")).WithDetails(violations)
}

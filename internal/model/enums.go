package model

type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
	DeliveryBoth  DeliveryMethod = "both"
)

// RequiresPhone reports whether the method sends an SMS and therefore needs
// a recipient phone number.
func (m DeliveryMethod) RequiresPhone() bool {
	return m == DeliverySMS || m == DeliveryBoth
}

type Tone string

const (
	ToneWarm     Tone = "warm"
	ToneFormal   Tone = "formal"
	ToneCasual   Tone = "casual"
	ToneHumorous Tone = "humorous"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

type Style string

const (
	StylePersonal Style = "personal"
	StyleStory    Style = "story"
	StyleLetter   Style = "letter"
	StylePoetic   Style = "poetic"
)

var (
	DeliveryMethods = []string{string(DeliveryEmail), string(DeliverySMS), string(DeliveryBoth)}
	Tones           = []string{string(ToneWarm), string(ToneFormal), string(ToneCasual), string(ToneHumorous)}
	Lengths         = []string{string(LengthShort), string(LengthMedium), string(LengthLong)}
	Styles          = []string{string(StylePersonal), string(StyleStory), string(StyleLetter), string(StylePoetic)}
)

// MessageStatus is the client-side view of the delivery lifecycle.
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusDelivered MessageStatus = "delivered"
)

package model

// RemoveMessage returns messages without the entry for id, keeping order.
func RemoveMessage(messages []Message, id int64) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// ReplaceMessage returns a copy of messages with the entry for updated.ID
// swapped out. Unknown ids are appended.
func ReplaceMessage(messages []Message, updated Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out
		}
	}
	return append(out, updated)
}

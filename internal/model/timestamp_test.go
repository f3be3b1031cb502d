package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2030, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2030-02-03T04:05:06Z", want},
		{"2030-02-03T05:05:06+01:00", want},
		{"2030-02-03T04:05:06", want},
		{"2030-02-03T04:05:06.123456", want},
		{"2030-02-03 04:05:06", want},
		{"2030-02-03T04:05", time.Date(2030, 2, 3, 4, 5, 0, 0, time.UTC)},
		{"2030-02-03", time.Date(2030, 2, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			ts, err := ParseTimestamp(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(ts.Time), "got %s", ts)
		})
	}

	_, err := ParseTimestamp("tomorrow")
	assert.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	t.Run("reads naive server timestamps as UTC", func(t *testing.T) {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"delivery_date":"2030-02-03T04:05:06","is_delivered":false}`), &m))
		assert.Equal(t, "2030-02-03T04:05:06Z", m.DeliveryDate.String())
	})

	t.Run("writes RFC 3339", func(t *testing.T) {
		d := MessageDraft{DeliveryDate: NewTimestamp(time.Date(2030, 2, 3, 4, 5, 6, 0, time.UTC))}
		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"delivery_date":"2030-02-03T04:05:06Z"`)
	})

	t.Run("keeps fractional seconds from the server", func(t *testing.T) {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"delivery_date":"2030-02-03T04:05:06.123456","is_delivered":false}`), &m))
		assert.Equal(t, 123456000, m.DeliveryDate.Nanosecond())

		out, err := json.Marshal(m.Update())
		require.NoError(t, err)
		assert.Contains(t, string(out), `"delivery_date":"2030-02-03T04:05:06.123456Z"`)
	})

	t.Run("null and zero", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		assert.True(t, ts.IsZero())

		out, err := json.Marshal(Timestamp{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})

	t.Run("rejects non string values", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
	})
}

func TestTimestampYAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]Timestamp{"at": NewTimestamp(time.Date(2030, 2, 3, 4, 5, 6, 0, time.UTC))})
	require.NoError(t, err)
	assert.Contains(t, string(out), "2030-02-03T04:05:06Z")
}

func TestJSONBlob(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(ParseJSONBlob(`{"a":1}`)))
	assert.Equal(t, `"free text"`, string(ParseJSONBlob("free text")))
	assert.Nil(t, ParseJSONBlob(""))

	var p UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"personality_data":{"likes":["tea"]}}`), &p))
	assert.JSONEq(t, `{"likes":["tea"]}`, string(p.PersonalityData))

	out, err := json.Marshal(p.Update())
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"","full_name":"","personality_data":{"likes":["tea"]}}`, string(out))

	p.PersonalityData = nil
	out, err = json.Marshal(p.Update())
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"","full_name":"","personality_data":null}`, string(out))
}

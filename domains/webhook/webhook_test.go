package webhook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	cases := map[string]EventType{
		"messages.upsert":   EventMessageUpsert,
		"MESSAGES_UPSERT":   EventMessageUpsert,
		"connection.update": EventConnectionUpdate,
		"QRCODE_UPDATED":    EventQRCodeUpdate,
		"qr.code":           EventQRCodeUpdate,
		"status.instance":   EventInstanceStatus,
		"presence.update":   EventUnknown,
		"":                  EventUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseEventType(raw), raw)
	}
}

func TestMessageData_Text(t *testing.T) {
	var plain MessageData
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"conversation":"Bonjour"}}`), &plain))
	assert.Equal(t, "Bonjour", plain.Text())

	var extended MessageData
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"extendedTextMessage":{"text":"Salut"}}}`), &extended))
	assert.Equal(t, "Salut", extended.Text())

	var image MessageData
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"imageMessage":{}}}`), &image))
	assert.Empty(t, image.Text())

	assert.Empty(t, MessageData{}.Text())
}

func TestTimestamp_Formats(t *testing.T) {
	for _, raw := range []string{`1717000000`, `"1717000000"`, `{"low":1717000000,"high":0,"unsigned":false}`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, Timestamp(1717000000), ts, raw)
	}

	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, Timestamp(0).Time(fallback))
	assert.Equal(t, time.Unix(1717000000, 0).UTC(), Timestamp(1717000000).Time(fallback))
}

func TestPayload_HasData(t *testing.T) {
	assert.False(t, Payload{}.HasData())
	assert.False(t, Payload{Data: json.RawMessage("null")}.HasData())
	assert.True(t, Payload{Data: json.RawMessage(`{}`)}.HasData())
}

package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "ping",
			line: `{"command":"ping"}`,
			want: Command{Kind: KindPing},
		},
		{
			name: "load model",
			line: `{"command":"load_model","path":"/models/parakeet"}`,
			want: Command{Kind: KindLoadModel, Path: "/models/parakeet"},
		},
		{
			name: "transcribe without options",
			line: `{"command":"transcribe","path":"/tmp/audio.wav"}`,
			want: Command{Kind: KindTranscribe, Path: "/tmp/audio.wav"},
		},
		{
			name: "transcribe with empty options",
			line: `{"command":"transcribe","path":"/tmp/audio.wav","options":{}}`,
			want: Command{Kind: KindTranscribe, Path: "/tmp/audio.wav", Options: &TranscribeOptions{}},
		},
		{
			name: "transcribe with null options",
			line: `{"command":"transcribe","path":"/tmp/audio.wav","options":null}`,
			want: Command{Kind: KindTranscribe, Path: "/tmp/audio.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "invalid json", line: `{not json`},
		{name: "not an object", line: `42`},
		{name: "missing discriminator", line: `{"path":"/tmp/audio.wav"}`},
		{name: "unknown discriminator", line: `{"command":"reticulate"}`},
		{name: "upper case discriminator", line: `{"command":"PING"}`},
		{name: "path wrong type", line: `{"command":"load_model","path":7}`},
		{name: "load model without path", line: `{"command":"load_model"}`},
		{name: "transcribe without path", line: `{"command":"transcribe"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.line)
			require.Error(t, err)
		})
	}
}

func TestCommandRoundTrip(t *testing.T) {
	lines := []string{
		`{"command":"ping"}`,
		`{"command":"load_model","path":"/models/parakeet"}`,
		`{"command":"transcribe","path":"/tmp/audio.wav"}`,
		`{"command":"transcribe","path":"/tmp/audio.wav","options":{}}`,
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			cmd, err := Decode(line)
			require.NoError(t, err)

			encoded, err := EncodeCommand(cmd)
			require.NoError(t, err)

			again, err := Decode(string(encoded))
			require.NoError(t, err)
			assert.Equal(t, cmd, again)
		})
	}
}

func TestEncodeOmitsNilData(t *testing.T) {
	b, err := Encode(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(b))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	_, hasData := raw["data"]
	assert.False(t, hasData, "nil data must be omitted, not emitted as null")
}

func TestEncodeError(t *testing.T) {
	b, err := Encode(Err("Failed to load model: no such file"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Failed to load model: no such file"}`, string(b))
}

func TestEncodeTranscriptionOutput(t *testing.T) {
	out := TranscriptionOutput{
		Text: "hello world",
		Segments: []Segment{
			{Start: 0, End: 1.4, Text: "hello"},
			{Start: 1.4, End: 2.1, Text: "world"},
		},
		ProcessingTimeMS: 250,
	}
	b, err := Encode(OK(out))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status":"ok",
		"data":{
			"text":"hello world",
			"segments":[
				{"start":0,"end":1.4,"text":"hello"},
				{"start":1.4,"end":2.1,"text":"world"}
			],
			"processing_time_ms":250
		}
	}`, string(b))
}

func TestEncodeEmptySegments(t *testing.T) {
	out := TranscriptionOutput{Text: "", Segments: []Segment{}, ProcessingTimeMS: 3}
	b, err := Encode(OK(out))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"segments":[]`)
}

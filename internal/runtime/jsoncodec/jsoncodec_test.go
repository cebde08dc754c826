package jsoncodec

import (
	"bytes"
	"strings"
	"testing"
)

type testMessage struct {
	CorrelationID string `json:"correlation_id"`
	Plugin        string `json:"plugin"`
}

func TestMarshalAndUnmarshal(t *testing.T) {
	in := testMessage{CorrelationID: "01ABC", Plugin: "sigwire.plugin.sip"}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out testMessage
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out != in {
		t.Fatalf("expected round trip to match, got %#v", out)
	}

	indented, err := MarshalIndent(in, "", "  ")
	if err != nil {
		t.Fatalf("marshal indent failed: %v", err)
	}
	if !strings.Contains(string(indented), "\n  \"correlation_id\"") {
		t.Fatalf("expected indented output, got %s", string(indented))
	}
}

func TestEncodeAndDecode(t *testing.T) {
	buf := &bytes.Buffer{}
	payload := testMessage{CorrelationID: "01DEF", Plugin: "stream"}

	if err := Encode(buf, payload); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded testMessage
	if err := Decode(buf, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded != payload {
		t.Fatalf("expected decoded payload to match, got %#v", decoded)
	}
}

package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/santthosh/grocer/pkg/wire"
)

func TestEncodeDecodeEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	events := []Event{
		{
			Timestamp:    ts,
			ConnectionID: "conn-1",
			Direction:    DirectionOut,
			Layer:        LayerTransport,
			Category:     CategoryFrame,
			Gateway:      "gateway.push.example.com:2195",
			Frame:        &FrameEvent{Size: 3, Data: []byte{1, 2, 3}},
		},
		{
			Timestamp:    ts,
			ConnectionID: "conn-1",
			Direction:    DirectionIn,
			Layer:        LayerConnection,
			Category:     CategoryErrorResponse,
			ErrorResponse: &ErrorResponseEvent{
				Status:      wire.StatusInvalidToken,
				Identifier:  7,
				Raw:         wire.EncodeErrorResponse(wire.StatusInvalidToken, 7),
				ContentSize: 42,
			},
		},
		{
			Timestamp:    ts,
			ConnectionID: "conn-1",
			Layer:        LayerConnection,
			Category:     CategoryRetry,
			Retry: &RetryEvent{
				Operation:   "write",
				Attempt:     2,
				MaxAttempts: 3,
				Delay:       250 * time.Millisecond,
				Cause:       "broken pipe",
			},
		},
	}

	for _, want := range events {
		t.Run(want.Category.String(), func(t *testing.T) {
			data, err := EncodeEvent(want)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}
			got, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(Event{ConnectionID: "c", Category: CategoryState,
			StateChange: &StateChangeEvent{NewState: "CONNECTED"}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var e Event
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		if e.StateChange == nil || e.StateChange.NewState != "CONNECTED" {
			t.Errorf("event %d: StateChange = %+v", i, e.StateChange)
		}
	}
}

func TestDecodeEventInvalid(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

package runtime

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

func TestLogMessagesMiddlewarePassesThrough(t *testing.T) {
	mw := logMessagesMiddleware(newTestLogger())

	want := []*message.Message{message.NewMessage("out", nil)}
	handler := mw(func(msg *message.Message) ([]*message.Message, error) {
		return want, nil
	})

	got, err := handler(message.NewMessage("in", []byte("{}")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatal("middleware altered the handler output")
	}
}

func TestLogMessagesMiddlewarePropagatesError(t *testing.T) {
	mw := logMessagesMiddleware(newTestLogger())

	wantErr := errors.New("handler failed")
	handler := mw(func(msg *message.Message) ([]*message.Message, error) {
		return nil, wantErr
	})

	if _, err := handler(message.NewMessage("in", nil)); !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

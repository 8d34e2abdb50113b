package message

import (
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "Hello, world!")

	if msg.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, msg.Role)
	}

	if msg.Text() != "Hello, world!" {
		t.Errorf("Expected content 'Hello, world!', got '%s'", msg.Content)
	}

	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}

	if msg.CreatedAt.IsZero() {
		t.Error("Expected non-zero created time")
	}
}

func TestNilMessageText(t *testing.T) {
	var msg *Message
	if msg.Text() != "" {
		t.Errorf("Expected empty text for nil message")
	}
}

func TestCloneCopiesMetadata(t *testing.T) {
	msg := User("hi")
	msg.Metadata["k"] = "v"

	cloned := Clone(msg)
	cloned.Metadata["k"] = "changed"

	if msg.Metadata["k"] != "v" {
		t.Errorf("Clone shared metadata map with original")
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := SplitSystem([]*Message{
		System("rule one"),
		User("question"),
		nil,
		System("rule two"),
	})

	if system != "rule one\nrule two" {
		t.Errorf("unexpected system text %q", system)
	}
	if len(rest) != 1 || rest[0].Role != RoleUser {
		t.Errorf("expected only the user message to remain, got %d", len(rest))
	}
}

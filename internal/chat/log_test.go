package chat

import (
	"testing"

	"vellum/internal/client"
)

func TestTurnsSkipToolNotes(t *testing.T) {
	log := NewLog()
	log.Append(NewMessage(RoleUser, "list my notes"))
	log.Append(NewToolNote("[Tool used: read_folder]"))
	log.Append(NewMessage(RoleAssistant, "You have three notes."))

	turns := log.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %#v", len(turns), turns)
	}
	if turns[0].Role != client.RoleUser || turns[0].Content != "list my notes" {
		t.Fatalf("unexpected first turn: %#v", turns[0])
	}
	if turns[1].Role != client.RoleAssistant || turns[1].Content != "You have three notes." {
		t.Fatalf("unexpected second turn: %#v", turns[1])
	}
}

func TestClearEmptiesTranscript(t *testing.T) {
	log := NewLog()
	log.Append(NewMessage(RoleUser, "hello"))
	log.Append(NewMessage(RoleAssistant, "hi"))

	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", log.Len())
	}
	if turns := log.Turns(); len(turns) != 0 {
		t.Fatalf("expected no turns after clear, got %#v", turns)
	}
}

func TestAppendNotifies(t *testing.T) {
	log := NewLog()
	var seen []string
	log.SetOnAppend(func(msg DisplayMessage) {
		seen = append(seen, msg.Content)
	})

	log.Append(NewMessage(RoleUser, "one"))
	log.Append(NewMessage(RoleAssistant, "two"))

	if len(seen) != 2 || seen[0] != "one" || seen[1] != "two" {
		t.Fatalf("callback missed appends: %#v", seen)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Append(NewMessage(RoleUser, "original"))

	msgs := log.Messages()
	msgs[0].Content = "mutated"

	if got := log.Messages()[0].Content; got != "original" {
		t.Fatalf("log content mutated through copy: %q", got)
	}
}

func TestEditProposalCarriesReference(t *testing.T) {
	msg := NewEditProposal("Proposed changes to a.md", "edit-123")
	if msg.PendingEditID != "edit-123" {
		t.Fatalf("expected pending edit reference, got %q", msg.PendingEditID)
	}
	if msg.Role != RoleAssistant {
		t.Fatalf("expected assistant role, got %q", msg.Role)
	}
	if !msg.ToolNote {
		t.Fatal("edit proposals are chrome and must stay out of provider turns")
	}
}

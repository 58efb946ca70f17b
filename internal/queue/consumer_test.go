package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleMessageAppendsAuditLine(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	ev := SeatActivityEvent{
		EventID:     7,
		Action:      ActionSeatClaimed,
		TableID:     "t1",
		TableName:   "Table A",
		SeatIndex:   2,
		UserID:      "u1",
		DisplayName: "User One",
		Version:     3,
		OccurredAt:  "2026-08-28T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	if err := handleMessage(body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if err := handleMessage(body); err != nil {
		t.Fatalf("handleMessage second call: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "lounge.log"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("audit lines = %d, want 2", len(lines))
	}
	for _, want := range []string{"event_id=7", "action=seat_claimed", "table_id=t1", "seat=2", "user_id=u1", "version=3"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("audit line %q missing %q", lines[0], want)
		}
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	if err := handleMessage([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

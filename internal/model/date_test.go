package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-09-01", "2025-09-01", false},
		{"2025-12-31", "2025-12-31", false},
		{"2025-13-01", "", true},
		{"2025-02-30", "", true},
		{"09/01/2025", "", true},
		{"tomorrow", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q): expected error, got %v", tt.in, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.in, err)
			}
			if d.String() != tt.want {
				t.Errorf("got %q, want %q", d.String(), tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(&d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-09-01"` {
		t.Fatalf("marshal: got %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip: got %v, want %v", back, d)
	}
}

func TestDateUnmarshalRejectsNonString(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`20250901`), &d); err == nil {
		t.Fatal("expected error for non-string date")
	}
}

func TestItemOverdue(t *testing.T) {
	today := DateOf(time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC))
	past, _ := ParseDate("2025-09-01")
	future, _ := ParseDate("2025-10-01")
	sameDay, _ := ParseDate("2025-09-15")

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"pending past due", Item{Due: &past}, true},
		{"pending future due", Item{Due: &future}, false},
		{"pending due today", Item{Due: &sameDay}, false},
		{"pending no due", Item{}, false},
		{"done past due", Item{Due: &past, Done: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Overdue(today); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

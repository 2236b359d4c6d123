package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type book struct {
	UUID      uuid.UUID `json:"uuid"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func TestJSON_RoundTrip(t *testing.T) {
	c := JSON[book]{}

	in := book{
		UUID:      uuid.MustParse("28097f5b-249a-4ca5-9d73-448bd967ab4b"),
		Title:     "Dune",
		Author:    "Herbert",
		CreatedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 2, 8, 15, 0, 0, time.UTC),
	}

	raw, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// UUIDs and timestamps must take their canonical string forms.
	if !strings.Contains(raw, `"28097f5b-249a-4ca5-9d73-448bd967ab4b"`) {
		t.Errorf("encoded value missing canonical uuid: %s", raw)
	}
	if !strings.Contains(raw, `"2024-03-01T12:30:00Z"`) {
		t.Errorf("encoded value missing RFC 3339 timestamp: %s", raw)
	}

	out, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.UUID != in.UUID || out.Title != in.Title || out.Author != in.Author {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Errorf("timestamps did not round-trip: %+v vs %+v", out, in)
	}
}

func TestJSON_RoundTripList(t *testing.T) {
	c := JSON[[]book]{}

	in := []book{
		{UUID: uuid.New(), Title: "Dune"},
		{UUID: uuid.New(), Title: "Hyperion"},
	}

	raw, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 2 || out[0].Title != "Dune" || out[1].Title != "Hyperion" {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestJSON_DecodeError(t *testing.T) {
	c := JSON[book]{}

	_, err := c.Decode("{not json")
	if err == nil {
		t.Fatal("Decode() expected error for malformed input")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode() error = %T, want *DecodeError", err)
	}
	if decodeErr.Target == "" {
		t.Error("DecodeError.Target is empty")
	}
}

func TestMsgpack_RoundTrip(t *testing.T) {
	c := Msgpack[book]{}

	in := book{UUID: uuid.New(), Title: "Dune", Author: "Herbert"}

	raw, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.UUID != in.UUID || out.Title != in.Title {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestMsgpack_DecodeError(t *testing.T) {
	c := Msgpack[book]{}

	_, err := c.Decode("\x00garbage")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode() error = %T, want *DecodeError", err)
	}
}

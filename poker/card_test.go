package poker

import (
	"encoding/json"
	"testing"
)

func TestParseCardRoundTrip(t *testing.T) {
	t.Parallel()

	codes := []string{"As", "Kd", "Qh", "Jc", "Ts", "9d", "2c"}
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", code, err)
		}
		if c.String() != code {
			t.Errorf("round trip %q -> %q", code, c.String())
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "A", "Asd", "1s", "Ax", "xx"} {
		if _, err := ParseCard(code); err == nil {
			t.Errorf("ParseCard(%q) should fail", code)
		}
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("As Kd 2c")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[1] != MustParseCard("Kd") {
		t.Errorf("expected Kd, got %s", cards[1])
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	in := MustParseCard("Th")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Th"` {
		t.Errorf("expected \"Th\", got %s", data)
	}

	var out Card
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %s != %s", out, in)
	}
}

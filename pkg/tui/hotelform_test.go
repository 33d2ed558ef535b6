package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shawkym/moragents-tui/pkg/message"
)

func TestHotelFormDefaultSubmission(t *testing.T) {
	f := NewHotelForm()

	var got message.HotelSearch
	called := false
	f.OnSubmit = func(search message.HotelSearch) tea.Cmd {
		called = true
		got = search
		return nil
	}

	f.Submit()

	if !called {
		t.Fatal("expected OnSubmit to be called")
	}
	want := message.HotelSearch{Adults: 1, Children: 0, Rooms: 1, Currency: "USD"}
	if got != want {
		t.Errorf("expected default payload %+v, got %+v", want, got)
	}
	if !f.Succeeded() || f.Feedback() != HotelSubmitSuccess {
		t.Errorf("expected success feedback, got %q", f.Feedback())
	}
	if !f.ModalOpen() {
		t.Error("expected status modal to open")
	}
}

func TestHotelFormSubmitPanicReportsFailure(t *testing.T) {
	f := NewHotelForm()
	f.OnSubmit = func(search message.HotelSearch) tea.Cmd {
		panic("handler exploded")
	}

	cmd := f.Submit()

	if cmd != nil {
		t.Error("expected no command after a failed submit")
	}
	if f.Succeeded() {
		t.Error("expected failure outcome")
	}
	if f.Feedback() != HotelSubmitFailure {
		t.Errorf("expected failure feedback, got %q", f.Feedback())
	}
	if !f.ModalOpen() {
		t.Error("expected status modal to open on failure")
	}
}

func TestHotelFormSetField(t *testing.T) {
	f := NewHotelForm()

	f.SetField(HotelCity, "Lisbon")
	f.SetField(HotelCheckIn, "2025-05-01")
	f.SetField(HotelAdults, "3")
	f.SetField(HotelRooms, "two")
	f.SetField(HotelRating, "4")
	f.SetField("unknown", "ignored")

	d := f.Draft()
	if d.City != "Lisbon" || d.CheckIn != "2025-05-01" || d.Rating != "4" {
		t.Errorf("unexpected text fields %+v", d)
	}
	if d.Adults != 3 {
		t.Errorf("expected adults 3, got %d", d.Adults)
	}
	if d.Rooms != 1 {
		t.Errorf("non-integer text should keep rooms at 1, got %d", d.Rooms)
	}
}

func TestHotelFormCycleCurrency(t *testing.T) {
	f := NewHotelForm()

	want := []string{"EUR", "GBP", "USD"}
	for _, w := range want {
		f.CycleCurrency(1)
		if f.Draft().Currency != w {
			t.Errorf("expected %s, got %s", w, f.Draft().Currency)
		}
	}

	f.CycleCurrency(-1)
	if f.Draft().Currency != "GBP" {
		t.Errorf("expected GBP cycling backwards, got %s", f.Draft().Currency)
	}
}

func TestHotelFormTypingUpdatesDraft(t *testing.T) {
	f := NewHotelForm()
	f.Focus()

	for _, r := range "Rome" {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if f.Draft().City != "Rome" {
		t.Errorf("expected city Rome, got %q", f.Draft().City)
	}
}

func TestHotelFormNumericFieldRejectsLetters(t *testing.T) {
	f := NewHotelForm()
	f.Focus()

	// City, check-in, check-out, then adults.
	for i := 0; i < 3; i++ {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	if got := f.inputs[HotelAdults].Value(); got != "1" {
		t.Errorf("expected adults input to stay %q, got %q", "1", got)
	}
	if f.Draft().Adults != 1 {
		t.Errorf("expected adults 1, got %d", f.Draft().Adults)
	}

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if got := f.inputs[HotelAdults].Value(); got != "12" || f.Draft().Adults != 12 {
		t.Errorf("expected input and draft 12, got %q and %d", got, f.Draft().Adults)
	}

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := f.inputs[HotelAdults].Value(); got != "" || f.Draft().Adults != 0 {
		t.Errorf("expected cleared input to submit 0, got %q and %d", got, f.Draft().Adults)
	}
}

func TestHotelFormEnterOnButtonSubmitsAndDismisses(t *testing.T) {
	f := NewHotelForm()
	submitted := 0
	f.OnSubmit = func(search message.HotelSearch) tea.Cmd {
		submitted++
		return nil
	}
	f.Focus()

	// Move from the first field up to the submit button.
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyUp})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if submitted != 1 {
		t.Fatalf("expected one submission, got %d", submitted)
	}
	if !f.ModalOpen() {
		t.Fatal("expected modal after submit")
	}

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if f.ModalOpen() {
		t.Error("expected modal to close on dismiss")
	}
}

func TestHotelFormIgnoresKeysWhenBlurred(t *testing.T) {
	f := NewHotelForm()

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if f.Draft().City != "" {
		t.Errorf("blurred form should ignore input, got %q", f.Draft().City)
	}
}

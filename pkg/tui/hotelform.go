package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
)

// Hotel form field names, matching the payload's JSON keys.
const (
	HotelCity       = "city"
	HotelCheckIn    = "checkIn"
	HotelCheckOut   = "checkOut"
	HotelAdults     = "adults"
	HotelChildren   = "children"
	HotelRooms      = "rooms"
	HotelCurrency   = "currency"
	HotelPriceRange = "priceRange"
	HotelRating     = "rating"
)

// Submission outcomes shown in the status modal.
const (
	HotelSubmitSuccess = "Hotel search initiated successfully!"
	HotelSubmitFailure = "Failed to initiate hotel search. Please try again."
)

// Currencies the form cycles through.
var Currencies = []string{"USD", "EUR", "GBP"}

type hotelField struct {
	name        string
	label       string
	placeholder string
}

var hotelFields = []hotelField{
	{HotelCity, "City", "City"},
	{HotelCheckIn, "Check-in", "YYYY-MM-DD"},
	{HotelCheckOut, "Check-out", "YYYY-MM-DD"},
	{HotelAdults, "Adults", "Adults"},
	{HotelChildren, "Children", "Children"},
	{HotelRooms, "Rooms", "Rooms"},
	{HotelCurrency, "Currency", ""},
	{HotelPriceRange, "Price range", "e.g., 100-200"},
	{HotelRating, "Rating", "e.g., 3, 4, 5"},
}

// submitIndex is the cursor position of the submit button.
var submitIndex = len(hotelFields)

// HotelForm edits a hotel search draft and submits it.
type HotelForm struct {
	draft   message.HotelSearch
	inputs  map[string]textinput.Model
	cursor  int
	focused bool
	keys    KeyMap

	modalOpen bool
	success   bool
	feedback  string

	// OnSubmit receives the complete draft. A panic raised by the handler
	// is reported as a failed submission.
	OnSubmit func(search message.HotelSearch) tea.Cmd
}

// NewHotelForm creates a form seeded with the default draft.
func NewHotelForm() HotelForm {
	f := HotelForm{
		draft:  message.DefaultHotelSearch(),
		inputs: make(map[string]textinput.Model, len(hotelFields)),
		keys:   DefaultKeyMap(),
	}
	for _, field := range hotelFields {
		if field.name == HotelCurrency {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = 64
		if isNumericField(field.name) {
			ti.Validate = validateDigits
		}
		ti.SetValue(f.fieldValue(field.name))
		ti, _ = ti.Update(nil)
		f.inputs[field.name] = ti
	}
	return f
}

// Draft returns the current draft.
func (f HotelForm) Draft() message.HotelSearch {
	return f.draft
}

// SetField merges one field into the draft. Numeric fields accept integer
// text only, with blank text meaning zero; anything else leaves the previous
// value. Unknown names are ignored.
func (f *HotelForm) SetField(name, value string) {
	switch name {
	case HotelCity:
		f.draft.City = value
	case HotelCheckIn:
		f.draft.CheckIn = value
	case HotelCheckOut:
		f.draft.CheckOut = value
	case HotelAdults:
		setInt(&f.draft.Adults, value)
	case HotelChildren:
		setInt(&f.draft.Children, value)
	case HotelRooms:
		setInt(&f.draft.Rooms, value)
	case HotelCurrency:
		f.draft.Currency = value
	case HotelPriceRange:
		f.draft.PriceRange = value
	case HotelRating:
		f.draft.Rating = value
	}
}

func setInt(dst *int, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		*dst = 0
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	*dst = n
}

func isNumericField(name string) bool {
	return name == HotelAdults || name == HotelChildren || name == HotelRooms
}

var errNotDigits = errors.New("digits only")

func validateDigits(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errNotDigits
		}
	}
	return nil
}

func (f HotelForm) fieldValue(name string) string {
	switch name {
	case HotelCity:
		return f.draft.City
	case HotelCheckIn:
		return f.draft.CheckIn
	case HotelCheckOut:
		return f.draft.CheckOut
	case HotelAdults:
		return strconv.Itoa(f.draft.Adults)
	case HotelChildren:
		return strconv.Itoa(f.draft.Children)
	case HotelRooms:
		return strconv.Itoa(f.draft.Rooms)
	case HotelCurrency:
		return f.draft.Currency
	case HotelPriceRange:
		return f.draft.PriceRange
	case HotelRating:
		return f.draft.Rating
	}
	return ""
}

// CycleCurrency moves the currency to the next (or previous) option.
func (f *HotelForm) CycleCurrency(step int) {
	idx := 0
	for i, c := range Currencies {
		if c == f.draft.Currency {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(Currencies) + len(Currencies)) % len(Currencies)
	f.draft.Currency = Currencies[idx]
}

// Submit forwards the draft to OnSubmit and opens the status modal.
func (f *HotelForm) Submit() (cmd tea.Cmd) {
	f.success = true
	f.feedback = HotelSubmitSuccess

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("hotel search submit handler failed")
			f.success = false
			f.feedback = HotelSubmitFailure
			cmd = nil
		}
		f.modalOpen = true
	}()

	if f.OnSubmit != nil {
		cmd = f.OnSubmit(f.draft)
	}
	return cmd
}

// ModalOpen reports whether the submission status is showing.
func (f HotelForm) ModalOpen() bool { return f.modalOpen }

// Feedback returns the last submission message.
func (f HotelForm) Feedback() string { return f.feedback }

// Succeeded reports whether the last submission succeeded.
func (f HotelForm) Succeeded() bool { return f.success }

// DismissModal closes the status modal.
func (f *HotelForm) DismissModal() { f.modalOpen = false }

// Focus gives the form keyboard focus.
func (f *HotelForm) Focus() {
	f.focused = true
	f.focusCursor()
}

// Blur removes keyboard focus.
func (f *HotelForm) Blur() {
	f.focused = false
	for name, ti := range f.inputs {
		ti.Blur()
		f.inputs[name] = ti
	}
}

// Focused reports whether the form has keyboard focus.
func (f HotelForm) Focused() bool { return f.focused }

func (f *HotelForm) focusCursor() {
	for i, field := range hotelFields {
		ti, ok := f.inputs[field.name]
		if !ok {
			continue
		}
		if f.focused && i == f.cursor {
			ti.Focus()
		} else {
			ti.Blur()
		}
		f.inputs[field.name] = ti
	}
}

// Update handles keys while focused.
func (f HotelForm) Update(msg tea.Msg) (HotelForm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !f.focused {
		return f, nil
	}

	if f.modalOpen {
		if key.Matches(keyMsg, f.keys.Send) || key.Matches(keyMsg, f.keys.Close) {
			f.DismissModal()
		}
		return f, nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Up):
		f.cursor = (f.cursor - 1 + submitIndex + 1) % (submitIndex + 1)
		f.focusCursor()
		return f, nil
	case key.Matches(keyMsg, f.keys.Down):
		f.cursor = (f.cursor + 1) % (submitIndex + 1)
		f.focusCursor()
		return f, nil
	case key.Matches(keyMsg, f.keys.Send):
		if f.cursor == submitIndex {
			cmd := f.Submit()
			return f, cmd
		}
		f.cursor++
		f.focusCursor()
		return f, nil
	}

	if f.cursor == submitIndex {
		return f, nil
	}

	name := hotelFields[f.cursor].name
	if name == HotelCurrency {
		switch keyMsg.String() {
		case "left":
			f.CycleCurrency(-1)
		case "right", " ":
			f.CycleCurrency(1)
		}
		return f, nil
	}

	ti := f.inputs[name]
	prev := ti.Value()
	var cmd tea.Cmd
	ti, cmd = ti.Update(keyMsg)
	if ti.Validate != nil && ti.Validate(ti.Value()) != nil {
		ti.SetValue(prev)
		ti.Err = nil
	}
	f.inputs[name] = ti
	f.SetField(name, ti.Value())
	return f, cmd
}

// View renders the form, or its status modal content when open.
func (f HotelForm) View() string {
	if f.modalOpen {
		return f.ModalView()
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Hotel Search"))
	b.WriteString("\n")
	for i, field := range hotelFields {
		marker := "  "
		if f.focused && i == f.cursor {
			marker = selectedStyle.Render("> ")
		}
		var value string
		if field.name == HotelCurrency {
			value = fmt.Sprintf("< %s >", f.draft.Currency)
		} else {
			value = f.inputs[field.name].View()
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", marker, field.label+":", value)
	}

	button := "[ Search Hotels ]"
	if f.focused && f.cursor == submitIndex {
		button = selectedStyle.Render("> " + button)
	} else {
		button = "  " + button
	}
	b.WriteString(button)

	style := panelStyle
	if f.focused {
		style = focusedPanelStyle
	}
	return style.Render(b.String())
}

// ModalView renders the submission status.
func (f HotelForm) ModalView() string {
	title := successStyle.Render("✓ Success")
	if !f.success {
		title = errorStyle.Render("✗ Error")
	}
	return title + "\n\n" + f.feedback + "\n\n" + mutedStyle.Render("Press Enter or Esc to close")
}

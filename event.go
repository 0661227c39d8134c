package textcomp

import (
	"strconv"

	"github.com/google/uuid"
)

// ClickAction names what a client does when a component is clicked.
type ClickAction string

// Click actions.
const (
	ActionOpenURL         ClickAction = "open_url"
	ActionOpenFile        ClickAction = "open_file"
	ActionRunCommand      ClickAction = "run_command"
	ActionSuggestCommand  ClickAction = "suggest_command"
	ActionChangePage      ClickAction = "change_page"
	ActionCopyToClipboard ClickAction = "copy_to_clipboard"
)

func (a ClickAction) valid() bool {
	switch a {
	case ActionOpenURL, ActionOpenFile, ActionRunCommand, ActionSuggestCommand,
		ActionChangePage, ActionCopyToClipboard:
		return true
	}
	return false
}

// ClickEvent is attached to a component through its style. Only ActionOpenURL has a console
// representation.
type ClickEvent struct {
	Action ClickAction
	Value  string
}

// OpenURL opens url in the client's browser.
func OpenURL(url string) ClickEvent { return ClickEvent{Action: ActionOpenURL, Value: url} }

// RunCommand makes the client send command as if typed.
func RunCommand(command string) ClickEvent {
	return ClickEvent{Action: ActionRunCommand, Value: command}
}

// SuggestCommand places command in the client's chat input.
func SuggestCommand(command string) ClickEvent {
	return ClickEvent{Action: ActionSuggestCommand, Value: command}
}

// ChangePage turns a book to page.
func ChangePage(page int) ClickEvent {
	return ClickEvent{Action: ActionChangePage, Value: strconv.Itoa(page)}
}

// CopyToClipboard copies text to the client's clipboard.
func CopyToClipboard(text string) ClickEvent {
	return ClickEvent{Action: ActionCopyToClipboard, Value: text}
}

// HoverAction names the tooltip a client shows while hovering a component.
type HoverAction string

// Hover actions.
const (
	ActionShowText   HoverAction = "show_text"
	ActionShowItem   HoverAction = "show_item"
	ActionShowEntity HoverAction = "show_entity"
)

// HoverEvent is a tooltip attachment. Exactly one of Text, Item or Entity is meaningful,
// selected by Action.
type HoverEvent struct {
	Action HoverAction
	Text   Text
	Item   *HoverItem
	Entity *HoverEntity
}

// HoverItem is the payload of a show_item tooltip.
type HoverItem struct {
	ID    string
	Count *int32
	Tag   *string
}

// HoverEntity is the payload of a show_entity tooltip.
type HoverEntity struct {
	Type string
	ID   uuid.UUID
	Name *Text
}

// hoverItem returns the show_item payload, empty when none is set.
func (e HoverEvent) hoverItem() HoverItem {
	if e.Item == nil {
		return HoverItem{}
	}
	return *e.Item
}

// hoverEntity returns the show_entity payload, empty when none is set.
func (e HoverEvent) hoverEntity() HoverEntity {
	if e.Entity == nil {
		return HoverEntity{}
	}
	return *e.Entity
}

// ShowText shows t as a tooltip.
func ShowText(t Text) HoverEvent {
	return HoverEvent{Action: ActionShowText, Text: t}
}

// ShowItem shows the tooltip of item id.
func ShowItem(id string) HoverEvent {
	return HoverEvent{Action: ActionShowItem, Item: &HoverItem{ID: id}}
}

// ShowEntity shows the tooltip of an entity of the given type.
func ShowEntity(kind string, id uuid.UUID) HoverEvent {
	return HoverEvent{Action: ActionShowEntity, Entity: &HoverEntity{Type: kind, ID: id}}
}

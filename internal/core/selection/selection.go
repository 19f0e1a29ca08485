// Package selection tracks which node the editor has selected and which
// side panel is showing. It is a two-state machine:
//
//	BROWSE --NodeClicked(id)--> EDIT
//	EDIT   --NodeClicked(id)--> EDIT (selection follows the click)
//	EDIT   --CanvasClicked----> BROWSE
//	EDIT   --BackToList-------> BROWSE
//
// Events that do not change state (CanvasClicked in BROWSE, clicking the
// selected node) are accepted as no-ops.
package selection

import "fmt"

// Mode is the panel the editor shows
type Mode string

const (
	// ModeBrowse shows the node palette
	ModeBrowse Mode = "BROWSE"
	// ModeEdit shows the settings of the selected node
	ModeEdit Mode = "EDIT"
)

// EventType names an input of the state machine
type EventType string

const (
	EventNodeClicked   EventType = "node_clicked"
	EventCanvasClicked EventType = "canvas_clicked"
	EventBackToList    EventType = "back_to_list"
	EventNodeRemoved   EventType = "node_removed"
)

// Event is a single input. NodeID is only read for node events.
type Event struct {
	Type   EventType
	NodeID string
}

// State is a read-only view of the controller
type State struct {
	Mode           Mode   `json:"mode"`
	SelectedNodeID string `json:"selected_node_id,omitempty"`
}

// Controller owns the selection state. The zero value is in BROWSE mode.
// Mode is EDIT exactly when a node is selected.
type Controller struct {
	selected string
}

// NewController returns a controller in BROWSE mode
func NewController() *Controller {
	return &Controller{}
}

// Mode returns the current panel mode
func (c *Controller) Mode() Mode {
	if c.selected == "" {
		return ModeBrowse
	}
	return ModeEdit
}

// Selected returns the selected node id and whether one is selected
func (c *Controller) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return State{Mode: c.Mode(), SelectedNodeID: c.selected}
}

// NodeClicked selects id, entering or staying in EDIT mode.
// Clicking the already selected node is a no-op.
func (c *Controller) NodeClicked(id string) {
	if id == "" {
		return
	}
	c.selected = id
}

// CanvasClicked clears the selection and returns to BROWSE mode
func (c *Controller) CanvasClicked() {
	c.selected = ""
}

// BackToList clears the selection and returns to BROWSE mode
func (c *Controller) BackToList() {
	c.selected = ""
}

// NodeRemoved leaves EDIT mode when the selected node no longer exists.
// It reports whether the selection changed.
func (c *Controller) NodeRemoved(id string) bool {
	if id == "" || c.selected != id {
		return false
	}
	c.selected = ""
	return true
}

// Apply dispatches an event and returns the resulting state
func (c *Controller) Apply(ev Event) (State, error) {
	switch ev.Type {
	case EventNodeClicked:
		if ev.NodeID == "" {
			return c.State(), ErrMissingNodeID
		}
		c.NodeClicked(ev.NodeID)
	case EventCanvasClicked:
		c.CanvasClicked()
	case EventBackToList:
		c.BackToList()
	case EventNodeRemoved:
		c.NodeRemoved(ev.NodeID)
	default:
		return c.State(), fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return c.State(), nil
}

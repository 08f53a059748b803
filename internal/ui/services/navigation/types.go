package navigation

// State holds all navigation-related state. Offsets are in terminal lines
// from the top of the virtual content.
type State struct {
	Offset         int
	ViewportHeight int
	ContentHeight  int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

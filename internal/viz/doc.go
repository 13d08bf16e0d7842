// Package viz is the terminal host for the point field.
//
// The host runs a Bubble Tea program that owns one engine:
//
//   - [Model]: feeds mouse, keyboard, focus and resize messages to the engine
//     and ticks it at 60 fps
//   - [Canvas]: Braille-based pixel canvas with per-cell style classes
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Click - Open the hovered point's project
//	Esc   - Close the popup
//	T     - Cycle color themes
//	O     - Toggle the outline linking the points
//	Space - Pause/Resume
//	?     - Toggle buffer statistics
//	Q     - Quit
//
// # Popup
//
// The popup box unrolls with a spring while the engine opens it and rolls
// up during the exit transition. The ✕ in its title row closes it.
package viz

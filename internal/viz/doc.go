// Package viz is the terminal front end: a braille canvas that implements
// render.Surface and a Bubble Tea program around an engine.
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Reset to a stopped scene
//	Tab   - Select next parameter
//	Up/K  - Raise the selected parameter
//	Down/J- Lower the selected parameter
//	+/-   - Double/halve speed
//	1-5   - Switch model
//	T     - Cycle color themes
//	?     - Show help overlay
package viz

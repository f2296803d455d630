package common

// Virtual key codes delivered by the window layer. These values match GLFW key codes, which
// use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII), speeds the rider up
	KeyS     = 83  // S key (ASCII), slows the rider down
	KeyEsc   = 256 // Escape key (GLFW), closes the window
	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW), alias for S
	KeyUp    = 265 // Up arrow (GLFW), alias for W
)

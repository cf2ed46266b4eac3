package game

import "github.com/milk9111/waterjam/input"

// Bindings, by key name.
var (
	keyQuit      = input.MustKey("escape")
	keyDebug     = input.MustKey("f2")
	keyDraw      = input.MustKey("lshift")
	keySpray     = input.MustKey("space")
	keyMenu      = input.MustKey("tab")
	keyStart     = input.MustKey("return")
	keyClearWall = input.MustKey("backspace")
)

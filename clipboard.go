package imbridge

// ClipboardText retrieves text through IO.GetClipboardTextFn.
// Returns empty string if no platform hook is set.
func (c *Context) ClipboardText() string {
	if c.io.GetClipboardTextFn != nil {
		return c.io.GetClipboardTextFn()
	}
	return ""
}

// SetClipboardText copies text through IO.SetClipboardTextFn.
// Does nothing if no platform hook is set.
func (c *Context) SetClipboardText(text string) {
	if c.io.SetClipboardTextFn != nil {
		c.io.SetClipboardTextFn(text)
	}
}

// ClipboardAvailable returns true if the platform provides clipboard access.
func (c *Context) ClipboardAvailable() bool {
	return c.io.GetClipboardTextFn != nil && c.io.SetClipboardTextFn != nil
}

// SetImeInputPos tells the platform where text input happens, for IME
// candidate windows.
func (c *Context) SetImeInputPos(pos Vec2) {
	if c.io.SetImeInputPosFn != nil {
		c.io.SetImeInputPosFn(pos.X, pos.Y)
	}
}

package popup

// Popup is the result banner shown between games. It has one message and
// one action button; frontends draw it and forward button presses to Click.
type Popup struct {
	visible bool
	text    string
	onClick func()
}

// New returns a hidden popup.
func New() *Popup {
	return &Popup{}
}

// ShowWithText makes the popup visible with msg.
func (p *Popup) ShowWithText(msg string) {
	p.text = msg
	p.visible = true
}

// Hide makes the popup invisible. The text is kept.
func (p *Popup) Hide() {
	p.visible = false
}

// SetClickListener registers the action run when the button is pressed.
func (p *Popup) SetClickListener(fn func()) {
	p.onClick = fn
}

// Click handles a button press: the popup hides first, then the listener
// runs, so a listener that shows the popup again leaves it visible.
// Presses on a hidden popup are ignored.
func (p *Popup) Click() {
	if !p.visible {
		return
	}
	p.Hide()
	if p.onClick != nil {
		p.onClick()
	}
}

func (p *Popup) Visible() bool { return p.visible }

func (p *Popup) Text() string { return p.text }

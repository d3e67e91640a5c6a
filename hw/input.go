package hw

// PadButton is a button of the standard controller, in shift register order.
type PadButton uint8

const (
	PadA PadButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight
)

// Controller is the standard gamepad: an 8-bit shift register latched by the
// strobe line and drained one bit per read.
type Controller struct {
	buttons uint8
	index   uint8
	strobe  bool
}

// SetButtons replaces the pressed-button state, one bit per PadButton.
func (c *Controller) SetButtons(mask uint8) { c.buttons = mask }

// Press and Release update a single button.
func (c *Controller) Press(b PadButton)   { c.buttons |= 1 << b }
func (c *Controller) Release(b PadButton) { c.buttons &^= 1 << b }

func (c *Controller) write(v uint8) {
	c.strobe = v&1 != 0
	if c.strobe {
		c.index = 0
	}
}

func (c *Controller) read() uint8 {
	// Past the eighth read the data line stays high.
	if c.index > 7 {
		return 1
	}
	v := c.buttons >> c.index & 1
	if !c.strobe {
		c.index++
	}
	return v
}

package output

// ModeFlag mirrors the wl_output mode bitmask (§6 "Output mode flags").
type ModeFlag uint32

const (
	ModeInvalid   ModeFlag = 1 << 0
	ModeCurrent   ModeFlag = 1 << 1
	ModePreferred ModeFlag = 1 << 2
)

// Mode is one output mode: width/height in pixels, refresh in
// milli-Hertz, and the current/preferred bits (§6).
type Mode struct {
	Width, Height int32
	RefreshMilliHz int32
	Flags          ModeFlag
}

func (m Mode) Current() bool    { return m.Flags&ModeCurrent != 0 }
func (m Mode) Preferred() bool  { return m.Flags&ModePreferred != 0 }

// SubpixelOrder mirrors wl_output's geometry subpixel enum.
type SubpixelOrder int32

const (
	SubpixelUnknown SubpixelOrder = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

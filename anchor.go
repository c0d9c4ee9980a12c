package wb

// Anchor names an attachment point on an element's frame, used for
// connector snapping and routing.
type Anchor uint8

// Anchor positions on an element frame.
const (
	AnchorCenter Anchor = iota
	AnchorLeft
	AnchorRight
	AnchorTop
	AnchorBottom
)

// Anchors lists every anchor in snap-search order. Center comes last so
// that boundary anchors win ties at equal distance.
var Anchors = [...]Anchor{AnchorLeft, AnchorRight, AnchorTop, AnchorBottom, AnchorCenter}

// String returns the serialized name of the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	default:
		return "center"
	}
}

// ParseAnchor converts a serialized anchor name back to an Anchor.
// Unknown names resolve to AnchorCenter.
func ParseAnchor(s string) Anchor {
	switch s {
	case "left":
		return AnchorLeft
	case "right":
		return AnchorRight
	case "top":
		return AnchorTop
	case "bottom":
		return AnchorBottom
	default:
		return AnchorCenter
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anchor) UnmarshalText(b []byte) error {
	*a = ParseAnchor(string(b))
	return nil
}

// Of returns the anchor's position on the given frame.
func (a Anchor) Of(r Rect) Point {
	switch a {
	case AnchorLeft:
		return Point{X: r.X, Y: r.Y + r.Height/2}
	case AnchorRight:
		return Point{X: r.X + r.Width, Y: r.Y + r.Height/2}
	case AnchorTop:
		return Point{X: r.X + r.Width/2, Y: r.Y}
	case AnchorBottom:
		return Point{X: r.X + r.Width/2, Y: r.Y + r.Height}
	default:
		return r.Center()
	}
}

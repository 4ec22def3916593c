package style

import "strings"

// Anchor is the point of a label box that sits on its position.
type Anchor string

const (
	AnchorLeftTop      Anchor = "left-top"
	AnchorLeftCenter   Anchor = "left-center"
	AnchorLeftBottom   Anchor = "left-bottom"
	AnchorCenterTop    Anchor = "center-top"
	AnchorCenter       Anchor = "center"
	AnchorCenterBottom Anchor = "center-bottom"
	AnchorRightTop     Anchor = "right-top"
	AnchorRightCenter  Anchor = "right-center"
	AnchorRightBottom  Anchor = "right-bottom"
)

// ParseAnchor normalizes spellings like "leftTop", "LEFT_TOP" and
// "left-top". Unknown values return AnchorCenter and false.
func ParseAnchor(s string) (Anchor, bool) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch key {
	case "lefttop", "topleft":
		return AnchorLeftTop, true
	case "leftcenter", "centerleft", "left":
		return AnchorLeftCenter, true
	case "leftbottom", "bottomleft":
		return AnchorLeftBottom, true
	case "centertop", "topcenter", "top":
		return AnchorCenterTop, true
	case "center", "":
		return AnchorCenter, key == "center"
	case "centerbottom", "bottomcenter", "bottom":
		return AnchorCenterBottom, true
	case "righttop", "topright":
		return AnchorRightTop, true
	case "rightcenter", "centerright", "right":
		return AnchorRightCenter, true
	case "rightbottom", "bottomright":
		return AnchorRightBottom, true
	}
	return AnchorCenter, false
}

// IsTop reports whether the anchor sits on the top edge.
func (a Anchor) IsTop() bool {
	return a == AnchorLeftTop || a == AnchorCenterTop || a == AnchorRightTop
}

// IsBottom reports whether the anchor sits on the bottom edge.
func (a Anchor) IsBottom() bool {
	return a == AnchorLeftBottom || a == AnchorCenterBottom || a == AnchorRightBottom
}

// IsMiddle reports whether the anchor sits on the vertical middle.
func (a Anchor) IsMiddle() bool {
	return a == AnchorLeftCenter || a == AnchorCenter || a == AnchorRightCenter
}

// Fractions returns the anchor's position inside a box as fractions of
// its width and height, measured from the top-left corner.
func (a Anchor) Fractions() (fx, fy float64) {
	switch a {
	case AnchorLeftTop, AnchorLeftCenter, AnchorLeftBottom:
		fx = 0
	case AnchorRightTop, AnchorRightCenter, AnchorRightBottom:
		fx = 1
	default:
		fx = 0.5
	}
	switch {
	case a.IsTop():
		fy = 0
	case a.IsBottom():
		fy = 1
	default:
		fy = 0.5
	}
	return fx, fy
}

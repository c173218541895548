package tabstrip

import "github.com/Iron-Ham/classdesk/internal/tabkey"

// Icon identifiers. Hosts map them to glyphs.
const (
	IconHome      = "home"
	IconClassroom = "school"
	IconStudents  = "users"
	IconStudent   = "user"
	IconGrades    = "chart"
	IconInbox     = "inbox"
	IconTimetable = "calendar"
	IconNewTab    = "plus"
	IconUnknown   = "dot"
)

// Descriptor is everything a host needs to draw one tab.
type Descriptor struct {
	Key    tabkey.Key
	Label  string
	IconID string
	Active bool
}

// TitleFunc returns the display label for a key.
type TitleFunc func(tabkey.Key) string

// Descriptors describes each key in keys. A nil title uses tabkey.FallbackTitle.
func Descriptors(keys []tabkey.Key, active tabkey.Key, title TitleFunc) []Descriptor {
	if title == nil {
		title = tabkey.FallbackTitle
	}
	out := make([]Descriptor, len(keys))
	for i, k := range keys {
		out[i] = Descriptor{
			Key:    k,
			Label:  title(k),
			IconID: IconFor(k),
			Active: k == active,
		}
	}
	return out
}

// IconFor picks the icon for a key from its shape.
func IconFor(k tabkey.Key) string {
	switch k {
	case tabkey.Home:
		return IconHome
	case tabkey.Classroom:
		return IconClassroom
	case tabkey.Students:
		return IconStudents
	case tabkey.Inbox:
		return IconInbox
	case tabkey.Timetable:
		return IconTimetable
	case tabkey.Profile:
		return IconStudent
	case tabkey.NewTab:
		return IconNewTab
	}

	switch k.Kind() {
	case tabkey.KindProfile:
		return IconStudent
	case tabkey.KindComposite:
		segs := k.Segments()
		switch {
		case len(segs) == 2:
			return IconClassroom
		case segs[2] == tabkey.SubStudents:
			return IconStudents
		case segs[2] == tabkey.SubGrades:
			return IconGrades
		default:
			return IconStudent
		}
	}
	return IconUnknown
}

// Package tabkey defines the identifiers of workspace tabs and their mapping
// to and from address-bar paths.
//
// A key has one of three shapes:
//
//   - static: one of the primary pages (home, classroom, students, inbox,
//     timetable) or the user's own profile page
//   - standalone profile: "student-<slug>"
//   - composite: "classroom/<classId>" optionally followed by "/students",
//     "/grades" or "/student/<slug>"
//
// The reserved placeholder key "new-tab" names the new-tab page. It is never
// stored in the tab order.
//
// Every valid key round-trips through its path: Parse(ToPath(k)) == k.
package tabkey

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Iron-Ham/classdesk/internal/errors"
)

// Key identifies an open tab.
type Key string

// Static keys.
const (
	Home      Key = "home"
	Classroom Key = "classroom"
	Students  Key = "students"
	Inbox     Key = "inbox"
	Timetable Key = "timetable"
	Profile   Key = "profile"

	// NewTab is the placeholder shown when no real tab is active.
	NewTab Key = "new-tab"
)

// StudentPrefix starts every standalone profile key.
const StudentPrefix = "student-"

// Classroom sub-pages.
const (
	SubStudents = "students"
	SubGrades   = "grades"
	SubStudent  = "student"
)

// Kind classifies a key by shape.
type Kind int

const (
	KindInvalid Kind = iota
	KindStatic
	KindProfile
	KindComposite
	KindPlaceholder
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindProfile:
		return "profile"
	case KindComposite:
		return "composite"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "invalid"
	}
}

// Metadata families. Each family owns one label map in the registry.
const (
	FamilyProfile   = "profile"
	FamilyClassroom = "classroom"
)

var staticKeys = []Key{Home, Classroom, Students, Inbox, Timetable, Profile}

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	classIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
)

// StaticKeys returns the fixed primary pages in menu order.
func StaticKeys() []Key {
	return slices.Clone(staticKeys)
}

// String returns the key as a plain string.
func (k Key) String() string { return string(k) }

// Segments splits the key on "/".
func (k Key) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), "/")
}

// Kind classifies the key. Malformed keys report KindInvalid.
func (k Key) Kind() Kind {
	kind, _ := classify(k.Segments())
	return kind
}

// Valid reports whether the key has one of the recognized shapes.
// The placeholder is considered valid.
func (k Key) Valid() bool {
	return k.Kind() != KindInvalid
}

// Family returns the metadata family owning labels for this key, or "" for
// keys whose labels are fixed.
func (k Key) Family() string {
	switch k.Kind() {
	case KindProfile:
		return FamilyProfile
	case KindComposite:
		return FamilyClassroom
	default:
		return ""
	}
}

// ClassID returns the classroom ID of a composite key.
func (k Key) ClassID() (string, bool) {
	if k.Kind() != KindComposite {
		return "", false
	}
	return k.Segments()[1], true
}

// StudentSlug returns the student slug of a standalone profile key or of a
// classroom student key.
func (k Key) StudentSlug() (string, bool) {
	switch k.Kind() {
	case KindProfile:
		return strings.TrimPrefix(string(k), StudentPrefix), true
	case KindComposite:
		segs := k.Segments()
		if len(segs) == 4 {
			return segs[3], true
		}
	}
	return "", false
}

// Parse converts an address-bar path into a key. The root path maps to Home;
// leading and trailing slashes are ignored.
func Parse(path string) (Key, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Home, nil
	}
	return FromSegments(strings.Split(trimmed, "/"))
}

// FromSegments converts path segments into a key. No segments maps to Home.
func FromSegments(segments []string) (Key, error) {
	if len(segments) == 0 {
		return Home, nil
	}
	key := Key(strings.Join(segments, "/"))
	if _, reason := classify(segments); reason != "" {
		return "", errors.InvalidKey(string(key), reason)
	}
	return key, nil
}

// ToPath returns the address-bar path for a key. Home maps to "/"; every
// other key maps to "/" + key with internal separators preserved.
func ToPath(k Key) string {
	if k == Home || k == "" {
		return "/"
	}
	return "/" + string(k)
}

// Parent returns the logical parent used by replace-parent navigation.
// "classroom/<id>" has the static Classroom key as parent; deeper classroom
// keys have "classroom/<id>" as parent. Other keys have no parent.
func Parent(k Key) (Key, bool) {
	if k.Kind() != KindComposite {
		return "", false
	}
	segs := k.Segments()
	if len(segs) == 2 {
		return Classroom, true
	}
	return ClassroomKey(segs[1]), true
}

// StudentKey builds a standalone profile key from a slug.
func StudentKey(slug string) Key {
	return Key(StudentPrefix + slug)
}

// ClassroomKey builds a composite classroom key.
func ClassroomKey(classID string, sub ...string) Key {
	parts := append([]string{string(Classroom), classID}, sub...)
	return Key(strings.Join(parts, "/"))
}

// Slugify turns a display name into a slug usable in student keys.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// classify returns the kind of a segmented key, or KindInvalid and a reason.
func classify(segs []string) (Kind, string) {
	if len(segs) == 0 {
		return KindInvalid, "empty key"
	}
	if slices.Contains(segs, "") {
		return KindInvalid, "empty path segment"
	}

	if len(segs) == 1 {
		k := Key(segs[0])
		switch {
		case k == NewTab:
			return KindPlaceholder, ""
		case slices.Contains(staticKeys, k):
			return KindStatic, ""
		case strings.HasPrefix(segs[0], StudentPrefix):
			if !slugPattern.MatchString(strings.TrimPrefix(segs[0], StudentPrefix)) {
				return KindInvalid, "malformed student slug"
			}
			return KindProfile, ""
		default:
			return KindInvalid, "unknown page"
		}
	}

	if Key(segs[0]) != Classroom {
		return KindInvalid, "only classroom keys may have sub-paths"
	}
	if !classIDPattern.MatchString(segs[1]) {
		return KindInvalid, "malformed classroom id"
	}

	switch len(segs) {
	case 2:
		return KindComposite, ""
	case 3:
		if segs[2] == SubStudents || segs[2] == SubGrades {
			return KindComposite, ""
		}
		return KindInvalid, "unknown classroom page"
	case 4:
		if segs[2] == SubStudent && slugPattern.MatchString(segs[3]) {
			return KindComposite, ""
		}
		return KindInvalid, "malformed classroom student path"
	default:
		return KindInvalid, "classroom path too deep"
	}
}

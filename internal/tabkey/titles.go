package tabkey

import "strings"

var staticTitles = map[Key]string{
	Home:      "Home",
	Classroom: "Classrooms",
	Students:  "Students",
	Inbox:     "Inbox",
	Timetable: "Timetable",
	Profile:   "My Profile",
	NewTab:    "New Tab",
}

// StaticTitle returns the fixed title of a static key or the placeholder.
func StaticTitle(k Key) (string, bool) {
	title, ok := staticTitles[k]
	return title, ok
}

// FallbackTitle derives a readable title for a key without a stored label,
// e.g. "student-jane-doe" -> "Jane Doe", "classroom/5a/grades" -> "5a Grades".
func FallbackTitle(k Key) string {
	if title, ok := StaticTitle(k); ok {
		return title
	}
	switch k.Kind() {
	case KindProfile:
		slug, _ := k.StudentSlug()
		return humanize(slug)
	case KindComposite:
		segs := k.Segments()
		title := segs[1]
		switch len(segs) {
		case 3:
			title += " " + humanize(segs[2])
		case 4:
			title += " · " + humanize(segs[3])
		}
		return title
	default:
		return string(k)
	}
}

func humanize(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

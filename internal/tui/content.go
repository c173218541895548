package tui

import (
	"fmt"
	"slices"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// Link is a navigation target offered by a page.
type Link struct {
	Key   tabkey.Key
	Label string
	// ReplaceParent makes the target take over the current tab's slot when
	// the current tab is its parent.
	ReplaceParent bool
}

// Page is what the content area renders for a key.
type Page struct {
	Title       string
	Description string
	Links       []Link
}

// ContentResolver supplies the page for a key. title looks up the key's
// display label in the workspace.
type ContentResolver interface {
	Resolve(key tabkey.Key, title func(tabkey.Key) string) Page
}

// ResolverFunc adapts a function to ContentResolver.
type ResolverFunc func(key tabkey.Key, title func(tabkey.Key) string) Page

// Resolve calls f.
func (f ResolverFunc) Resolve(key tabkey.Key, title func(tabkey.Key) string) Page {
	return f(key, title)
}

// Student is a directory entry.
type Student struct {
	Slug string
	Name string
}

// Class is a directory entry.
type Class struct {
	ID       string
	Name     string
	Students []string // slugs
}

// Directory is the canned school directory the default resolver browses.
type Directory struct {
	Classes  []Class
	Students []Student
}

// SampleDirectory returns a small demo school.
func SampleDirectory() Directory {
	return Directory{
		Classes: []Class{
			{ID: "5a", Name: "Class 5A", Students: []string{"ada-lovelace", "alan-turing", "grace-hopper"}},
			{ID: "7c", Name: "Class 7C", Students: []string{"edsger-dijkstra", "barbara-liskov"}},
		},
		Students: []Student{
			{Slug: "ada-lovelace", Name: "Ada Lovelace"},
			{Slug: "alan-turing", Name: "Alan Turing"},
			{Slug: "barbara-liskov", Name: "Barbara Liskov"},
			{Slug: "edsger-dijkstra", Name: "Edsger Dijkstra"},
			{Slug: "grace-hopper", Name: "Grace Hopper"},
		},
	}
}

// DefaultResolver renders placeholder pages over a Directory. Pages link to
// each other the way the real application drills down: class list to class,
// class to roster or grades, roster to student.
type DefaultResolver struct {
	Dir Directory
}

// NewDefaultResolver returns a resolver over SampleDirectory.
func NewDefaultResolver() *DefaultResolver {
	return &DefaultResolver{Dir: SampleDirectory()}
}

// Resolve implements ContentResolver.
func (r *DefaultResolver) Resolve(key tabkey.Key, title func(tabkey.Key) string) Page {
	if title == nil {
		title = tabkey.FallbackTitle
	}
	page := Page{Title: title(key)}

	switch key {
	case tabkey.NewTab:
		page.Description = "Open a page from the list, or press g to type a path."
		for _, k := range tabkey.StaticKeys() {
			page.Links = append(page.Links, Link{Key: k})
		}
		return r.labelLinks(page)
	case tabkey.Home:
		page.Description = "Welcome back."
		for _, k := range tabkey.StaticKeys()[1:] {
			page.Links = append(page.Links, Link{Key: k})
		}
		return r.labelLinks(page)
	case tabkey.Classroom:
		page.Description = "Your classes."
		for _, c := range r.Dir.Classes {
			page.Links = append(page.Links, Link{Key: tabkey.ClassroomKey(c.ID), Label: c.Name, ReplaceParent: true})
		}
		return page
	case tabkey.Students:
		page.Description = "Every student in the school."
		for _, s := range r.Dir.Students {
			page.Links = append(page.Links, Link{Key: tabkey.StudentKey(s.Slug), Label: s.Name})
		}
		return page
	case tabkey.Inbox:
		page.Description = "No new messages."
		return page
	case tabkey.Timetable:
		page.Description = "No lessons scheduled today."
		return page
	case tabkey.Profile:
		page.Description = "Your account details."
		return page
	}

	switch key.Kind() {
	case tabkey.KindProfile:
		slug, _ := key.StudentSlug()
		page.Description = fmt.Sprintf("Student record for %s.", r.studentName(slug))
	case tabkey.KindComposite:
		r.resolveClassroom(&page, key)
	default:
		page.Description = "This page does not exist."
	}
	return page
}

func (r *DefaultResolver) resolveClassroom(page *Page, key tabkey.Key) {
	classID, _ := key.ClassID()
	class, ok := r.class(classID)
	if !ok {
		page.Description = fmt.Sprintf("No class with id %q.", classID)
		return
	}

	segs := key.Segments()
	switch {
	case len(segs) == 2:
		page.Description = fmt.Sprintf("%s, %d students.", class.Name, len(class.Students))
		page.Links = []Link{
			{Key: tabkey.ClassroomKey(class.ID, tabkey.SubStudents), Label: class.Name + " Roster", ReplaceParent: true},
			{Key: tabkey.ClassroomKey(class.ID, tabkey.SubGrades), Label: class.Name + " Grades", ReplaceParent: true},
		}
	case segs[2] == tabkey.SubStudents:
		page.Description = fmt.Sprintf("Roster of %s.", class.Name)
		for _, slug := range class.Students {
			page.Links = append(page.Links, Link{
				Key:           tabkey.ClassroomKey(class.ID, tabkey.SubStudent, slug),
				Label:         r.studentName(slug),
				ReplaceParent: true,
			})
		}
	case segs[2] == tabkey.SubGrades:
		page.Description = fmt.Sprintf("Grade book of %s.", class.Name)
	default:
		slug, _ := key.StudentSlug()
		name := r.studentName(slug)
		page.Description = fmt.Sprintf("%s in %s.", name, class.Name)
		page.Links = []Link{{Key: tabkey.StudentKey(slug), Label: name}}
	}
}

// labelLinks fills in titles for links to static pages.
func (r *DefaultResolver) labelLinks(page Page) Page {
	for i, l := range page.Links {
		if l.Label == "" {
			page.Links[i].Label = tabkey.FallbackTitle(l.Key)
		}
	}
	return page
}

func (r *DefaultResolver) class(id string) (Class, bool) {
	i := slices.IndexFunc(r.Dir.Classes, func(c Class) bool { return c.ID == id })
	if i < 0 {
		return Class{}, false
	}
	return r.Dir.Classes[i], true
}

func (r *DefaultResolver) studentName(slug string) string {
	i := slices.IndexFunc(r.Dir.Students, func(s Student) bool { return s.Slug == slug })
	if i < 0 {
		return tabkey.FallbackTitle(tabkey.StudentKey(slug))
	}
	return r.Dir.Students[i].Name
}

package tabstrip

import (
	"testing"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

func TestDescriptors(t *testing.T) {
	labels := map[tabkey.Key]string{"student-ann": "Ann Smith"}
	title := func(k tabkey.Key) string {
		if l, ok := labels[k]; ok {
			return l
		}
		return tabkey.FallbackTitle(k)
	}

	got := Descriptors(keys("home", "student-ann", "classroom/5a/grades"), "student-ann", title)

	want := []Descriptor{
		{Key: "home", Label: "Home", IconID: IconHome},
		{Key: "student-ann", Label: "Ann Smith", IconID: IconStudent, Active: true},
		{Key: "classroom/5a/grades", Label: "5a Grades", IconID: IconGrades},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDescriptors_NilTitle(t *testing.T) {
	got := Descriptors(keys("inbox"), "", nil)
	if got[0].Label != "Inbox" || got[0].Active {
		t.Errorf("got %+v", got[0])
	}
}

func TestIconFor(t *testing.T) {
	tests := map[tabkey.Key]string{
		tabkey.Home:                     IconHome,
		tabkey.Timetable:                IconTimetable,
		tabkey.NewTab:                   IconNewTab,
		"student-jane":                  IconStudent,
		"classroom/5a":                  IconClassroom,
		"classroom/5a/students":         IconStudents,
		"classroom/5a/student/jane-doe": IconStudent,
		"bogus":                         IconUnknown,
	}
	for k, want := range tests {
		if got := IconFor(k); got != want {
			t.Errorf("IconFor(%q) = %q, want %q", k, got, want)
		}
	}
}

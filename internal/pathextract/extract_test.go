package pathextract

import (
	"reflect"
	"testing"
)

func TestFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"parent folded into child",
			"Check /home/user/test.txt and /home/user for files",
			[]string{"/home/user/test.txt"},
		},
		{
			"quoted windows and unix",
			`Files at "C:\Users\test\doc.pdf" and /usr/bin/app`,
			[]string{"/usr/bin/app", `C:\Users\test\doc.pdf`},
		},
		{
			"relative paths",
			"see ./docs/readme.md or ../other/file.go",
			[]string{"../other/file.go", "./docs/readme.md"},
		},
		{
			"unc path",
			`share \\server\media\albums here`,
			[]string{`\\server\media\albums`},
		},
		{
			"multiline",
			"/a/b/c\n/d/e\n",
			[]string{"/a/b/c", "/d/e"},
		},
		{
			"no paths",
			"nothing to see here",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromText(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeduplicate(t *testing.T) {
	in := []string{
		"/home/user",
		"/home/user/documents",
		"/home/user/documents/report.pdf",
		"/usr/bin",
		"/usr/bin/ls",
	}
	got := Deduplicate(in)
	want := []string{"/home/user/documents/report.pdf", "/usr/bin/ls"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate = %v, want %v", got, want)
	}
}

func TestDeduplicateMixedSeparators(t *testing.T) {
	in := []string{
		`C:\Users`,
		`C:\Users\test`,
		"/home/user",
		"/home/username", // Sibling, not a child of /home/user.
	}
	got := Deduplicate(in)
	want := []string{"/home/user", "/home/username", `C:\Users\test`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate = %v, want %v", got, want)
	}
}

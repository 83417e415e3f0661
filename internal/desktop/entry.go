// Package desktop reads and writes freedesktop.org desktop entry files.
package desktop

import (
	"strings"
)

const (
	// Header is the section line written at the top of every entry
	Header = "[Desktop Entry]"

	// DefaultIcon is used when neither a previous entry nor the user supplies an icon
	DefaultIcon = "application-x-executable"

	// RequiredCategory is always present in the Categories field
	RequiredCategory = "Utility"

	// Extension is the file suffix of desktop entries
	Extension = ".desktop"

	appImageSuffix = ".AppImage"
)

// Entry is the content of a generated desktop entry.
// Type is always Application and Terminal is always false.
type Entry struct {
	Name       string
	Exec       string
	Icon       string
	Categories string
	Keywords   string
	Comment    string
}

// New returns an entry with default icon and categories
func New(name, exec string) *Entry {
	return &Entry{
		Name:       name,
		Exec:       exec,
		Icon:       DefaultIcon,
		Categories: RequiredCategory + ";",
	}
}

// FromExisting builds an entry from the fields of a previously written file.
// Only Icon, Keywords, Categories and Comment are carried forward; Name and Exec
// must be set by the caller.
func FromExisting(fields map[string]string) *Entry {
	e := New("", "")

	if icon, ok := fields["Icon"]; ok {
		e.Icon = icon
	}
	if keywords, ok := fields["Keywords"]; ok {
		e.Keywords = keywords
	}
	if categories, ok := fields["Categories"]; ok {
		e.Categories = NormalizeCategories(categories)
	}
	if comment, ok := fields["Comment"]; ok {
		e.Comment = comment
	}

	return e
}

// Parse splits content into key/value pairs on the first '='.
// Lines without '=' are ignored, including the section header.
func Parse(content string) map[string]string {
	values := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		values[key] = value
	}

	return values
}

// NormalizeCategories guarantees the Utility category and a trailing ';'
func NormalizeCategories(categories string) string {
	if categories == "" {
		return RequiredCategory + ";"
	}

	if !strings.Contains(categories, RequiredCategory) {
		categories = RequiredCategory + ";" + categories
	}
	if !strings.HasSuffix(categories, ";") {
		categories += ";"
	}
	return categories
}

// CleanAppName derives the application name from an AppImage file name.
//
// A trailing ".AppImage" is removed and everything from the first '-' or '_'
// onwards is dropped, so "Foo-1.2.3.AppImage" becomes "Foo". Names that
// legitimately contain a hyphen are cut as well ("My-App.AppImage" becomes "My").
func CleanAppName(filename string) string {
	base := strings.TrimSuffix(filename, appImageSuffix)
	if idx := strings.IndexAny(base, "-_"); idx >= 0 {
		return base[:idx]
	}
	return base
}

// FileName returns the desktop entry file name for an application
func FileName(appName string) string {
	return appName + Extension
}

// String renders the entry in its on-disk form
func (e *Entry) String() string {
	var b strings.Builder

	b.WriteString(Header + "\n")
	writeField(&b, "Type", "Application")
	writeField(&b, "Name", e.Name)
	writeField(&b, "Exec", e.Exec)
	writeField(&b, "Icon", e.Icon)
	writeField(&b, "Terminal", "false")

	if e.Categories != "" {
		writeField(&b, "Categories", e.Categories)
	}
	if e.Keywords != "" {
		writeField(&b, "Keywords", e.Keywords)
	}
	if e.Comment != "" {
		writeField(&b, "Comment", e.Comment)
	}

	return b.String()
}

// Bytes renders the entry for writing to disk
func (e *Entry) Bytes() []byte {
	return []byte(e.String())
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte('\n')
}

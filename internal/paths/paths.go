// Package paths resolves the per-user directories that registrations are written to.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

var (
	// ErrHomeUnavailable is returned when the user's home directory cannot be determined
	ErrHomeUnavailable = errors.New("could not determine home directory")

	// ErrApplicationsDirUnavailable is returned when no applications directory can be determined
	ErrApplicationsDirUnavailable = errors.New("could not determine applications directory")
)

// Resolver provides the directories a registration touches
type Resolver interface {
	// HomeDir returns the user's home directory
	HomeDir() (string, error)

	// ApplicationsDir returns the directory desktop entries are written to
	ApplicationsDir() (string, error)

	// IconsDir returns the directory custom icons are copied to
	IconsDir() (string, error)
}

// BinDir returns ~/.local/bin for the given home directory
func BinDir(home string) string {
	return filepath.Join(home, ".local", "bin")
}

// XDG resolves directories from the XDG base directory environment
type XDG struct{}

// NewXDG re-reads the XDG environment and returns a resolver
func NewXDG() *XDG {
	xdg.Reload()
	return &XDG{}
}

func (XDG) HomeDir() (string, error) {
	if xdg.Home == "" || !filepath.IsAbs(xdg.Home) {
		return "", ErrHomeUnavailable
	}
	return xdg.Home, nil
}

func (r XDG) ApplicationsDir() (string, error) {
	if xdg.DataHome != "" && filepath.IsAbs(xdg.DataHome) {
		return filepath.Join(xdg.DataHome, "applications"), nil
	}

	home, err := r.HomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrApplicationsDirUnavailable, err)
	}
	return filepath.Join(home, ".local", "share", "applications"), nil
}

func (r XDG) IconsDir() (string, error) {
	home, err := r.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "icons"), nil
}

// Static is a Resolver with fixed directories.
// Empty fields are reported as unavailable.
type Static struct {
	Home         string
	Applications string
	Icons        string
}

// NewStatic returns a resolver rooted at home using the default layout
func NewStatic(home string) *Static {
	return &Static{
		Home:         home,
		Applications: filepath.Join(home, ".local", "share", "applications"),
		Icons:        filepath.Join(home, ".local", "share", "icons"),
	}
}

func (s *Static) HomeDir() (string, error) {
	if s.Home == "" {
		return "", ErrHomeUnavailable
	}
	return s.Home, nil
}

func (s *Static) ApplicationsDir() (string, error) {
	if s.Applications == "" {
		return "", ErrApplicationsDirUnavailable
	}
	return s.Applications, nil
}

func (s *Static) IconsDir() (string, error) {
	if s.Icons == "" {
		home, err := s.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "icons"), nil
	}
	return s.Icons, nil
}

// Override wraps a resolver, replacing the applications and icons directories when set
type Override struct {
	Resolver
	Applications string
	Icons        string
}

func (o *Override) ApplicationsDir() (string, error) {
	if o.Applications != "" {
		return o.Applications, nil
	}
	return o.Resolver.ApplicationsDir()
}

func (o *Override) IconsDir() (string, error) {
	if o.Icons != "" {
		return o.Icons, nil
	}
	return o.Resolver.IconsDir()
}

// DirResult is the outcome of creating one directory in EnsureDirs
type DirResult struct {
	Name    string
	Path    string
	Created bool
	Err     error
}

// EnsureDirs creates the bin, share, applications and icons directories.
// It keeps going after a failure; every directory gets a result.
func EnsureDirs(r Resolver) ([]DirResult, error) {
	home, err := r.HomeDir()
	if err != nil {
		return nil, err
	}

	dirs := []DirResult{
		{Name: "bin", Path: BinDir(home)},
		{Name: "share", Path: filepath.Join(home, ".local", "share")},
	}
	if apps, err := r.ApplicationsDir(); err == nil {
		dirs = append(dirs, DirResult{Name: "applications", Path: apps})
	} else {
		dirs = append(dirs, DirResult{Name: "applications", Err: err})
	}
	if icons, err := r.IconsDir(); err == nil {
		dirs = append(dirs, DirResult{Name: "icons", Path: icons})
	} else {
		dirs = append(dirs, DirResult{Name: "icons", Err: err})
	}

	for i := range dirs {
		d := &dirs[i]
		if d.Err != nil {
			continue
		}
		if _, err := os.Stat(d.Path); err == nil {
			continue
		}
		if err := os.MkdirAll(d.Path, 0755); err != nil {
			d.Err = err
			continue
		}
		d.Created = true
	}

	return dirs, nil
}

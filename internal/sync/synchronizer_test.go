package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deskimage/internal/paths"
)

// setupHome creates a fake home with an AppImage named name in a separate downloads dir
func setupHome(t *testing.T, name string) (home, source string) {
	t.Helper()

	root := t.TempDir()
	home = filepath.Join(root, "home")
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatal(err)
	}

	source = filepath.Join(root, "downloads", name)
	if err := os.MkdirAll(filepath.Dir(source), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, []byte("#!/bin/sh\necho appimage\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return home, source
}

func newTestSynchronizer(home string) (*Synchronizer, *paths.Static) {
	resolver := paths.NewStatic(home)
	return New(resolver, nil), resolver
}

func writeDesktopFile(t *testing.T, resolver *paths.Static, appName, content string) string {
	t.Helper()
	path := filepath.Join(resolver.Applications, appName+".desktop")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSynchronize_FreshRegistration(t *testing.T) {
	home, source := setupHome(t, "Editor-2.0.AppImage")
	s, resolver := newTestSynchronizer(home)

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	if outcome.WasUpdate {
		t.Error("expected WasUpdate = false for first registration")
	}
	if outcome.AppName != "Editor" {
		t.Errorf("expected app name Editor, got %s", outcome.AppName)
	}

	expectedExec := filepath.Join(home, ".local", "bin", "Editor")
	if outcome.ExecTarget != expectedExec {
		t.Errorf("expected exec target %s, got %s", expectedExec, outcome.ExecTarget)
	}
	expectedDesktop := filepath.Join(resolver.Applications, "Editor.desktop")
	if outcome.DesktopFilePath != expectedDesktop {
		t.Errorf("expected desktop path %s, got %s", expectedDesktop, outcome.DesktopFilePath)
	}

	data, err := os.ReadFile(outcome.DesktopFilePath)
	if err != nil {
		t.Fatalf("desktop file not written: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[Desktop Entry]\n",
		"Type=Application\n",
		"Name=Editor\n",
		"Exec=" + expectedExec + "\n",
		"Icon=application-x-executable\n",
		"Terminal=false\n",
		"Categories=Utility;\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("desktop file missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "Keywords=") || strings.Contains(content, "Comment=") {
		t.Errorf("unexpected optional fields:\n%s", content)
	}
	if outcome.Content != content {
		t.Error("Outcome.Content should match the written file")
	}
}

func TestSynchronize_ExecutablePermissions(t *testing.T) {
	home, source := setupHome(t, "Tool.AppImage")
	s, _ := newTestSynchronizer(home)

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	info, err := os.Stat(outcome.ExecTarget)
	if err != nil {
		t.Fatalf("executable not installed: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("expected mode 0755, got %o", info.Mode().Perm())
	}

	srcInfo, _ := os.Stat(source)
	if srcInfo.Mode().Perm()&0111 != 0111 {
		t.Errorf("source should be made executable, got %o", srcInfo.Mode().Perm())
	}

	installed, _ := os.ReadFile(outcome.ExecTarget)
	original, _ := os.ReadFile(source)
	if string(installed) != string(original) {
		t.Error("installed executable content differs from source")
	}

	expectedHash, _ := ComputeFileHash(source)
	if outcome.SourceSHA256 != expectedHash {
		t.Errorf("expected hash %s, got %s", expectedHash, outcome.SourceSHA256)
	}
}

func TestSynchronize_OverwritesExistingExecutable(t *testing.T) {
	home, source := setupHome(t, "Tool.AppImage")
	s, _ := newTestSynchronizer(home)

	target := filepath.Join(home, ".local", "bin", "Tool")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("old version with more bytes than the new one"), 0700); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Synchronize(context.Background(), Request{SourcePath: source}); err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	installed, _ := os.ReadFile(target)
	original, _ := os.ReadFile(source)
	if string(installed) != string(original) {
		t.Errorf("expected executable to be overwritten, got %q", installed)
	}
	info, _ := os.Stat(target)
	if info.Mode().Perm() != 0755 {
		t.Errorf("expected mode 0755, got %o", info.Mode().Perm())
	}
}

func TestSynchronize_Idempotent(t *testing.T) {
	home, source := setupHome(t, "Editor-2.0.AppImage")
	s, _ := newTestSynchronizer(home)

	first, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("first Synchronize() error = %v", err)
	}
	firstContent, _ := os.ReadFile(first.DesktopFilePath)

	second, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("second Synchronize() error = %v", err)
	}
	secondContent, _ := os.ReadFile(second.DesktopFilePath)

	if !second.WasUpdate {
		t.Error("expected WasUpdate = true for second registration")
	}
	if string(firstContent) != string(secondContent) {
		t.Errorf("content changed between runs:\n%s\n---\n%s", firstContent, secondContent)
	}
	if second.Previous != string(firstContent) {
		t.Error("Outcome.Previous should hold the content before the run")
	}
}

func TestSynchronize_PrefixesUtilityCategory(t *testing.T) {
	home, source := setupHome(t, "Browser-1.0.AppImage")
	s, resolver := newTestSynchronizer(home)
	writeDesktopFile(t, resolver, "Browser", "[Desktop Entry]\nName=Browser\nCategories=Network;\n")

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	if !strings.Contains(outcome.Content, "Categories=Utility;Network;\n") {
		t.Errorf("expected Utility to be prefixed:\n%s", outcome.Content)
	}
}

func TestSynchronize_KeepsCategoriesWithUtility(t *testing.T) {
	home, source := setupHome(t, "Writer.AppImage")
	s, resolver := newTestSynchronizer(home)
	writeDesktopFile(t, resolver, "Writer", "[Desktop Entry]\nCategories=Utility;Office;\n")

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	if !strings.Contains(outcome.Content, "Categories=Utility;Office;\n") {
		t.Errorf("expected categories unchanged:\n%s", outcome.Content)
	}
}

func TestSynchronize_PreservesUserFields(t *testing.T) {
	home, source := setupHome(t, "Editor-3.1.AppImage")
	s, resolver := newTestSynchronizer(home)
	writeDesktopFile(t, resolver, "Editor", strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=Old Name",
		"Exec=/somewhere/else",
		"Icon=/custom/icon.png",
		"Terminal=true",
		"Keywords=text;code;",
		"Comment=My editor",
		"MimeType=text/plain;",
		"",
	}, "\n"))

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	c := outcome.Content
	checks := map[string]bool{
		"Icon=/custom/icon.png\n": true,
		"Keywords=text;code;\n":   true,
		"Comment=My editor\n":     true,
		"Name=Editor\n":           true,
		"Terminal=false\n":        true,
		"Categories=Utility;\n":   true,
		"Name=Old Name":           false,
		"Exec=/somewhere/else":    false,
		"MimeType=":               false,
		"Terminal=true":           false,
	}
	for fragment, want := range checks {
		if strings.Contains(c, fragment) != want {
			t.Errorf("contains %q = %v, expected %v:\n%s", fragment, !want, want, c)
		}
	}
	if outcome.Icon != "/custom/icon.png" {
		t.Errorf("expected Outcome.Icon to be preserved, got %s", outcome.Icon)
	}
}

func TestSynchronize_CustomIcon(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)

	iconPath := filepath.Join(filepath.Dir(source), "editor.png")
	if err := os.WriteFile(iconPath, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source, IconPath: iconPath})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}

	dest := filepath.Join(resolver.Icons, "editor.png")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("icon not copied: %v", err)
	}
	if outcome.Icon != dest {
		t.Errorf("expected icon %s, got %s", dest, outcome.Icon)
	}
	if outcome.IconWarning != nil {
		t.Errorf("unexpected icon warning %v", outcome.IconWarning)
	}
	if !strings.Contains(outcome.Content, "Icon="+dest+"\n") {
		t.Errorf("desktop file should reference copied icon:\n%s", outcome.Content)
	}
}

func TestSynchronize_CustomIconOverridesPrevious(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)
	writeDesktopFile(t, resolver, "Editor", "Icon=/custom/old.png\n")

	iconPath := filepath.Join(filepath.Dir(source), "new.svg")
	if err := os.WriteFile(iconPath, []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source, IconPath: iconPath})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}
	if outcome.Icon != filepath.Join(resolver.Icons, "new.svg") {
		t.Errorf("expected new icon, got %s", outcome.Icon)
	}
}

func TestSynchronize_MissingIconKeepsPrevious(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)
	writeDesktopFile(t, resolver, "Editor", "Icon=/custom/icon.png\n")

	outcome, err := s.Synchronize(context.Background(), Request{
		SourcePath: source,
		IconPath:   filepath.Join(home, "missing.png"),
	})
	if err != nil {
		t.Fatalf("Synchronize() error = %v", err)
	}
	if outcome.Icon != "/custom/icon.png" {
		t.Errorf("expected previous icon, got %s", outcome.Icon)
	}
	if outcome.IconWarning != nil {
		t.Errorf("missing icon should not produce a warning, got %v", outcome.IconWarning)
	}
}

func TestSynchronize_IconCopyFailureDegrades(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)

	// A regular file where the icons directory should be makes the copy fail
	if err := os.MkdirAll(filepath.Dir(resolver.Icons), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(resolver.Icons, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	iconPath := filepath.Join(filepath.Dir(source), "editor.png")
	if err := os.WriteFile(iconPath, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source, IconPath: iconPath})
	if err != nil {
		t.Fatalf("icon failure should not be fatal: %v", err)
	}

	var degraded *IconDegradedError
	if !errors.As(outcome.IconWarning, &degraded) {
		t.Fatalf("expected IconDegradedError, got %v", outcome.IconWarning)
	}
	if outcome.Icon != iconPath {
		t.Errorf("expected fallback to original icon path, got %s", outcome.Icon)
	}
}

func TestSynchronize_IconDirectoryLeavesNothingBehind(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)

	iconDir := filepath.Join(filepath.Dir(source), "iconsrc")
	if err := os.MkdirAll(iconDir, 0755); err != nil {
		t.Fatal(err)
	}

	outcome, err := s.Synchronize(context.Background(), Request{SourcePath: source, IconPath: iconDir})
	if err != nil {
		t.Fatalf("icon failure should not be fatal: %v", err)
	}

	var degraded *IconDegradedError
	if !errors.As(outcome.IconWarning, &degraded) {
		t.Fatalf("expected IconDegradedError, got %v", outcome.IconWarning)
	}
	if _, err := os.Stat(filepath.Join(resolver.Icons, "iconsrc")); !os.IsNotExist(err) {
		t.Errorf("failed icon copy left a file in the icons dir: %v", err)
	}
}

func TestSynchronize_SourceNotFound(t *testing.T) {
	home := t.TempDir()
	s, resolver := newTestSynchronizer(home)

	_, err := s.Synchronize(context.Background(), Request{SourcePath: filepath.Join(home, "nope.AppImage")})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".local")); !os.IsNotExist(err) {
		t.Error("no directories should be created when the source is missing")
	}
	if _, err := os.Stat(resolver.Applications); !os.IsNotExist(err) {
		t.Error("applications dir should not be created when the source is missing")
	}
}

func TestSynchronize_StagingFailureSkipsDescriptor(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)

	// A regular file at ~/.local makes ~/.local/bin impossible to create
	if err := os.WriteFile(filepath.Join(home, ".local"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	resolver.Applications = filepath.Join(home, "apps")

	_, err := s.Synchronize(context.Background(), Request{SourcePath: source})

	var staging *StagingError
	if !errors.As(err, &staging) {
		t.Fatalf("expected StagingError, got %v", err)
	}
	if staging.Op != "mkdir" {
		t.Errorf("expected mkdir failure, got %s", staging.Op)
	}
	if _, err := os.Stat(filepath.Join(resolver.Applications, "Editor.desktop")); !os.IsNotExist(err) {
		t.Error("desktop file should not be written after a staging failure")
	}
}

func TestSynchronize_DescriptorWriteFailureKeepsExecutable(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, resolver := newTestSynchronizer(home)

	// Applications dir is a regular file
	resolver.Applications = filepath.Join(home, "apps")
	if err := os.WriteFile(resolver.Applications, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Synchronize(context.Background(), Request{SourcePath: source})

	var writeErr *DescriptorWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected DescriptorWriteError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "bin", "Editor")); err != nil {
		t.Error("executable should remain installed after a descriptor failure")
	}
}

func TestSynchronize_UnavailableDirectories(t *testing.T) {
	_, source := setupHome(t, "Editor.AppImage")

	s := New(&paths.Static{}, nil)
	if _, err := s.Synchronize(context.Background(), Request{SourcePath: source}); !errors.Is(err, paths.ErrHomeUnavailable) {
		t.Errorf("expected ErrHomeUnavailable, got %v", err)
	}

	s = New(&paths.Static{Home: t.TempDir()}, nil)
	if _, err := s.Synchronize(context.Background(), Request{SourcePath: source}); !errors.Is(err, paths.ErrApplicationsDirUnavailable) {
		t.Errorf("expected ErrApplicationsDirUnavailable, got %v", err)
	}
}

func TestSynchronize_CanceledContext(t *testing.T) {
	home, source := setupHome(t, "Editor.AppImage")
	s, _ := newTestSynchronizer(home)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Synchronize(ctx, Request{SourcePath: source}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "bin", "Editor")); !os.IsNotExist(err) {
		t.Error("nothing should be staged with a canceled context")
	}
}

func TestCopyFile_SameFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(path, path); err != nil {
		t.Fatalf("copyFile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "content" {
		t.Errorf("self copy truncated the file: %q", data)
	}
}

func TestCopyFile_RejectsNonRegularSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out", "copy")

	if err := copyFile(dir, dst); err == nil {
		t.Fatal("copying a directory should fail")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("destination should not be created: %v", err)
	}
}

func TestQuickHash(t *testing.T) {
	if got := QuickHash("0123456789abcdef"); got != "01234567" {
		t.Errorf("QuickHash() = %s", got)
	}
	if got := QuickHash("abc"); got != "abc" {
		t.Errorf("QuickHash() = %s", got)
	}
}

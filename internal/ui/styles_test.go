package ui

import (
	"strings"
	"testing"
)

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		kind NotifyKind
		icon string
	}{
		{NotifySuccess, "✓"},
		{NotifyError, "✗"},
		{NotifyWarning, "⚠"},
		{NotifyInfo, "ℹ"},
	}

	for _, tt := range tests {
		got := RenderNotification(tt.kind, "message")
		if !strings.Contains(got, tt.icon) || !strings.Contains(got, "message") {
			t.Errorf("RenderNotification(%d) = %q, expected icon %s", tt.kind, got, tt.icon)
		}
	}
}

func TestRenderField(t *testing.T) {
	if got := RenderField("Icon", ""); !strings.Contains(got, "(none)") {
		t.Errorf("empty value should render as (none), got %q", got)
	}
	if got := RenderField("Icon", "/x.png"); !strings.Contains(got, "/x.png") {
		t.Errorf("value should be rendered, got %q", got)
	}
}

func TestRenderButton(t *testing.T) {
	if !strings.Contains(RenderButton("Create", true), "Create") {
		t.Error("active button should contain its label")
	}
	if !strings.Contains(RenderButton("Create", false), "Create") {
		t.Error("inactive button should contain its label")
	}
}

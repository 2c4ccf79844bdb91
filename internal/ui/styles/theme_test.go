// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	th := NewTheme()
	if th == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// A zero style renders input unchanged; styled ones must not panic
	// and selected styles must carry their attributes.
	if !th.HeaderTitle.GetBold() {
		t.Error("HeaderTitle should be bold")
	}
	if !th.SidebarSelected.GetBold() {
		t.Error("SidebarSelected should be bold")
	}
	if !th.InputContainer.GetBorderTop() {
		t.Error("InputContainer should have a top border")
	}
	if !th.Sidebar.GetBorderRight() {
		t.Error("Sidebar should have a right border")
	}
}

func TestThemeRendersWithoutPanic(t *testing.T) {
	th := NewTheme()
	for name, s := range map[string]string{
		"user":      th.UserBubble.Render("hello"),
		"assistant": th.AssistantBubble.Render("world"),
		"error":     th.ErrorBubble.Render("Error: boom"),
		"status":    th.StatusBar.Render("ready"),
	} {
		if s == "" {
			t.Errorf("%s style rendered empty output", name)
		}
	}
}

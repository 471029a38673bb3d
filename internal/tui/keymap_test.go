package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Submit", km.Submit},
		{"Quit", km.Quit},
		{"Cancel", km.Cancel},
		{"Pause", km.Pause},
		{"Clear", km.Clear},
		{"Up", km.Up},
		{"Down", km.Down},
		{"PageUp", km.PageUp},
		{"PageDown", km.PageDown},
	}

	for _, b := range bindings {
		t.Run(b.name, func(t *testing.T) {
			if !b.binding.Enabled() {
				t.Errorf("expected %s binding to be enabled", b.name)
			}
			if len(b.binding.Keys()) == 0 {
				t.Errorf("expected %s binding to have at least one key", b.name)
			}
			if b.binding.Help().Desc == "" {
				t.Errorf("expected %s binding to have help text", b.name)
			}
		})
	}
}

func TestDefaultKeyMap_QuitKeys(t *testing.T) {
	keys := DefaultKeyMap().Quit.Keys()
	if !slices.Contains(keys, "ctrl+c") {
		t.Error("expected Quit binding to include 'ctrl+c'")
	}
	if slices.Contains(keys, "q") {
		t.Error("'q' must reach the input line")
	}
}

func TestDefaultKeyMap_NoPrintableKeys(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		for _, k := range b.Keys() {
			if len([]rune(k)) == 1 {
				t.Errorf("binding %q would swallow typed input", k)
			}
		}
	}
}

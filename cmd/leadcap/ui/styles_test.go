package ui

import "testing"

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("LEADCAP_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when LEADCAP_DARK_MODE=1")
	}

	t.Setenv("LEADCAP_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when LEADCAP_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black COLORFGBG background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("LEADCAP_DARK_MODE", "")

	if !ThemeFor("dark").IsDark {
		t.Errorf("ThemeFor(dark) returned a light theme")
	}
	if ThemeFor("light").IsDark {
		t.Errorf("ThemeFor(light) returned a dark theme")
	}
	if ThemeFor("auto").IsDark {
		t.Errorf("ThemeFor(auto) should fall back to light without hints")
	}
}

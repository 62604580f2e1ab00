package config

const (
	LightTheme string = "light-theme"
	DarkTheme  string = "dark-theme"

	LightThemeIcon string = "☀️"
	DarkThemeIcon  string = "🌙"

	DefaultDarkSyntaxTheme  string = "gruvbox"
	DefaultLightSyntaxTheme string = "catppuccin-latte"

	DefaultTheme string = DarkTheme
)

// ThemeName maps the short names used in config files ("dark", "light") to CSS theme classes.
func ThemeName(name string) string {
	switch name {
	case "light", LightTheme:
		return LightTheme
	case "dark", DarkTheme:
		return DarkTheme
	}
	return DefaultTheme
}

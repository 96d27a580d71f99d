// Package pprint: gridwarp ASCII banner.
package pprint

// PrintBanner prints the gridwarp banner with version and tagline.
func PrintBanner(version, buildDate string) {
	lines := []string{
		StylePrimary.Render("  ┌─────┬─────┬─────┬─────┐"),
		StylePrimary.Render("  │ 1   │ 2   │ 3   │ 4   │   ") + StyleAccent.Render("G R I D W A R P"),
		StyleAccent.Render("  ├─────┼─────┼─────┼─────┤"),
		StyleAccent.Render("  │ q   │ w ✛ │ e   │ r   │   ") + StyleMuted.Render("Keyboard-driven pointer navigation"),
		StyleMuted.Render("  └─────┴─────┴─────┴─────┘"),
	}

	versionStr := StyleAccent.Render("  " + version)
	if buildDate != "" {
		versionStr += StyleMuted.Render("  built " + buildDate)
	}

	s := "\n"
	for _, l := range lines {
		s += l + "\n"
	}
	emit(outW, s+"\n"+versionStr+"\n")
}

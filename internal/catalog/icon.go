package catalog

import "strings"

const defaultIcon = "🎬"

// Checked in order; the first keyword found in the title wins.
var iconKeywords = []struct {
	keyword string
	icon    string
}{
	{"prison", "🔒"},
	{"family", "👑"},
	{"boss", "👑"},
	{"hero", "🦸"},
	{"space", "🚀"},
	{"star", "🚀"},
	{"love", "💕"},
	{"heart", "💕"},
	{"dark", "🌙"},
	{"night", "🌙"},
	{"dream", "💭"},
	{"ring", "💍"},
	{"city", "🏙️"},
	{"urban", "🏙️"},
	{"life", "🌱"},
	{"virtual", "🕶️"},
}

// IconFor picks a display icon for a movie title.
func IconFor(title string) string {
	t := strings.ToLower(title)
	for _, k := range iconKeywords {
		if strings.Contains(t, k.keyword) {
			return k.icon
		}
	}
	return defaultIcon
}

package suggest

import (
	"strings"
)

// MoodField names a labeled line in a music mood reply.
type MoodField int

const (
	FieldNone MoodField = iota
	FieldMood
	FieldTempo
	FieldGenre
)

// ClassifyMoodLine reports which mood field a reply line carries and its
// value, taken after the last colon. Lines naming no field, or naming one
// without a value, are unparsed.
func ClassifyMoodLine(line string) (MoodField, string, bool) {
	lower := strings.ToLower(line)

	field := FieldNone
	switch {
	case strings.Contains(lower, "mood"):
		field = FieldMood
	case strings.Contains(lower, "tempo"):
		field = FieldTempo
	case strings.Contains(lower, "genre"):
		field = FieldGenre
	default:
		return FieldNone, "", false
	}

	idx := strings.LastIndex(lower, ":")
	if idx < 0 {
		return FieldNone, "", false
	}
	value := strings.TrimSpace(lower[idx+1:])
	value = strings.Trim(value, "*_`\"'.")
	if value == "" {
		return FieldNone, "", false
	}
	return field, value, true
}

// ParseMusicMood extracts mood, tempo and genre from a free-text reply.
// Fields the reply does not mention keep their defaults. ok is false when
// no line could be classified.
func ParseMusicMood(text string) (Mood, bool) {
	mood := DefaultMood()
	parsed := false
	for _, line := range strings.Split(text, "\n") {
		field, value, ok := ClassifyMoodLine(line)
		if !ok {
			continue
		}
		parsed = true
		switch field {
		case FieldMood:
			mood.Mood = value
		case FieldTempo:
			mood.Tempo = value
		case FieldGenre:
			mood.Genre = value
		}
	}
	return mood, parsed
}

// ClassifyScriptLine parses a "Scene N: visual | Narration: text" line.
func ClassifyScriptLine(line string) (Scene, bool) {
	if !strings.Contains(line, "|") || !strings.Contains(line, ":") {
		return Scene{}, false
	}
	parts := strings.Split(line, "|")
	scene := Scene{
		Visual:    afterLabel(parts[0]),
		Narration: afterLabel(parts[1]),
	}
	if scene.Visual == "" && scene.Narration == "" {
		return Scene{}, false
	}
	return scene, true
}

// ParseScript extracts the scenes of a script reply. ok is false when no
// line matched the scene format.
func ParseScript(text string) ([]Scene, bool) {
	var scenes []Scene
	for _, line := range strings.Split(text, "\n") {
		if scene, ok := ClassifyScriptLine(line); ok {
			scenes = append(scenes, scene)
		}
	}
	return scenes, len(scenes) > 0
}

// ParseList returns the non-empty lines of a reply with list markers such
// as "1.", "2)" or "-" removed.
func ParseList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item := stripMarker(strings.TrimSpace(line))
		item = strings.TrimSpace(strings.Trim(item, `"`))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func afterLabel(s string) string {
	if _, rest, found := strings.Cut(s, ":"); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

func stripMarker(line string) string {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(line, "* "); ok {
		return rest
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[i+1:]
	}
	return line
}

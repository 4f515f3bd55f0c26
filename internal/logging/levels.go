package logging

import "strings"

// Level is the severity scale shared by the console and go-logger providers.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"trace", "debug", "info", "warn", "error", "fatal"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "info"
}

// ParseLevel maps a logging.level value onto a Level. "warning" is accepted
// for warn. Unknown names report false.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return LevelWarn, true
	}
	for i, candidate := range levelNames {
		if candidate == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// QualifiedModule expands a short module name such as "generator" to
// "newsroom.generator". Qualified names are returned unchanged.
func QualifiedModule(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == rootModule || strings.HasPrefix(name, rootModule+".") {
		return name
	}
	return rootModule + "." + name
}

// ShortModule trims the root prefix: "newsroom.generator" becomes "generator".
func ShortModule(name string) string {
	short := strings.TrimPrefix(strings.TrimSpace(name), rootModule+".")
	if short == "" {
		return rootModule
	}
	return short
}

// FocusModules qualifies and deduplicates logging.focus entries.
func FocusModules(focus []string) []string {
	out := make([]string, 0, len(focus))
	seen := map[string]struct{}{}
	for _, name := range focus {
		qualified := QualifiedModule(name)
		if qualified == "" {
			continue
		}
		if _, ok := seen[qualified]; ok {
			continue
		}
		seen[qualified] = struct{}{}
		out = append(out, qualified)
	}
	return out
}

// InFocus reports whether module falls under one of the focused modules.
// An empty focus list admits every module; "newsroom.commands" admits
// "newsroom.commands.site".
func InFocus(module string, focus []string) bool {
	if len(focus) == 0 {
		return true
	}
	module = QualifiedModule(module)
	for _, name := range focus {
		if module == name || strings.HasPrefix(module, name+".") {
			return true
		}
	}
	return false
}

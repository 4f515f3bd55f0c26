package interfaces

// Diagnostic describes input that was skipped or replaced by a default while
// loading site content. Diagnostics never fail a build.
type Diagnostic struct {
	// Source is the file or directory the diagnostic relates to.
	Source  string
	Message string
	Err     error
}

func (d Diagnostic) String() string {
	out := d.Message
	if d.Source != "" {
		out = d.Source + ": " + out
	}
	if d.Err != nil {
		out += ": " + d.Err.Error()
	}
	return out
}

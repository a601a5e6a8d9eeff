package convo

// ProjectTurn maps a Context turn to its zero-or-one transcript projection.
// User and model turns with text project to a text entry; function turns and
// tool-only model turns project to nothing (their attachments and synthetic
// lines are recorded by the turn executor, which has the dispatch results in
// hand).
func ProjectTurn(t Turn) (Entry, bool) {
	switch t.Role {
	case RoleUser, RoleModel:
		if txt := t.Text(); txt != "" {
			return Entry{Role: t.Role, Text: txt}, true
		}
	}
	return Entry{}, false
}

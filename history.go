package linenoise

// AddToHistory adds a line to the persisted history, collapsing it against a
// duplicate newest entry (§3, §6's history_add).
func (e *Editor) AddToHistory(line string) bool {
	return e.h.Add(line)
}

// ClearHistory discards all persisted history.
func (e *Editor) ClearHistory() {
	e.h.Clear()
}

// History returns a copy of the persisted history, oldest first.
func (e *Editor) History() []string {
	return e.h.Entries()
}

// HistorySetMaxLen changes the history bound (§6's history_set_max_len).
func (e *Editor) HistorySetMaxLen(n int) bool {
	ok := e.h.SetMaxLen(n)
	if ok {
		e.cfg.HistoryMaxLen = n
	}
	return ok
}

// HistoryGetMaxLen returns the current history bound.
func (e *Editor) HistoryGetMaxLen() int {
	return e.h.MaxLen()
}

// SaveHistory writes the persisted history to filename in the escaped
// one-line-per-entry format of §6.
func (e *Editor) SaveHistory(filename string) error {
	return e.h.Save(filename)
}

// LoadHistory loads history from filename, replacing the current persisted
// entries. A missing file is not an error.
func (e *Editor) LoadHistory(filename string) error {
	return e.h.Load(filename)
}

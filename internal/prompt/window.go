package prompt

// Entry is one successfully narrated slide, kept for later prompts.
type Entry struct {
	SlideNumber int
	SourceText  string
	Narration   string
}

// Window is the append-only sequence of prior narrations for one pass.
// The zero value is an empty window ready to use.
type Window struct {
	entries []Entry
}

// Append adds an entry. Callers append in slide order, once per slide.
func (w *Window) Append(e Entry) {
	w.entries = append(w.entries, e)
}

// Len returns the number of entries.
func (w *Window) Len() int {
	if w == nil {
		return 0
	}
	return len(w.entries)
}

// Last returns the most recent entry.
func (w *Window) Last() (Entry, bool) {
	if w.Len() == 0 {
		return Entry{}, false
	}
	return w.entries[len(w.entries)-1], true
}

// Tail returns up to n of the most recent entries, oldest first.
func (w *Window) Tail(n int) []Entry {
	l := w.Len()
	if n <= 0 || l == 0 {
		return nil
	}
	if n > l {
		n = l
	}
	out := make([]Entry, n)
	copy(out, w.entries[l-n:])
	return out
}

// Entries returns a copy of all entries.
func (w *Window) Entries() []Entry {
	return w.Tail(w.Len())
}

package ui

// lineEditor holds the line being typed and the position while walking
// through history. index == len(history) means a fresh line.
type lineEditor struct {
	text  []rune
	index int
}

func (e *lineEditor) String() string {
	return string(e.text)
}

func (e *lineEditor) insert(r rune) {
	e.text = append(e.text, r)
}

func (e *lineEditor) backspace() {
	if len(e.text) > 0 {
		e.text = e.text[:len(e.text)-1]
	}
}

func (e *lineEditor) set(s string) {
	e.text = []rune(s)
}

// take returns the current line and clears it.
func (e *lineEditor) take() string {
	s := string(e.text)
	e.text = nil
	return s
}

// rewind moves the history position past the newest entry.
func (e *lineEditor) rewind(historyLen int) {
	e.index = historyLen
}

func (e *lineEditor) up(history []string) {
	if len(history) == 0 {
		return
	}
	if e.index > len(history) {
		e.index = len(history)
	}
	if e.index > 0 {
		e.index--
		e.set(history[e.index])
	}
}

// down walks toward newer entries; stepping past the newest clears the line.
func (e *lineEditor) down(history []string) {
	if e.index < len(history)-1 {
		e.index++
		e.set(history[e.index])
		return
	}
	e.index = len(history)
	e.text = nil
}

package editor

import "studio/internal/domain"

const DefaultHistoryLimit = 50

// History keeps bounded undo/redo stacks of document values.
type History struct {
	limit int
	past  []domain.Document
	next  []domain.Document
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record stores prev as the state to return to and drops the redo stack.
func (h *History) Record(prev domain.Document) {
	h.past = append(h.past, prev)
	if len(h.past) > h.limit {
		h.past = append([]domain.Document(nil), h.past[len(h.past)-h.limit:]...)
	}
	h.next = nil
}

// Undo returns the previous document, pushing cur onto the redo stack.
func (h *History) Undo(cur domain.Document) (domain.Document, bool) {
	if len(h.past) == 0 {
		return cur, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.next = append(h.next, cur)
	return prev, true
}

func (h *History) Redo(cur domain.Document) (domain.Document, bool) {
	if len(h.next) == 0 {
		return cur, false
	}
	nxt := h.next[len(h.next)-1]
	h.next = h.next[:len(h.next)-1]
	h.past = append(h.past, cur)
	return nxt, true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.next) > 0 }

func (h *History) Reset() {
	h.past = nil
	h.next = nil
}

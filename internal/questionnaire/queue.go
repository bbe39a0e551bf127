package questionnaire

// Queue is the FIFO of pending question IDs. Normal additions go to the
// back; follow-ups and go-back go to the front.
type Queue []string

func (q Queue) Len() int { return len(q) }

func (q Queue) Empty() bool { return len(q) == 0 }

// Front peeks at the head without removing it.
func (q Queue) Front() (string, bool) {
	if len(q) == 0 {
		return "", false
	}
	return q[0], true
}

func (q Queue) Contains(id string) bool {
	for _, v := range q {
		if v == id {
			return true
		}
	}
	return false
}

func (q *Queue) PushBack(id string) {
	*q = append(*q, id)
}

func (q *Queue) PushFront(id string) {
	*q = append(Queue{id}, *q...)
}

func (q *Queue) PopFront() (string, bool) {
	if len(*q) == 0 {
		return "", false
	}
	head := (*q)[0]
	*q = (*q)[1:]
	return head, true
}

// Remove drops every occurrence of id and reports whether one was found.
func (q *Queue) Remove(id string) bool {
	out := (*q)[:0]
	found := false
	for _, v := range *q {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	*q = out
	return found
}

// Items returns a copy of the pending IDs.
func (q Queue) Items() []string {
	out := make([]string, len(q))
	copy(out, q)
	return out
}

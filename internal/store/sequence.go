package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequence hands out increasing id numbers. It never goes backwards, so an id
// freed by a delete is not handed out again.
type Sequence struct {
	last int
}

func (s *Sequence) Last() int { return s.last }

func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Observe raises the sequence to n if n is ahead of it.
func (s *Sequence) Observe(n int) {
	if n > s.last {
		s.last = n
	}
}

// FormatID renders ids like ORD-001. Numbers above 999 keep all their digits.
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// ParseID extracts the number after the last '-' of a generated id, or 0.
func ParseID(id string) int {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Package tokenize splits text into lowercase words and walks the sliding
// windows of three consecutive words.
//
// Words are maximal runs of ASCII letters, digits and apostrophes. Every
// other byte is a boundary. Normalization happens in place: the normalized
// text is never longer than the input it was produced from.
package tokenize

import "iter"

// WindowSize is the number of words in a triplet.
const WindowSize = 3

var classes = func() (t [256]byte) {
	for c := byte('0'); c <= '9'; c++ {
		t[c] = c
	}
	for c := byte('a'); c <= 'z'; c++ {
		t[c] = c
		t[c-'a'+'A'] = c
	}
	t['\''] = '\''

	return t
}()

// Class returns the lowercase form of a word byte, or 0 for a boundary.
func Class(b byte) byte {
	return classes[b]
}

// Span is a window of WindowSize words within the normalized buffer.
type Span struct {
	Offset int
	Length int
}

// Scanner normalizes a buffer in place and yields the span of every triplet.
//
// Words are written back joined by a single space, so once Next returned a
// span, buf[Offset:Offset+Length] holds the normalized triplet. The buffer
// must not be modified by anyone else while scanning.
type Scanner struct {
	buf   []byte
	read  int
	write int
	words int

	// Write offsets of the most recent words, oldest first.
	starts [WindowSize]int
}

func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Next advances to the next triplet. It returns false once the buffer is
// exhausted; the last word ends at the end of the buffer.
func (s *Scanner) Next() (Span, bool) {
	for s.nextWord() {
		if s.words < WindowSize {
			continue
		}

		return Span{Offset: s.starts[0], Length: s.write - s.starts[0]}, true
	}

	return Span{}, false
}

// Spans iterates over the remaining triplets.
func (s *Scanner) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for {
			span, ok := s.Next()
			if !ok || !yield(span) {
				return
			}
		}
	}
}

// Words returns the number of words seen so far.
func (s *Scanner) Words() int {
	return s.words
}

// Normalized returns the normalized text written so far.
func (s *Scanner) Normalized() []byte {
	return s.buf[:s.write]
}

func (s *Scanner) nextWord() bool {
	buf := s.buf

	for s.read < len(buf) && classes[buf[s.read]] == 0 {
		s.read++
	}
	if s.read == len(buf) {
		return false
	}

	// At least one boundary byte was consumed since the previous word, which
	// leaves room for the separator.
	if s.words > 0 {
		buf[s.write] = ' '
		s.write++
	}

	copy(s.starts[:], s.starts[1:])
	s.starts[WindowSize-1] = s.write

	for s.read < len(buf) {
		c := classes[buf[s.read]]
		if c == 0 {
			break
		}

		buf[s.write] = c
		s.write++
		s.read++
	}

	s.words++

	return true
}

// Normalize rewrites buf in place: boundaries are dropped at the start and
// collapsed into a single space elsewhere, letters are lowercased. It
// returns the normalized prefix of buf.
func Normalize(buf []byte) []byte {
	read, write := 0, 0

	for read < len(buf) && classes[buf[read]] == 0 {
		read++
	}

	for read < len(buf) {
		if c := classes[buf[read]]; c != 0 {
			buf[write] = c
			write++
			read++

			continue
		}

		buf[write] = ' '
		write++

		for read < len(buf) && classes[buf[read]] == 0 {
			read++
		}
	}

	return buf[:write]
}

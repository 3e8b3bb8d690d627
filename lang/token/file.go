package token

// File resolves byte offsets within a single source file into full
// Positions. It records the offset of every line start once, at
// construction, so that Position lookups are a binary search rather than a
// re-scan, the same division of labor as go/token.File uses internally.
type File struct {
	Name  string
	Src   []byte
	lines []int // byte offset of the start of each line; lines[0] == 0
}

// NewFile builds a File over src, precomputing line-start offsets.
func NewFile(name string, src []byte) *File {
	f := &File{Name: name, Src: src, lines: []int{0}}
	for i, b := range src {
		if b == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// Position resolves a byte offset and length into a full Position.
func (f *File) Position(offset, length int) Position {
	line := f.lineForOffset(offset)
	col := offset - f.lines[line] + 1
	return Position{Offset: offset, Line: line + 1, Column: col, Length: length}
}

func (f *File) lineForOffset(offset int) int {
	lo, hi := 0, len(f.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// LineText returns the source text of the given 1-based line number, without
// its trailing newline, used by the diagnostic engine to render a caret
// underline.
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lines) {
		return ""
	}
	start := f.lines[line-1]
	end := len(f.Src)
	if line < len(f.lines) {
		end = f.lines[line] - 1
	}
	if end > len(f.Src) {
		end = len(f.Src)
	}
	if start > end {
		return ""
	}
	text := f.Src[start:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return string(text)
}

package app

// Pager holds the page-aligned question pointer for a paged exam view.
// Pointer is 0-based and always a multiple of PageSize inside [0, Total).
type Pager struct {
	Total    int
	PageSize int
	Pointer  int
}

func newPager(total int) Pager {
	return Pager{Total: total, PageSize: 1}
}

// ValidPageSize reports whether n questions per page is a supported layout.
func ValidPageSize(n int) bool {
	return n == 1 || n == 2
}

// Move shifts the pointer one page forward (dir 1) or backward (dir -1). Any
// other dir, and moves that would leave [0, Total), are rejected; there is no
// wraparound.
func (p Pager) Move(dir int) (Pager, bool) {
	if dir != 1 && dir != -1 {
		return p, false
	}
	next := p.Pointer + dir*p.PageSize
	if next < 0 || next >= p.Total {
		return p, false
	}
	p.Pointer = next
	return p, true
}

// WithPageSize switches the layout and realigns the pointer to the start of
// the page holding the current question.
func (p Pager) WithPageSize(n int) (Pager, bool) {
	if !ValidPageSize(n) || n == p.PageSize {
		return p, false
	}
	p.PageSize = n
	p.Pointer = p.Pointer / n * n
	return p, true
}

// JumpTo moves to the page containing question q (1-based).
func (p Pager) JumpTo(q int) (Pager, bool) {
	if q < 1 || q > p.Total {
		return p, false
	}
	next := (q - 1) / p.PageSize * p.PageSize
	if next == p.Pointer {
		return p, false
	}
	p.Pointer = next
	return p, true
}

// Page is the 1-based page number.
func (p Pager) Page() int {
	return p.Pointer/p.PageSize + 1
}

func (p Pager) TotalPages() int {
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Pager) HasPrev() bool {
	return p.Pointer > 0
}

func (p Pager) HasNext() bool {
	return p.Pointer+p.PageSize < p.Total
}

// Visible returns the first and last question numbers (1-based, inclusive) on the page.
func (p Pager) Visible() (int, int) {
	first := p.Pointer + 1
	last := p.Pointer + p.PageSize
	if last > p.Total {
		last = p.Total
	}
	return first, last
}

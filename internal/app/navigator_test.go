package app

import (
	"math/rand"
	"testing"
)

func TestPagerMoveRejectsOutOfRange(t *testing.T) {
	p := newPager(5)

	if _, ok := p.Move(-1); ok {
		t.Fatalf("expected backward move from first page to be rejected")
	}
	for i := 0; i < 4; i++ {
		var ok bool
		if p, ok = p.Move(1); !ok {
			t.Fatalf("move %d rejected", i)
		}
	}
	if p.Pointer != 4 || p.HasNext() {
		t.Fatalf("expected last question, got %+v", p)
	}
	if next, ok := p.Move(1); ok || next.Pointer != 4 {
		t.Fatalf("expected forward move from last page to be rejected, got %+v", next)
	}
}

func TestPagerMovesOnePageAtATime(t *testing.T) {
	p := newPager(10)
	for _, dir := range []int{0, 2, 7, -3} {
		if next, ok := p.Move(dir); ok || next.Pointer != 0 {
			t.Fatalf("expected move %d to be rejected, got %+v", dir, next)
		}
	}
	p, _ = p.WithPageSize(2)
	p, ok := p.Move(1)
	if !ok || p.Pointer != 2 {
		t.Fatalf("expected one page forward, got %+v ok=%v", p, ok)
	}
}

func TestPagerTwoPerPage(t *testing.T) {
	p := newPager(5)
	p, _ = p.JumpTo(4) // pointer 3

	p, ok := p.WithPageSize(2)
	if !ok || p.Pointer != 2 {
		t.Fatalf("expected realign to 2, got %+v ok=%v", p, ok)
	}
	if p.Page() != 2 || p.TotalPages() != 3 {
		t.Fatalf("expected page 2 of 3, got %d of %d", p.Page(), p.TotalPages())
	}
	p, _ = p.Move(1)
	first, last := p.Visible()
	if first != 5 || last != 5 {
		t.Fatalf("expected last page to show only q5, got %d..%d", first, last)
	}
	if _, ok := p.WithPageSize(3); ok {
		t.Fatalf("expected page size 3 to be rejected")
	}
}

func TestPagerJumpAligns(t *testing.T) {
	p := Pager{Total: 10, PageSize: 2}

	p, ok := p.JumpTo(7)
	if !ok || p.Pointer != 6 {
		t.Fatalf("expected pointer 6, got %+v", p)
	}
	if _, ok := p.JumpTo(8); ok {
		t.Fatalf("jump within the current page should not change state")
	}
	if _, ok := p.JumpTo(11); ok {
		t.Fatalf("jump past the end should be rejected")
	}
}

func TestPagerNeverLeavesRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, total := range []int{1, 2, 3, 10, 105} {
		p := newPager(total)
		for i := 0; i < 500; i++ {
			switch rnd.Intn(3) {
			case 0:
				p, _ = p.Move(rnd.Intn(5) - 2)
			case 1:
				p, _ = p.WithPageSize(rnd.Intn(3) + 1)
			case 2:
				p, _ = p.JumpTo(rnd.Intn(total+4) - 2)
			}
			if p.Pointer < 0 || p.Pointer >= total || p.Pointer%p.PageSize != 0 {
				t.Fatalf("total=%d: pointer escaped: %+v", total, p)
			}
		}
	}
}

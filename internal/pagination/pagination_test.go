package pagination

import "testing"

func TestPageRequestDefaults(t *testing.T) {
	var p PageRequest
	p.Defaults()
	if p.Page != 1 || p.PageSize != 20 {
		t.Fatalf("expected 1/20, got %d/%d", p.Page, p.PageSize)
	}
	if p.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset())
	}

	p = PageRequest{Page: 3, PageSize: 10}
	p.Defaults()
	if p.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", p.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2}, 2, 2, 5)
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
		if !resp.HasNext || !resp.HasPrevious {
			t.Errorf("expected both next and previous, got %v/%v", resp.HasNext, resp.HasPrevious)
		}
	})

	t.Run("last page", func(t *testing.T) {
		resp := NewPageResponse([]int{5}, 3, 2, 5)
		if resp.HasNext {
			t.Error("last page should not have next")
		}
	})

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		resp := NewPageResponse[int](nil, 1, 20, 0)
		if resp.Data == nil {
			t.Error("expected non-nil data")
		}
		if resp.HasNext || resp.HasPrevious {
			t.Error("empty first page has no neighbours")
		}
	})
}

package pagination

import "testing"

func TestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.Limit != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", req.Page, req.Limit)
	}

	req = PageRequest{Page: 3, Limit: 5}
	req.Defaults()
	if req.Page != 3 || req.Limit != 5 {
		t.Errorf("defaults overwrote explicit values: %d/%d", req.Page, req.Limit)
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]int{1, 2}, 1, 2, 5)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages for 5 items of 2, got %d", resp.TotalPages)
	}
	if resp.CurrentPage != 1 {
		t.Errorf("expected current page 1, got %d", resp.CurrentPage)
	}

	empty := NewPageResponse[int](nil, 1, 10, 0)
	if empty.Data == nil {
		t.Error("expected empty slice, got nil")
	}
	if empty.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", empty.TotalPages)
	}
}

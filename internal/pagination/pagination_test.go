package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPaginator_NumPages(t *testing.T) {
	tests := []struct {
		count int64
		per   int
		want  int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{13, 10, 2},
		{21, 10, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.count, tt.per).NumPages(), "count=%d per=%d", tt.count, tt.per)
	}
}

func TestPaginator_Number(t *testing.T) {
	p := New(13, 10)

	assert.Equal(t, 1, p.Number(""))
	assert.Equal(t, 1, p.Number("abc"))
	assert.Equal(t, 1, p.Number("0"))
	assert.Equal(t, 1, p.Number("-3"))
	assert.Equal(t, 2, p.Number("2"))
	assert.Equal(t, 2, p.Number("99"))
}

func TestPaginator_GetPage(t *testing.T) {
	p := New(13, 10)

	got := p.GetPage("2")
	want := Window{Number: 2, Offset: 10, Limit: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetPage mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_DefaultsPerPage(t *testing.T) {
	assert.Equal(t, DefaultPerPage, New(5, 0).PerPage)
}

func TestNewPage_SecondOfTwo(t *testing.T) {
	p := New(13, 10)
	w := p.GetPage("2")
	page := NewPage(p, w, []string{"a", "b", "c"})

	want := Page[string]{
		Objects:            []string{"a", "b", "c"},
		Number:             2,
		NumPages:           2,
		Count:              13,
		PerPage:            10,
		HasNext:            false,
		HasPrevious:        true,
		NextPageNumber:     0,
		PreviousPageNumber: 1,
		PageRange:          []int{1, 2},
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("NewPage mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, page.Len())
	assert.Equal(t, int64(11), page.StartIndex())
	assert.Equal(t, int64(13), page.EndIndex())
}

func TestNewPage_Empty(t *testing.T) {
	p := New(0, 10)
	page := NewPage[int](p, p.GetPage("5"), nil)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 0, page.Len())
	assert.NotNil(t, page.Objects)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	assert.Equal(t, int64(0), page.StartIndex())
	assert.Equal(t, []int{1}, page.PageRange)
}

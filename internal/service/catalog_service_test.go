package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/internal/models"
)

type fakeSheetFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	records map[string][]dto.SheetRecord
	err     error
}

func newFakeSheetFetcher() *fakeSheetFetcher {
	return &fakeSheetFetcher{
		calls:   make(map[string]int),
		records: make(map[string][]dto.SheetRecord),
	}
}

func (f *fakeSheetFetcher) Fetch(_ context.Context, sheet string) ([]dto.SheetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[sheet]++
	if f.err != nil {
		return nil, f.err
	}
	return f.records[sheet], nil
}

func (f *fakeSheetFetcher) callCount(sheet string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[sheet]
}

func TestCatalogServiceCoursesMemoized(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.records[dto.SheetEducation] = []dto.SheetRecord{
		{"ID": "c1", "Title": "데이터 분석 입문", "Status": "모집중"},
	}
	svc := NewCatalogService(fetcher, nil)

	first := svc.Courses(context.Background())
	second := svc.Courses(context.Background())

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.callCount(dto.SheetEducation), "second read must hit the memo, not the sheet")
}

func TestCatalogServiceConcurrentFirstRead(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.records[dto.SheetFAQ] = []dto.SheetRecord{
		{"Question": "환불이 되나요?", "Answer": "개강 7일 전까지"},
	}
	svc := NewCatalogService(fetcher, nil)

	var wg sync.WaitGroup
	var nonEmpty int64
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(svc.FAQs(context.Background())) == 1 {
				atomic.AddInt64(&nonEmpty, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(16), nonEmpty)
	assert.Equal(t, 1, fetcher.callCount(dto.SheetFAQ), "concurrent first reads must share one fetch")
}

func TestCatalogServiceFailureReturnsEmptyAndRetries(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.err = errors.New("upstream down")
	svc := NewCatalogService(fetcher, nil)

	assert.Empty(t, svc.Courses(context.Background()))

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.records[dto.SheetEducation] = []dto.SheetRecord{{"ID": "c1", "Title": "과정", "Status": "모집중"}}
	fetcher.mu.Unlock()

	assert.Len(t, svc.Courses(context.Background()), 1, "a failure must not poison the memo")
}

func TestCatalogServiceRefresh(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.records[dto.SheetCompanies] = []dto.SheetRecord{{"Company": "예시상사"}}
	svc := NewCatalogService(fetcher, nil)

	require.Len(t, svc.Companies(context.Background()), 1)
	svc.Refresh()
	require.Len(t, svc.Companies(context.Background()), 1)
	assert.Equal(t, 2, fetcher.callCount(dto.SheetCompanies))
}

func TestCatalogServiceOpenCourses(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.records[dto.SheetEducation] = []dto.SheetRecord{
		{"ID": "c1", "Title": "A", "Status": "모집중"},
		{"ID": "c2", "Title": "B", "Status": "마감"},
		{"ID": "c3", "Title": "C", "Status": "준비중"},
	}
	svc := NewCatalogService(fetcher, nil)

	open := svc.OpenCourses(context.Background())
	require.Len(t, open, 2)
	assert.Equal(t, "c1", open[0].ID)
	assert.Equal(t, "c3", open[1].ID)
}

func TestCatalogServiceGroup(t *testing.T) {
	fetcher := newFakeSheetFetcher()
	fetcher.records[dto.SheetEducation] = []dto.SheetRecord{
		{"ID": "c1", "Title": "데이터 분석 입문", "Status": "마감"},
		{"ID": "c2", "Title": "데이터 분석 입문", "Status": "모집중"},
	}
	svc := NewCatalogService(fetcher, nil)

	group, ok := svc.Group(context.Background(), "c2")
	require.True(t, ok)
	assert.Equal(t, models.CourseStatusRecruiting, group.DisplayStatus)
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "file share link",
			in:   "https://drive.google.com/file/d/1AbC_dEf/view?usp=sharing",
			want: "https://lh3.googleusercontent.com/u/0/d/1AbC_dEf",
		},
		{
			name: "open id link",
			in:   "https://drive.google.com/open?id=1XyZ",
			want: "https://lh3.googleusercontent.com/u/0/d/1XyZ",
		},
		{
			name: "uc id link",
			in:   "https://drive.google.com/uc?export=view&id=1QwE",
			want: "https://lh3.googleusercontent.com/u/0/d/1QwE",
		},
		{
			name: "non-drive url untouched",
			in:   "https://example.com/banner.png",
			want: "https://example.com/banner.png",
		},
		{
			name: "empty untouched",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeImageURL(tt.in))
		})
	}
}

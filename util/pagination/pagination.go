// Package pagination parses "/page/size/window" path triples and computes the
// page-number window shown under a list.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize   = 15
	DefaultWindowSize = 20
	MaxPageSize       = 100
	MaxWindowSize     = 100
	// MaxPageNum keeps (page-1)*MaxPageSize well inside int32.
	MaxPageNum = 1 << 20
)

// Request is a parsed pagination triple.
type Request struct {
	CurrentPageNum int `json:"paginationCurrentPageNum"`
	PageSize       int `json:"paginationPageSize"`
	WindowSize     int `json:"paginationWindowSize"`
}

// Result is the pagination block returned next to a page of items.
type Result struct {
	PageCount int   `json:"paginationPageCount"`
	PageNums  []int `json:"paginationPageNums"`
}

// ParseRequest parses "page/size/window". Missing, non-numeric or
// non-positive parts fall back to 1, DefaultPageSize and DefaultWindowSize.
// Page, size and window are capped at MaxPageNum, MaxPageSize and MaxWindowSize.
func ParseRequest(path string) Request {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	req := Request{
		CurrentPageNum: partOr(parts, 0, 1),
		PageSize:       partOr(parts, 1, DefaultPageSize),
		WindowSize:     partOr(parts, 2, DefaultWindowSize),
	}
	req.CurrentPageNum = min(req.CurrentPageNum, MaxPageNum)
	req.PageSize = min(req.PageSize, MaxPageSize)
	req.WindowSize = min(req.WindowSize, MaxWindowSize)
	return req
}

func partOr(parts []string, i int, def int) int {
	if i >= len(parts) {
		return def
	}
	n, err := strconv.Atoi(parts[i])
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(parts[i], "-") {
		return math.MaxInt
	}
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Offset returns the number of rows before the current page.
func (r Request) Offset() int {
	return (r.CurrentPageNum - 1) * r.PageSize
}

// PageCount returns how many pages of pageSize are needed for total rows.
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Paginate returns the page numbers to display. When there are fewer pages than
// the window, all pages are listed. Otherwise a windowSize-long run is centred
// on the current page and shifted to stay within [1, pageCount]. A current page
// outside [1, pageCount] is treated as the nearest bound.
func Paginate(currentPageNum, pageCount, windowSize int) []int {
	currentPageNum = max(1, min(currentPageNum, pageCount))
	if pageCount < windowSize {
		nums := make([]int, pageCount)
		for i := range nums {
			nums[i] = i + 1
		}
		return nums
	}

	first := currentPageNum + 1 - windowSize/2
	if first < 1 {
		first = 1
	}
	if first+windowSize > pageCount {
		first = pageCount - windowSize + 1
	}
	nums := make([]int, windowSize)
	for i := range nums {
		nums[i] = first + i
	}
	return nums
}

// NewResult builds the pagination block for total rows under req.
func NewResult(req Request, total int64) Result {
	pageCount := PageCount(total, req.PageSize)
	return Result{
		PageCount: pageCount,
		PageNums:  Paginate(req.CurrentPageNum, pageCount, req.WindowSize),
	}
}

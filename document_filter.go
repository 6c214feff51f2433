package meridian

import "github.com/RoaringBitmap/roaring"

// DocumentFilter restricts a search to an explicit set of row IDs, backed by
// a roaring bitmap for fast membership tests. Beyond filtering, its exact
// cardinality feeds the selectivity estimator through FilterClause.
type DocumentFilter struct {
	bitmap *roaring.Bitmap
}

// NewDocumentFilter creates a filter admitting exactly the given row IDs.
// An empty ID list returns nil, which every method treats as "no filtering".
func NewDocumentFilter(rowIDs []uint32) *DocumentFilter {
	if len(rowIDs) == 0 {
		return nil
	}
	bitmap := roaring.New()
	bitmap.AddMany(rowIDs)
	return &DocumentFilter{bitmap: bitmap}
}

// IsEligible reports whether the row may appear in search results.
// A nil filter admits every row.
func (f *DocumentFilter) IsEligible(rowID uint32) bool {
	if f == nil {
		return true
	}
	return f.bitmap.Contains(rowID)
}

// ShouldSkip reports the inverse of IsEligible, for use in scan loops.
func (f *DocumentFilter) ShouldSkip(rowID uint32) bool {
	return !f.IsEligible(rowID)
}

// Count returns the number of admitted rows. A nil filter returns 0, meaning
// all rows are admitted with no specific count.
func (f *DocumentFilter) Count() uint64 {
	if f == nil {
		return 0
	}
	return f.bitmap.GetCardinality()
}

// IsEmpty reports whether the filter admits no rows at all.
// A nil filter admits everything and is never empty.
func (f *DocumentFilter) IsEmpty() bool {
	if f == nil {
		return false
	}
	return f.bitmap.IsEmpty()
}

package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// OriginalTable is a row-major table to be compressed.
type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(row int) []int {
	return t.entries[row*t.colCount : (row+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable shares identical rows. Parsing tables of LL(1) grammars tend to have many of
// them because rows of non-terminals that expand the same way on every look-ahead are equal.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

// UniqueRowCount returns the number of rows remaining after compression.
func (tab *UniqueEntriesTable) UniqueRowCount() int {
	if tab.OriginalColCount == 0 {
		return 0
	}
	return len(tab.UniqueEntries) / tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for row := 0; row < orig.rowCount; row++ {
		entries := orig.row(row)
		key := rowKey(entries)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, entries...)
		}
		rowNums[row] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(entries []int) string {
	buf := make([]byte, 0, len(entries)*2)
	for _, e := range entries {
		buf = binary.AppendVarint(buf, int64(e))
	}
	return string(buf)
}

// ForbiddenValue marks a slot of Bounds that belongs to no row.
const ForbiddenValue = -1

// RowDisplacementTable overlays the rows onto a single array. Each row is shifted by its
// displacement so that its non-empty entries fall into free slots; Bounds records the owner row of
// each slot.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	// Placing dense rows first leaves the gaps for sparse rows.
	rows := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		rows[row].rowNum = row
		for col, v := range orig.row(row) {
			if v == tab.EmptyValue {
				continue
			}
			rows[row].nonEmptyCol = append(rows[row].nonEmptyCol, col)
		}
	}
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].nonEmptyCol) > len(rows[j].nonEmptyCol)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}

	rowDisplacement := make([]int, orig.rowCount)
	bottom := 0
	next := 0
	for _, r := range rows {
		if len(r.nonEmptyCol) == 0 {
			continue
		}

		d := next
		for !fits(bounds, d, r.nonEmptyCol) {
			d++
		}
		rowDisplacement[r.rowNum] = d
		for _, col := range r.nonEmptyCol {
			entries[d+col] = orig.entries[r.rowNum*orig.colCount+col]
			bounds[d+col] = r.rowNum
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
		next = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != ForbiddenValue {
			return false
		}
	}
	return true
}

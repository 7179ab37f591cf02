package seats

import (
	"sort"
	"strconv"
)

// Letters are the seat positions within a row, in display order.
const Letters = "ABCDEF"

// SeatMap is the ordered set of seat identifiers for one flight capacity.
type SeatMap struct {
	ids   []string
	index map[string]int
}

// GenerateSeatMap emits "1A".."1F", "2A".. until n identifiers exist.
// The last row may be partial. n <= 0 yields an empty map.
func GenerateSeatMap(n int) SeatMap {
	if n < 0 {
		n = 0
	}
	ids := make([]string, 0, n)
	index := make(map[string]int, n)
	for row := 1; len(ids) < n; row++ {
		for i := 0; i < len(Letters) && len(ids) < n; i++ {
			id := strconv.Itoa(row) + string(Letters[i])
			index[id] = len(ids)
			ids = append(ids, id)
		}
	}
	return SeatMap{ids: ids, index: index}
}

// IDs returns a copy of the identifiers in seat order.
func (m SeatMap) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m SeatMap) Len() int { return len(m.ids) }

func (m SeatMap) Contains(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Rows groups identifiers by row for rendering.
func (m SeatMap) Rows() [][]string {
	rows := make([][]string, 0, (len(m.ids)+len(Letters)-1)/len(Letters))
	for start := 0; start < len(m.ids); start += len(Letters) {
		end := start + len(Letters)
		if end > len(m.ids) {
			end = len(m.ids)
		}
		row := make([]string, end-start)
		copy(row, m.ids[start:end])
		rows = append(rows, row)
	}
	return rows
}

// ParseSeat splits "12C" into (12, 'C'). ok is false for anything that is not
// a positive row number followed by one of Letters.
func ParseSeat(id string) (row int, letter byte, ok bool) {
	if len(id) < 2 {
		return 0, 0, false
	}
	letter = id[len(id)-1]
	if indexOfLetter(letter) < 0 {
		return 0, 0, false
	}
	digits := id[:len(id)-1]
	if digits[0] == '0' {
		return 0, 0, false
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, 0, false
	}
	return row, letter, true
}

func indexOfLetter(b byte) int {
	for i := 0; i < len(Letters); i++ {
		if Letters[i] == b {
			return i
		}
	}
	return -1
}

// Less orders seats by row number, then letter. Malformed identifiers sort
// after well-formed ones, lexically among themselves.
func Less(a, b string) bool {
	ra, la, oka := ParseSeat(a)
	rb, lb, okb := ParseSeat(b)
	switch {
	case oka && okb:
		if ra != rb {
			return ra < rb
		}
		return indexOfLetter(la) < indexOfLetter(lb)
	case oka != okb:
		return oka
	default:
		return a < b
	}
}

// SortSeats sorts ids in place in seat order and returns them.
func SortSeats(ids []string) []string {
	sort.SliceStable(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
	return ids
}

package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	CellMin   = 0
	CellMax   = 8
	CellCount = 9

	CenterCell = 4
)

// Board is the 3x3 grid stored row-major:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Board [CellCount]PlayerMark

// Line is one of the eight index triples that wins when uniformly occupied.
type Line [3]int

// Lines lists every winning line: rows, then columns, then diagonals.
var Lines = [8]Line{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Corners are the four corner cells.
var Corners = [4]int{0, 2, 6, 8}

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// InRange reports whether cell addresses the board.
func InRange(cell int) bool {
	return cell >= CellMin && cell <= CellMax
}

// CheckWinner scans all eight lines and returns the first one held by a
// single mark.
func CheckWinner(b Board) (PlayerMark, Line, bool) {
	for _, line := range Lines {
		a := b[line[0]]
		if a != None && a == b[line[1]] && a == b[line[2]] {
			return a, line, true
		}
	}
	return None, Line{}, false
}

// IsBoardFull reports whether no empty cell remains.
func IsBoardFull(b Board) bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// EmptyCells returns the empty cell indexes in ascending order.
func EmptyCells(b Board) []int {
	cells := make([]int, 0, CellCount)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// Rows converts the board to a slice of rows for rendering.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for r := range rows {
		rows[r] = []PlayerMark{b[r*3], b[r*3+1], b[r*3+2]}
	}
	return rows
}

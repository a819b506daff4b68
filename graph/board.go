// graph/board.go
package graph

// The default board is a 6x6 grid of stops numbered 1..36 row-major, with a
// dense ground-short mesh, sparser ground-long and rail lines between hub
// stops, and a water lane along the eastern edge.

const (
	boardRows = 6
	boardCols = 6
)

// FugitiveStarts and PursuerStarts are the disjoint starting pools used by
// role assignment at game start.
var (
	FugitiveStarts = []int{5, 17, 23, 31}
	PursuerStarts  = []int{2, 9, 12, 14, 20, 27, 29, 34}
)

var longRoutes = []Route{
	{1, 3, GroundLong}, {3, 5, GroundLong},
	{13, 15, GroundLong}, {15, 17, GroundLong},
	{19, 21, GroundLong}, {21, 23, GroundLong},
	{31, 33, GroundLong}, {33, 35, GroundLong},
	{1, 13, GroundLong}, {13, 25, GroundLong},
	{4, 16, GroundLong}, {16, 28, GroundLong},
}

var railRoutes = []Route{
	{2, 14, Rail}, {14, 26, Rail}, {26, 28, Rail},
	{28, 16, Rail}, {16, 4, Rail},
	{8, 20, Rail}, {20, 32, Rail},
}

var waterRoutes = []Route{
	{6, 18, Water}, {18, 30, Water}, {30, 36, Water},
}

// DefaultBoard builds the compiled-in transit board.
func DefaultBoard() (*Graph, error) {
	stops := make([]int, 0, boardRows*boardCols)
	for id := 1; id <= boardRows*boardCols; id++ {
		stops = append(stops, id)
	}

	var routes []Route
	for row := 0; row < boardRows; row++ {
		for col := 0; col < boardCols; col++ {
			id := row*boardCols + col + 1
			if col < boardCols-1 {
				routes = append(routes, Route{id, id + 1, GroundShort})
			}
			if row < boardRows-1 {
				routes = append(routes, Route{id, id + boardCols, GroundShort})
			}
		}
	}
	routes = append(routes, longRoutes...)
	routes = append(routes, railRoutes...)
	routes = append(routes, waterRoutes...)

	return New(stops, routes)
}

package game

// Camera window size in tiles.
const (
	CameraCols = 16
	CameraRows = 10
)

// Rect is a window onto the map.
type Rect struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (r Rect) Contains(pos Position) bool {
	return pos.Row >= r.Row && pos.Row < r.Row+r.Rows && pos.Col >= r.Col && pos.Col < r.Col+r.Cols
}

// View is the cursor and camera a team looks at. Each team keeps its own
// between turns.
type View struct {
	Cursor Position `json:"cursor"`
	Camera Rect     `json:"camera"`
}

func (b *Battle) viewCenteredOn(pos Position) View {
	cam := Rect{Rows: min(CameraRows, b.m.Rows), Cols: min(CameraCols, b.m.Cols)}
	cam.Row = clamp(pos.Row-CameraRows/2, 0, b.m.Rows-cam.Rows)
	cam.Col = clamp(pos.Col-CameraCols/2, 0, b.m.Cols-cam.Cols)
	return View{Cursor: pos, Camera: cam}
}

// MoveCursor shifts the cursor one cell in a cardinal direction and scrolls
// the camera just enough to keep it in view.
func (b *Battle) MoveCursor(d Position) error {
	if b.phase == GameOverPhase {
		return ErrGameOver
	}
	if b.phase == SetupPhase {
		return illegalf("cannot move cursor before the first turn")
	}
	if d.Distance(Position{}) != 1 {
		return illegalf("cannot move cursor by %v", d)
	}
	next := b.view.Cursor.Add(d)
	if !b.m.InBounds(next) {
		return illegalf("cannot move cursor: %v is off the map", next)
	}

	cam := &b.view.Camera
	switch {
	case next.Row < cam.Row:
		cam.Row = next.Row
	case next.Row >= cam.Row+cam.Rows:
		cam.Row = next.Row - cam.Rows + 1
	}
	switch {
	case next.Col < cam.Col:
		cam.Col = next.Col
	case next.Col >= cam.Col+cam.Cols:
		cam.Col = next.Col - cam.Cols + 1
	}
	b.view.Cursor = next
	return nil
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

package workspace

import "github.com/Iron-Ham/classdesk/internal/tabkey"

// DropSide says on which side of the hovered tab a dropped tab would land.
type DropSide int

const (
	DropBefore DropSide = iota
	DropAfter
)

// DragController holds transient drag-and-drop state for the tab strip and
// commits a reorder into the registry on drop. Drag state is never persisted.
type DragController struct {
	reg     *Registry
	dragged tabkey.Key
	hover   tabkey.Key
}

// NewDragController creates a DragController over reg.
func NewDragController(reg *Registry) *DragController {
	return &DragController{reg: reg}
}

// OnDragStart records key as the dragged tab. Keys that are not open are ignored.
func (d *DragController) OnDragStart(key tabkey.Key) {
	d.clear()
	if d.reg.Contains(key) {
		d.dragged = key
	}
}

// OnDragOver records target as the hover tab for the insertion indicator.
// It never changes the tab order.
func (d *DragController) OnDragOver(target tabkey.Key) {
	if d.dragged == "" || target == d.dragged || !d.reg.Contains(target) {
		d.hover = ""
		return
	}
	d.hover = target
}

// OnDrop moves the dragged tab to target's current index. It reports whether
// the order changed. Drag state is cleared in every case.
func (d *DragController) OnDrop(target tabkey.Key) bool {
	defer d.clear()

	if d.dragged == "" || target == d.dragged {
		return false
	}
	to := d.reg.Index(target)
	if to < 0 || !d.reg.Contains(d.dragged) {
		return false
	}
	d.reg.Move(d.dragged, to)
	return true
}

// OnDragEnd cancels the drag without changing the order.
func (d *DragController) OnDragEnd() {
	d.clear()
}

// Dragging returns the dragged tab, if a drag is in progress.
func (d *DragController) Dragging() (tabkey.Key, bool) {
	return d.dragged, d.dragged != ""
}

// Indicator returns the hovered tab and the side the dragged tab would be
// inserted on. ok is false when there is nothing to indicate.
func (d *DragController) Indicator() (target tabkey.Key, side DropSide, ok bool) {
	if d.dragged == "" || d.hover == "" {
		return "", DropBefore, false
	}
	from, to := d.reg.Index(d.dragged), d.reg.Index(d.hover)
	if from < 0 || to < 0 {
		return "", DropBefore, false
	}
	if from < to {
		return d.hover, DropAfter, true
	}
	return d.hover, DropBefore, true
}

func (d *DragController) clear() {
	d.dragged = ""
	d.hover = ""
}

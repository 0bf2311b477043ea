package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/sirupsen/logrus"

	"github.com/Joseda-hg/lazyboard/internal/board"
	"github.com/Joseda-hg/lazyboard/internal/model"
	"github.com/Joseda-hg/lazyboard/internal/store"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
	viewDetail = "detail"
	viewForm   = "form"
	viewHelp   = "help"
	viewDue    = "due"
)

type UI struct {
	store *store.Store
	gui   *gocui.Gui
	log   logrus.FieldLogger

	filter model.Filter
	lanes  board.Lanes

	selected map[model.Status]int
	focus    model.Status

	form       *formState
	formEditor *formEditor
	dueActive  bool
	helpActive bool
	status     string
}

type formState struct {
	taskID string
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

type Options struct {
	Filter model.Filter
	Logger logrus.FieldLogger
}

func Run(s *store.Store, opts Options) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(s, opts)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadTasks(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(s *store.Store, opts Options) *UI {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ui := &UI{
		store:    s,
		log:      logger,
		filter:   opts.Filter,
		focus:    model.StatusTodo,
		selected: make(map[model.Status]int, len(model.Statuses)),
		lanes:    groupLanes(nil),
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

func laneView(status model.Status) string {
	return "lane-" + string(status)
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'g', u.clearFilters},
		{'a', u.addTask},
		{'e', u.editTask},
		{'d', u.deleteTask},
		{'x', u.toggleIncludeDone},
		{'p', u.cyclePriorityFilter},
		{'s', u.cycleStatusFilter},
		{'b', u.startDueFilter},
		{'?', u.toggleHelp},
		{'1', u.focusTodo},
		{'2', u.focusInProgress},
		{'3', u.focusDone},
		{'h', u.focusLeft},
		{'l', u.focusRight},
		{gocui.KeyArrowLeft, u.focusLeft},
		{gocui.KeyArrowRight, u.focusRight},
		{gocui.KeyTab, u.focusRight},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	lane := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{'j', u.moveDown},
		{gocui.KeyArrowDown, u.moveDown},
		{'k', u.moveUp},
		{gocui.KeyArrowUp, u.moveUp},
		{'J', u.moveTaskDown},
		{'K', u.moveTaskUp},
		{'H', u.moveTaskLeft},
		{'L', u.moveTaskRight},
		{gocui.KeyEnter, u.editTask},
	}
	for _, status := range model.Statuses {
		name := laneView(status)
		for _, binding := range lane {
			if err := gui.SetKeybinding(name, binding.key, gocui.ModNone, binding.handler); err != nil {
				return err
			}
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: name, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onLaneClick(gui, name, opts)
		}}); err != nil {
			return err
		}
	}

	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlJ, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewDue, gocui.KeyEnter, gocui.ModNone, u.submitDueFilter); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewDue, gocui.KeyEsc, gocui.ModNone, u.cancelDueFilter); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := maxY - 2
	if footerY1 < 1 {
		footerY1 = 1
	}
	footerY0 := footerY1 - 2
	if footerY0 < 1 {
		footerY0 = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Title = ""
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	l := computeLayout(maxX, bodyBottom-bodyTop+1)
	lanesY1 := bodyTop + l.laneHeight - 1
	for i, status := range model.Statuses {
		x0 := i * l.laneWidth
		x1 := x0 + l.laneWidth - 1
		if i == len(model.Statuses)-1 {
			x1 = maxX - 1
		}

		view, err := gui.SetView(laneView(status), x0, bodyTop, x1, lanesY1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		hidden := status == model.StatusDone && !u.filter.IncludeDone
		view.Title = laneTitle(status, len(u.lanes[status]), hidden)
		view.TitleColor = laneColor(status)
		applyViewStyle(view, u.focus == status, true)
		u.renderLane(view, status)
	}

	detailView, err := gui.SetView(viewDetail, 0, lanesY1+1, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Details"
	}
	applyViewStyle(detailView, false, false)
	detailView.Wrap = true
	u.renderDetail(detailView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.dueActive {
		if err := u.showDueFilter(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewDue)
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(laneView(u.focus))
	}

	gui.Cursor = u.dueActive || u.form != nil

	return nil
}

type layout struct {
	laneWidth    int
	laneHeight   int
	detailHeight int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width, 30)
	safeHeight := max(height, 8)

	detailHeight := int(float64(safeHeight) * 0.25)
	if detailHeight < 4 {
		detailHeight = 4
	}
	laneHeight := safeHeight - detailHeight
	if laneHeight < 4 {
		laneHeight = 4
	}

	return layout{
		laneWidth:    safeWidth / len(model.Statuses),
		laneHeight:   laneHeight,
		detailHeight: detailHeight,
	}
}

// loadTasks rebuilds the visible lanes from the store through the active
// filter and clamps each lane's selection.
func (u *UI) loadTasks() error {
	visible := store.ApplyFilter(u.store.List(), u.filter)
	u.lanes = groupLanes(visible)

	for _, status := range model.Statuses {
		count := len(u.lanes[status])
		if u.selected[status] >= count {
			u.selected[status] = max(count-1, 0)
		}
	}
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()

	statusLabel := u.filter.Status
	if statusLabel == "" {
		statusLabel = model.FilterAll
	}
	priorityLabel := u.filter.Priority
	if priorityLabel == "" {
		priorityLabel = model.FilterAll
	}
	dueLabel := "any"
	if u.filter.DueBefore != nil {
		dueLabel = "<= " + *u.filter.DueBefore
	}
	doneLabel := "hidden"
	if u.filter.IncludeDone {
		doneLabel = "shown"
	}

	fmt.Fprintf(view, "Status: %s | Priority: %s | Due: %s | Done: %s", statusLabel, priorityLabel, dueLabel, doneLabel)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "a add | e edit | d delete | j/k select | J/K move | H/L move lane | h/l or 1-3 lanes")
	fmt.Fprintln(view, "x done | p priority | s status | b due before | g clear | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderLane(view *gocui.View, status model.Status) {
	view.Clear()
	focused := u.focus == status
	tasks := u.lanes[status]
	for i, task := range tasks {
		prefix := " "
		if i == u.selected[status] {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task))
	}
	if focused {
		view.SetCursor(0, min(u.selected[status], len(tasks)-1))
	}
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	selected := u.selectedTask()
	if selected == nil {
		fmt.Fprint(view, "No task selected")
		return
	}

	lines := []string{
		selected.Title,
		fmt.Sprintf("Lane: %s (#%d)", selected.Status.Label(), selected.Order+1),
		fmt.Sprintf("Priority: %s", selected.Priority),
		fmt.Sprintf("Due: %s", formatDue(*selected)),
		fmt.Sprintf("Updated: %s", selected.UpdatedAt.Local().Format("2006-01-02 15:04")),
	}
	if description := strings.TrimSpace(selected.Description); description != "" {
		lines = append(lines, "", description)
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) onLaneClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := opts.Y - y0 - 1 + oy
	if row < 0 {
		row = 0
	}

	for _, status := range model.Statuses {
		if laneView(status) == viewName {
			u.selected[status] = max(min(row, len(u.lanes[status])-1), 0)
			return u.setFocus(gui, status)
		}
	}
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) selectedTask() *model.Task {
	tasks := u.lanes[u.focus]
	index := u.selected[u.focus]
	if index >= 0 && index < len(tasks) {
		return &tasks[index]
	}
	return nil
}

// selectTask focuses the lane holding id and moves the selection onto it.
func (u *UI) selectTask(gui *gocui.Gui, id string) {
	status, index, ok := u.lanes.Locate(id)
	if !ok {
		return
	}
	u.focus = status
	u.selected[status] = index
	if gui != nil {
		_, _ = gui.SetCurrentView(laneView(status))
	}
}

func (u *UI) focusTodo(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, model.StatusTodo)
}

func (u *UI) focusInProgress(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, model.StatusInProgress)
}

func (u *UI) focusDone(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, model.StatusDone)
}

func (u *UI) focusLeft(gui *gocui.Gui, _ *gocui.View) error {
	rank := u.focus.Rank() - 1
	if rank < 0 {
		rank = len(model.Statuses) - 1
	}
	return u.setFocus(gui, model.Statuses[rank])
}

func (u *UI) focusRight(gui *gocui.Gui, _ *gocui.View) error {
	rank := (u.focus.Rank() + 1) % len(model.Statuses)
	return u.setFocus(gui, model.Statuses[rank])
}

func (u *UI) setFocus(gui *gocui.Gui, status model.Status) error {
	if u.inputActive() {
		return nil
	}
	u.focus = status
	if gui != nil {
		_, _ = gui.SetCurrentView(laneView(status))
	}
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected[u.focus] < len(u.lanes[u.focus])-1 {
		u.selected[u.focus]++
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected[u.focus] > 0 {
		u.selected[u.focus]--
	}
	return nil
}

func (u *UI) moveTaskUp(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveTask(gui, board.Up)
}

func (u *UI) moveTaskDown(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveTask(gui, board.Down)
}

func (u *UI) moveTaskLeft(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveTask(gui, board.Left)
}

func (u *UI) moveTaskRight(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveTask(gui, board.Right)
}

// moveTask drops the selected task on the target picked from the visible
// lanes, then follows it with the selection.
func (u *UI) moveTask(gui *gocui.Gui, pick func(board.Lanes, string) (board.DropTarget, bool)) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	id := selected.ID

	target, ok := pick(u.lanes, id)
	if !ok {
		return nil
	}
	if err := board.Drop(context.Background(), u.store, id, target); err != nil {
		u.log.WithError(err).WithField("task", id).Warn("move task")
		u.status = err.Error()
		return u.loadTasks()
	}

	u.status = ""
	if err := u.loadTasks(); err != nil {
		return err
	}
	u.selectTask(gui, id)
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if err := u.store.Reload(context.Background()); err != nil {
		u.log.WithError(err).Warn("reload tasks")
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.loadTasks()
}

func (u *UI) clearFilters(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter = model.Filter{}
	u.status = ""
	return u.loadTasks()
}

func (u *UI) toggleIncludeDone(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter.IncludeDone = !u.filter.IncludeDone
	return u.loadTasks()
}

func (u *UI) cyclePriorityFilter(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter.Priority = cycleFilter(priorityNames(), u.filter.Priority)
	return u.loadTasks()
}

func (u *UI) cycleStatusFilter(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter.Status = cycleFilter(statusNames(), u.filter.Status)
	return u.loadTasks()
}

// cycleFilter steps through "" (all) followed by every option.
func cycleFilter(options []string, current string) string {
	return cycleValue(append([]string{""}, options...), current, 1)
}

func (u *UI) startDueFilter(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.dueActive = true
	return nil
}

func (u *UI) showDueFilter(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/3)
	height := 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewDue, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Due before (YYYY-MM-DD, empty clears)"
		view.Wrap = true
		view.Clear()
		if u.filter.DueBefore != nil {
			fmt.Fprint(view, *u.filter.DueBefore)
		}
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewDue)
	return nil
}

func (u *UI) submitDueFilter(gui *gocui.Gui, view *gocui.View) error {
	value := ""
	if view != nil {
		value = view.Buffer()
	}
	return u.applyDueFilter(gui, value)
}

func (u *UI) applyDueFilter(gui *gocui.Gui, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		u.filter.DueBefore = nil
	} else {
		if _, err := model.ParseDate(value); err != nil {
			u.status = "invalid due date " + value
			return nil
		}
		u.filter.DueBefore = &value
	}
	u.status = ""
	u.closeDueFilter(gui)
	return u.loadTasks()
}

func (u *UI) cancelDueFilter(gui *gocui.Gui, _ *gocui.View) error {
	u.closeDueFilter(gui)
	return nil
}

func (u *UI) closeDueFilter(gui *gocui.Gui) {
	u.dueActive = false
	if gui != nil {
		_ = gui.DeleteView(viewDue)
		_, _ = gui.SetCurrentView(laneView(u.focus))
	}
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_ = gui.DeleteView(viewHelp)
	_, _ = gui.SetCurrentView(laneView(u.focus))
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 18
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewHelp, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildFormFields(nil, u.focus)}
	return nil
}

func (u *UI) editTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.form = &formState{taskID: selected.ID, fields: buildFormFields(selected, selected.Status)}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(10, max(7, maxY/2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewForm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = "New Task"
	if u.form.taskID != "" {
		view.Title = "Edit Task"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

// submitFormNow saves the form. Store errors stay on the status line and
// leave the form open for correction.
func (u *UI) submitFormNow(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	ctx := context.Background()
	var (
		saved model.Task
		err   error
	)
	if u.form.taskID == "" {
		saved, err = u.store.Create(ctx, formInput(u.form.fields))
	} else {
		saved, err = u.store.Update(ctx, u.form.taskID, formPatch(u.form.fields))
	}
	if err != nil {
		u.log.WithError(err).Debug("save task")
		u.status = err.Error()
		return nil
	}

	u.form = nil
	u.status = ""
	if gui != nil {
		_ = gui.DeleteView(viewForm)
	}
	if err := u.loadTasks(); err != nil {
		return err
	}
	u.selectTask(gui, saved.ID)
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(laneView(u.focus))
	}
	return nil
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if isStatusField(field.Label) || isPriorityField(field.Label) {
		next, prev := nextStatus, prevStatus
		if isPriorityField(field.Label) {
			next, prev = nextPriority, prevPriority
		}
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = next(field.Value)
		case gocui.KeyArrowLeft:
			field.Value = prev(field.Value)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.store.Delete(context.Background(), selected.ID); err != nil {
		u.log.WithError(err).WithField("task", selected.ID).Warn("delete task")
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.loadTasks()
}

func (u *UI) inputActive() bool {
	return u.dueActive || u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  h/l, arrows or tab switch lanes | 1 To do | 2 In progress | 3 Done",
		"  j/k or arrows move selection",
		"  mouse click to focus/select, wheel scrolls",
		"",
		"Actions:",
		"  a add task | e or enter edit task | d delete task",
		"  J/K move task down/up in its lane",
		"  H/L move task to the end of the lane left/right",
		"  enter save (form) | tab next field | esc cancel",
		"  space/left/right cycle status and priority (form)",
		"",
		"Filters:",
		"  x show/hide done | p cycle priority | s cycle status",
		"  b due before | g clear filters",
		"",
		"Other:",
		"  r reload | ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

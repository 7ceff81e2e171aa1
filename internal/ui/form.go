package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/crud/internal/model"
)

// Controller is what the form drives. app.Controller satisfies it.
type Controller interface {
	Items() []model.Item
	Select(it model.Item) bool
	ClearSelection()
	Selection() (model.Item, bool)
	Name() string
	SetName(s string)
	Add(ctx context.Context, name string) error
	Update(ctx context.Context, name string) error
	Delete(ctx context.Context) error
}

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Name }

// itemDelegate renders one line per item and marks the controller's selection.
type itemDelegate struct {
	selection func() (model.Item, bool)
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := Current()

	marker := " "
	if sel, ok := d.selection(); ok && sel.ID == it.ID {
		marker = t.Selected.Render(t.SymSelected)
	}
	id := t.Muted.Render(fmt.Sprintf("%3d.", it.ID))
	line := fmt.Sprintf("%s %s %s", marker, id, truncate(it.Name, 120))

	prefix := "  "
	if index == m.Index() {
		prefix = t.Cursor.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type focus int

const (
	focusList focus = iota
	focusField
)

var (
	selectBind = key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select"))
	fieldBind  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "name field"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	updateBind = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

// Form is the Bubble Tea model: the item list on top, the name field below.
// Every intent goes through the Controller, and the list is rebuilt from
// Controller.Items after each one.
type Form struct {
	ctx   context.Context
	ctl   Controller
	list  list.Model
	field textinput.Model
	focus focus

	status    string
	statusErr bool
	width     int
	height    int
}

// NewForm builds the form over ctl, which must already be initialized.
// A non-nil initErr is the failure from that initialization; it opens the
// form in the status line.
func NewForm(ctx context.Context, ctl Controller, initErr error) Form {
	t := Current()

	l := list.New(nil, itemDelegate{selection: ctl.Selection}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()

	// u and d are taken by the form; keep paging on the arrows.
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h/pgup", "prev page"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l/pgdn", "next page"))

	bindings := func() []key.Binding { return []key.Binding{selectBind, fieldBind, addBind, updateBind, deleteBind} }
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Item name..."
	ti.CharLimit = 0 // no limit; names go to the database as typed
	ti.SetValue(ctl.Name())

	f := Form{ctx: ctx, ctl: ctl, list: l, field: ti, width: 80, height: 24}
	f.refresh()
	f.resize()
	if initErr != nil {
		f.report("load", initErr)
	}
	return f
}

// RunForm runs the form until the user quits.
func RunForm(ctx context.Context, ctl Controller, initErr error) error {
	p := tea.NewProgram(NewForm(ctx, ctl, initErr), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// refresh rebuilds the list from the controller snapshot and syncs the field.
func (f *Form) refresh() tea.Cmd {
	items := f.ctl.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	cmd := f.list.SetItems(li)

	t := Current()
	f.list.Title = fmt.Sprintf("%s   %s %d", t.Title.Render("Items"), t.Accent.Render("Total"), len(items))
	f.field.SetValue(f.ctl.Name())
	f.field.CursorEnd()
	return cmd
}

func (f *Form) resize() {
	// border + padding, field box, status line
	f.list.SetSize(max(f.width-4, 0), max(f.height-8, 1))
	f.field.Width = max(f.width-10, 1)
}

// report shows a controller failure; the list keeps whatever was reloaded.
func (f *Form) report(op string, err error) {
	f.status = op + " failed: " + err.Error()
	f.statusErr = true
}

func (f *Form) hint(msg string) {
	f.status = msg
	f.statusErr = false
}

// selectHighlighted selects the item under the list cursor.
func (f *Form) selectHighlighted() bool {
	it, ok := f.list.SelectedItem().(listItem)
	if !ok || !f.ctl.Select(it.Item) {
		return false
	}
	f.field.SetValue(f.ctl.Name())
	f.field.CursorEnd()
	return true
}

func (f *Form) add() tea.Cmd {
	name := f.ctl.Name()
	if name == "" {
		f.hint("Type a name first (tab)")
		return nil
	}
	if err := f.ctl.Add(f.ctx, name); err != nil {
		f.report("add", err)
	} else {
		f.hint("Added " + name)
	}
	return f.refresh()
}

func (f *Form) update() tea.Cmd {
	sel, ok := f.ctl.Selection()
	if !ok {
		f.hint("Select an item first (enter)")
		return nil
	}
	name := f.ctl.Name()
	if err := f.ctl.Update(f.ctx, name); err != nil {
		f.report("update", err)
	} else {
		f.hint(fmt.Sprintf("Updated #%d", sel.ID))
	}
	return f.refresh()
}

func (f *Form) remove() tea.Cmd {
	sel, ok := f.ctl.Selection()
	if !ok {
		f.hint("Select an item first (enter)")
		return nil
	}
	if err := f.ctl.Delete(f.ctx); err != nil {
		f.report("delete", err)
	} else {
		f.hint(fmt.Sprintf("Deleted #%d", sel.ID))
	}
	return f.refresh()
}

func (f *Form) focusField() tea.Cmd {
	f.focus = focusField
	return f.field.Focus()
}

func (f *Form) focusList() {
	f.focus = focusList
	f.field.Blur()
}

// Init and Update and View implement Bubble Tea's Model on Form
func (f Form) Init() tea.Cmd { return nil }

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		f.width, f.height = ws.Width, ws.Height
		f.resize()
		return f, nil
	}

	// name field
	if f.focus == focusField {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "ctrl+c":
				return f, tea.Quit
			case "enter":
				f.focusList()
				if _, selected := f.ctl.Selection(); selected {
					return f, f.update()
				}
				return f, f.add()
			case "esc", "tab":
				f.focusList()
				return f, nil
			}
		}
		var cmd tea.Cmd
		f.field, cmd = f.field.Update(msg)
		f.ctl.SetName(f.field.Value())
		return f, cmd
	}

	// list; the filter prompt owns the keyboard while it is open
	if k, ok := msg.(tea.KeyMsg); ok && f.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "ctrl+c":
			return f, tea.Quit
		case "esc":
			// esc peels back one layer: filter, then selection, then the form
			if f.list.FilterState() != list.Unfiltered {
				break
			}
			if _, selected := f.ctl.Selection(); selected {
				f.ctl.ClearSelection()
				f.hint("")
				return f, nil
			}
			return f, tea.Quit
		case "enter", " ":
			if f.selectHighlighted() {
				f.hint("")
			}
			return f, nil
		case "tab":
			return f, f.focusField()
		case "a":
			return f, f.add()
		case "u":
			return f, f.update()
		case "d":
			return f, f.remove()
		}
	}

	var cmd tea.Cmd
	f.list, cmd = f.list.Update(msg)
	return f, cmd
}

func (f Form) View() string {
	t := Current()

	label := "Name"
	if sel, ok := f.ctl.Selection(); ok {
		label = fmt.Sprintf("Name (editing #%d)", sel.ID)
	}
	if f.focus == focusField {
		label = t.Accent.Render(label)
	} else {
		label = t.Muted.Render(label)
	}
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(label + "\n" + f.field.View())

	status := t.Muted.Render(f.status)
	if f.statusErr {
		status = t.Error.Render(t.SymFail + " " + f.status)
	}

	content := strings.Join([]string{f.list.View(), box, status}, "\n")
	return panelStyle().Render(content)
}

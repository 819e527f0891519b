package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/duely/internal/model"
	"github.com/idilsaglam/duely/internal/store/jsonstore"
	"github.com/idilsaglam/duely/internal/todo"
	"github.com/idilsaglam/duely/internal/tui"
	"github.com/idilsaglam/duely/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Store *jsonstore.Store
	Group bool // list grouped by pending/done
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 storage
// error, 2 usage/validation/not-found).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "add":
		return doAdd(a, opt)

	case "list", "ls":
		return doList(a, opt)

	case "done":
		ids, code := parseIDs("done", a)
		if code != 0 {
			return code
		}
		return doDone(ids, opt)

	case "undone":
		ids, code := parseIDs("undone", a)
		if code != 0 {
			return code
		}
		if len(ids) != 1 {
			ui.Fail("usage: duely undone <id>")
			return 2
		}
		return doUndone(ids[0], opt)

	case "edit":
		return doEdit(a, opt)

	case "delete", "rm":
		ids, code := parseIDs("delete", a)
		if code != 0 {
			return code
		}
		return doDelete(ids, opt)

	case "clear":
		return doClear(a, opt)

	case "stats":
		return doStats(opt)

	case "ui":
		if err := tui.Run(opt.Store); err != nil {
			ui.Fail("ui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`duely - track tasks from the terminal

Usage:
  duely [--file path] <subcommand> [args]

Subcommands:
  add <title...> [--due YYYY-MM-DD]   Add a new item
  list [--all | --done]               List items (pending by default)
  done <id...>                        Mark item(s) done
  undone <id>                         Mark an item back to pending
  edit <id> [--title t] [--due d] [--clear-due] [--undone]
  delete <id...>                      Delete item(s)
  clear --done | --all                Remove completed items, or everything
  stats                               Show totals and overdue count
  ui                                  Interactive list

Examples:
  duely add "Buy milk" --due 2025-09-01
  duely list --all
  duely done 2 3
  duely edit 5 --title "Buy oat milk" --clear-due
`)
}

// -------------- subcommand impls ----------------

func doAdd(args []string, opt Options) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	due := fs.String("due", "", "due date YYYY-MM-DD")

	// flag.Parse stops at the first positional word, so peel the title
	// off the front before handing the rest to the flag set. Words left
	// over after the flags join the title too, so either order works.
	split := len(args)
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			split = i
			break
		}
	}
	if err := fs.Parse(args[split:]); err != nil {
		ui.Fail("usage: duely add <title...> [--due YYYY-MM-DD]")
		return 2
	}
	title := strings.Join(append(args[:split:split], fs.Args()...), " ")
	if strings.TrimSpace(title) == "" {
		ui.Fail("usage: duely add <title...> [--due YYYY-MM-DD]")
		return 2
	}

	it, err := todo.Add(opt.Store, title, *due)
	if err != nil {
		return failErr("add", err)
	}
	ui.OK(fmt.Sprintf("added #%d: %s", it.ID, it.Title))
	return 0
}

func doList(args []string, opt Options) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	all := fs.Bool("all", false, "show all items")
	done := fs.Bool("done", false, "show completed items")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		ui.Fail("usage: duely list [--all | --done]")
		return 2
	}
	filter := todo.FilterPending
	switch {
	case *all:
		filter = todo.FilterAll
	case *done:
		filter = todo.FilterDone
	}

	// One load: the header tally and the rendered rows must come from
	// the same snapshot of the file.
	loaded, err := todo.List(opt.Store, todo.FilterAll)
	if err != nil {
		return failErr("list", err)
	}
	st := todo.Tally(loaded, model.Today())
	items := filter.Apply(loaded)

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Todos"),
		ui.C(ui.Current().Success, "✔"), st.Done,
		ui.C(ui.Current().Pending, "•"), st.Pending,
		ui.C(ui.Current().Accent, "Total"), st.Total,
	)
	if st.Overdue > 0 {
		header += fmt.Sprintf("  %s %d", ui.C(ui.Current().Overdue, "Overdue"), st.Overdue)
	}

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(st.Done, st.Total, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, tableLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `duely add \"Buy milk\" --due 2025-09-01`"))
	ui.Panel(lines)
	return 0
}

func doDone(ids []int, opt Options) int {
	updated, err := todo.Complete(opt.Store, ids...)
	if err != nil {
		return failErr("done", err)
	}
	refs := make([]string, len(updated))
	for i, it := range updated {
		refs[i] = fmt.Sprintf("#%d", it.ID)
	}
	ui.OK("marked done: " + strings.Join(refs, ", "))
	return 0
}

func doUndone(id int, opt Options) int {
	it, err := todo.Uncomplete(opt.Store, id)
	if err != nil {
		return failErr("undone", err)
	}
	ui.OK(fmt.Sprintf("#%d is pending again", it.ID))
	return 0
}

func doEdit(args []string, opt Options) int {
	if len(args) == 0 {
		ui.Fail("usage: duely edit <id> [--title t] [--due d] [--clear-due] [--undone]")
		return 2
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		ui.Fail("edit: not a number: " + args[0])
		return 2
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "new title")
	due := fs.String("due", "", "new due date YYYY-MM-DD")
	clearDue := fs.Bool("clear-due", false, "remove the due date")
	undone := fs.Bool("undone", false, "mark back to pending")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 {
		ui.Fail("usage: duely edit <id> [--title t] [--due d] [--clear-due] [--undone]")
		return 2
	}
	if *clearDue && *due != "" {
		ui.Fail("edit: --due and --clear-due are mutually exclusive")
		return 2
	}

	opts := todo.EditOpts{ClearDue: *clearDue, Undone: *undone}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			opts.Title = title
		case "due":
			opts.Due = due
		}
	})
	if opts.Title == nil && opts.Due == nil && !opts.ClearDue && !opts.Undone {
		ui.Fail("edit: nothing to change")
		return 2
	}

	it, err := todo.Edit(opt.Store, id, opts)
	if err != nil {
		return failErr("edit", err)
	}
	ui.OK(fmt.Sprintf("updated #%d", it.ID))
	return 0
}

func doDelete(ids []int, opt Options) int {
	n, err := todo.Delete(opt.Store, ids...)
	if err != nil {
		return failErr("delete", err)
	}
	ui.OK(fmt.Sprintf("deleted %d item(s)", n))
	return 0
}

func doClear(args []string, opt Options) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	clearDone := fs.Bool("done", false, "remove completed items")
	clearAll := fs.Bool("all", false, "remove everything")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *clearDone == *clearAll {
		ui.Fail("usage: duely clear --done | --all")
		return 2
	}
	mode := todo.ClearDone
	if *clearAll {
		mode = todo.ClearAll
	}

	n, err := todo.Clear(opt.Store, mode)
	if err != nil {
		return failErr("clear", err)
	}
	ui.OK(fmt.Sprintf("removed %d item(s)", n))
	return 0
}

func doStats(opt Options) int {
	st, err := todo.Summary(opt.Store, model.Today())
	if err != nil {
		return failErr("stats", err)
	}
	fmt.Printf("Total: %d | Pending: %d | Done: %d | Overdue: %d\n",
		st.Total, st.Pending, st.Done, st.Overdue)
	return 0
}

// -------------- rendering helpers --------------

func tableLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	today := model.Today()
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		box := ui.C(ui.Current().Muted, ui.Current().BoxUnchecked)
		title := it.Title
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		if it.Done {
			box = ui.C(ui.Current().Success, ui.Current().BoxChecked)
			title = ui.C(ui.Current().Muted, title)
		}
		due := "-"
		if it.Due != nil {
			due = it.Due.String()
			if it.Overdue(today) {
				due = ui.C(ui.Current().Overdue, due+" !")
			}
		}
		rows = append(rows, []string{strconv.Itoa(it.ID), box, title, due})
	}
	return ui.Table([]string{"ID", "", "Title", "Due"}, rows)
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Done {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, tableLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, tableLines(done)...)
	}
	return lines
}

// failErr prints the error and maps it to an exit code: bad input and
// unknown ids are usage-class (2), everything else is a runtime error.
func failErr(prefix string, err error) int {
	ui.Fail(prefix + ": " + err.Error())
	var ve *todo.ValidationError
	if errors.As(err, &ve) || errors.Is(err, todo.ErrNotFound) {
		return 2
	}
	return 1
}

func parseIDs(cmd string, args []string) ([]int, int) {
	if len(args) == 0 {
		ui.Fail(fmt.Sprintf("usage: duely %s <id...>", cmd))
		return nil, 2
	}
	ids := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			ui.Fail(cmd + ": not a number: " + a)
			return nil, 2
		}
		ids = append(ids, n)
	}
	return ids, 0
}

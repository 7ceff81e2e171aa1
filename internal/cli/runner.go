package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/crud/internal/app"
	"github.com/idilsaglam/crud/internal/config"
	"github.com/idilsaglam/crud/internal/logging"
	"github.com/idilsaglam/crud/internal/store/sqlitestore"
	"github.com/idilsaglam/crud/internal/ui"
)

// Options carry the resolved configuration from the root flags.
type Options struct {
	Config *config.Config
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// With no subcommand it opens the interactive form.
func Run(ctx context.Context, args []string, opt Options) int {
	cfg := opt.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ui.SetTheme(cfg.UI.Theme)

	cmd, a := "form", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "form", "ls", "add", "update", "rm":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Stderr)
		PrintHelp()
		return 2
	}

	log, closeLog, err := openLogger(cfg, cmd == "form")
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctl := app.New(sqlitestore.New(cfg.Database.Path, log), log)
	initErr := ctl.Init(ctx)

	if cmd == "form" {
		// The form opens even on a broken database and shows the failure.
		return doForm(ctx, ctl, initErr)
	}

	if initErr != nil {
		ui.Fail(initErr.Error())
		return 1
	}

	switch cmd {
	case "ls":
		return doList(ctl)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: crud add <name...>")
			return 2
		}
		return doAdd(ctx, ctl, strings.Join(a, " "))

	case "update":
		if len(a) < 2 {
			ui.Fail("usage: crud update <id> <name...>")
			return 2
		}
		id, code := parseID("update", a[0])
		if code != 0 {
			return code
		}
		return doUpdate(ctx, ctl, id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: crud rm <id>")
			return 2
		}
		id, code := parseID("rm", a[0])
		if code != 0 {
			return code
		}
		return doRemove(ctx, ctl, id)
	}
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Stdout, `crud - a single-table item list on SQLite

Usage:
  crud [flags] [subcommand] [args]

Subcommands:
  form                    Interactive form (default)
  ls                      List items
  add <name...>           Add an item (name can be multiple words)
  update <id> <name...>   Rename the item with the given id
  rm <id>                 Delete the item with the given id

Flags:
  -db <path>          database file (default items.db)
  -config <path>      TOML config file
  -theme <name>       classic | neon | mono
  -log-level <level>  debug | info | warn | error
  -log-file <path>    write logs here instead of stderr

Examples:
  crud add "Buy milk"
  crud ls
  crud update 2 "Buy oat milk"
  crud rm 3
`)
}

// openLogger writes to the configured file, or to stderr. While the form
// owns the terminal the default becomes config.FormLogFile.
func openLogger(cfg *config.Config, form bool) (zerolog.Logger, func(), error) {
	path := cfg.Logging.File
	if path == "" && form {
		path = config.FormLogFile
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	log, err := logging.New(w, cfg.Logging.Level)
	if err != nil {
		closeFn()
		return zerolog.Nop(), func() {}, err
	}
	return log, closeFn, nil
}

func parseID(cmd, s string) (int64, int) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		ui.Fail(cmd + ": not a number: " + s)
		return 0, 2
	}
	return id, 0
}

// -------------- subcommand impls ----------------

func doForm(ctx context.Context, ctl *app.Controller, initErr error) int {
	if err := ui.RunForm(ctx, ctl, initErr); err != nil {
		ui.Fail("form: " + err.Error())
		return 1
	}
	return 0
}

func doList(ctl *app.Controller) int {
	lines := ui.ItemLines(ctl.Items())
	lines = append(lines, "")
	lines = append(lines, ui.Current().Muted.Render("Tip: add with `crud add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(ctx context.Context, ctl *app.Controller, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		ui.Fail("add: empty name")
		return 2
	}
	if err := ctl.Add(ctx, name); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK("added")
	return 0
}

// selectID points the controller at id, or explains why it cannot.
func selectID(ctl *app.Controller, id int64) int {
	if ctl.SelectID(id) {
		return 0
	}
	ui.Fail(fmt.Sprintf("no item with id %d", id))
	ui.Hint("Hint: run `crud ls` to see valid ids")
	return 2
}

func doUpdate(ctx context.Context, ctl *app.Controller, id int64, name string) int {
	if code := selectID(ctl, id); code != 0 {
		return code
	}
	if err := ctl.Update(ctx, strings.TrimSpace(name)); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func doRemove(ctx context.Context, ctl *app.Controller, id int64) int {
	if code := selectID(ctl, id); code != 0 {
		return code
	}
	if err := ctl.Delete(ctx); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

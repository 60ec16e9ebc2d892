// Package ui is the full-screen front-end: a title bar, a scrolling output
// pane colored by output style, and a prompt line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ccli/internal/commands"
	"ccli/internal/completion"
	"ccli/internal/config"
	"ccli/internal/ctxlog"
	"ccli/internal/executor"
	"ccli/internal/output"
)

// App owns the terminal while it runs.
type App struct {
	cfg       config.Config
	exec      *executor.Executor
	completer readline.AutoCompleter

	app    *tview.Application
	header *tview.TextView
	out    *tview.TextView
	prompt *tview.TextView
	layout *tview.Flex

	// editor is only touched on the UI goroutine.
	editor lineEditor

	ctx    context.Context
	mu     sync.Mutex
	cancel context.CancelFunc
}

// New builds the application and routes the executor's output into the
// output pane.
func New(cfg config.Config, x *executor.Executor, completer readline.AutoCompleter) *App {
	theme := cfg.Theme
	tview.Styles.PrimitiveBackgroundColor = tcell.GetColor(theme.Background)
	tview.Styles.PrimaryTextColor = tcell.GetColor(theme.Foreground)
	tview.Styles.BorderColor = tcell.GetColor(theme.Prompt)
	tview.Styles.TitleColor = tcell.GetColor(theme.Prompt)

	a := &App{
		cfg:       cfg,
		exec:      x,
		completer: completer,
		app:       tview.NewApplication(),
		header:    tview.NewTextView(),
		out:       tview.NewTextView(),
		prompt:    tview.NewTextView(),
		ctx:       context.Background(),
	}

	a.header.SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	a.out.SetDynamicColors(true).SetScrollable(true).SetWordWrap(true)
	a.out.SetBorder(true).SetTitle(" Output ")
	a.prompt.SetDynamicColors(true)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 2, 0, false).
		AddItem(a.out, 0, 1, false).
		AddItem(a.prompt, 1, 0, true)

	a.app.SetInputCapture(a.handleKey)
	x.Shell().Out = &paneWriter{app: a}
	return a
}

// Run shows the window until exit, Ctrl+C while idle, or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	stop := context.AfterFunc(ctx, a.app.Stop)
	defer stop()

	a.showWelcome()
	a.drawHeader()
	a.drawPrompt()
	ctxlog.Info(ctx, "ui started")
	return a.app.SetRoot(a.layout, true).SetFocus(a.prompt).EnableMouse(true).Run()
}

func (a *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		if !a.interrupt() {
			a.app.Stop()
		}
		return nil
	case tcell.KeyPgUp, tcell.KeyPgDn:
		a.scroll(ev.Key() == tcell.KeyPgUp)
		return nil
	}
	if a.running() {
		return nil
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		a.submit(a.editor.take())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.editor.backspace()
	case tcell.KeyCtrlU:
		a.editor.set("")
	case tcell.KeyRune:
		a.editor.insert(ev.Rune())
	case tcell.KeyUp:
		a.editor.up(a.exec.Shell().Env.History())
	case tcell.KeyDown:
		a.editor.down(a.exec.Shell().Env.History())
	case tcell.KeyTab:
		a.complete()
	default:
		return ev
	}
	a.drawPrompt()
	return nil
}

func (a *App) submit(line string) {
	a.write(output.Prompt, fmt.Sprintf("%s %s\n", a.cfg.Prompt, line))
	if strings.TrimSpace(line) == "" {
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.setCancel(cancel)
	go func() {
		defer cancel()
		err := a.exec.Submit(ctx, line)
		a.app.QueueUpdateDraw(func() { a.finish(err) })
	}()
}

func (a *App) finish(err error) {
	a.setCancel(nil)
	a.editor.rewind(a.exec.Shell().Env.HistoryLen())
	switch {
	case errors.Is(err, commands.ErrExit):
		a.app.Stop()
		return
	case errors.Is(err, commands.ErrClear):
		a.out.Clear()
		a.showWelcome()
	}
	a.drawHeader()
	a.drawPrompt()
}

func (a *App) complete() {
	line, words := completion.Apply(a.completer, a.editor.String())
	a.editor.set(line)
	if len(words) > 0 {
		a.write(output.Info, strings.Join(words, "  ")+"\n")
	}
}

// interrupt cancels the running command and reports whether there was one.
func (a *App) interrupt() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel == nil {
		return false
	}
	a.cancel()
	return true
}

func (a *App) running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

func (a *App) setCancel(cancel context.CancelFunc) {
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	a.drawPrompt()
}

func (a *App) scroll(up bool) {
	row, _ := a.out.GetScrollOffset()
	_, _, _, height := a.out.GetInnerRect()
	if up {
		a.out.ScrollTo(max(row-height, 0), 0)
		return
	}
	a.out.ScrollTo(row+height, 0)
}

func (a *App) showWelcome() {
	a.write(output.Info, commands.Welcome(a.cfg.Title))
}

// write appends to the output pane. UI goroutine only.
func (a *App) write(style output.Style, text string) {
	fmt.Fprint(a.out, styled(a.cfg.Theme, style, text))
	a.out.ScrollToEnd()
}

func (a *App) drawHeader() {
	a.header.SetText(headerText(a.cfg, a.exec.Shell().Env.Dir()))
}

func (a *App) drawPrompt() {
	status := ""
	if a.running() {
		status = "  [::d](running, Ctrl+C to cancel)[::-]"
	}
	a.prompt.SetText(fmt.Sprintf("[%s]%s[-] %s_%s",
		a.cfg.Theme.Prompt, tview.Escape(a.cfg.Prompt), tview.Escape(a.editor.String()), status))
}

// paneWriter hands writes from the command goroutine to the UI goroutine.
type paneWriter struct {
	app *App
}

func (w *paneWriter) Write(style output.Style, text string) {
	w.app.app.QueueUpdateDraw(func() { w.app.write(style, text) })
}

func styled(theme config.Theme, style output.Style, text string) string {
	return fmt.Sprintf("[%s]%s[-]", theme.Color(style), tview.Escape(text))
}

func headerText(cfg config.Config, dir string) string {
	return fmt.Sprintf("[%s::b]%s[-::-]\n[%s]%s[-]",
		cfg.Theme.Prompt, tview.Escape(cfg.Title), cfg.Theme.Directory, tview.Escape(dir))
}

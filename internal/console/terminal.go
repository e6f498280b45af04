package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/udovin/algo/futures"
	"golang.org/x/text/message"

	"github.com/udovin/board/internal/api"
	"github.com/udovin/board/internal/pkg/logs"
)

// Terminal implements console context for text terminal.
type Terminal struct {
	input   *bufio.Scanner
	output  io.Writer
	printer *message.Printer
	// mutex protects fields below and output.
	mutex   sync.Mutex
	title   string
	content string
	items   []Item
	status  string
}

// NewTerminal creates terminal reading commands from input.
func NewTerminal(input io.Reader, output io.Writer, printer *message.Printer) *Terminal {
	return &Terminal{
		input:   bufio.NewScanner(input),
		output:  output,
		printer: printer,
	}
}

// Context returns console context backed by terminal.
func (t *Terminal) Context(logger *logs.Logger) Context {
	return Context{
		Form:      t,
		Container: t,
		Status:    t,
		Dialogs:   t,
		Logger:    logger,
		Printer:   t.printer,
	}
}

// Values returns title and content entered by create command.
func (t *Terminal) Values() (string, string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.title, t.content
}

// Clear clears title and content.
func (t *Terminal) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.title, t.content = "", ""
}

// Replace prints rendered posts and remembers items for commands.
func (t *Terminal) Replace(content string, items []Item) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.items = items
	_, _ = io.WriteString(t.output, content)
}

// Items returns items of last rendered list.
func (t *Terminal) Items() []Item {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.items
}

// SetStatus prints non-empty status.
func (t *Terminal) SetStatus(text string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.status = text
	if text != "" {
		_, _ = fmt.Fprintf(t.output, "* %s\n", text)
	}
}

// CurrentStatus returns last status.
func (t *Terminal) CurrentStatus() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.status
}

// Alert prints message.
func (t *Terminal) Alert(message string) {
	t.println("! " + message)
}

// Confirm asks user to answer yes or no.
func (t *Terminal) Confirm(message string) bool {
	answer, ok := t.prompt(message + " [y/N]")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// EditPost asks for new title and content.
//
// Empty answer leaves field empty, answer "." cancels editing.
func (t *Terminal) EditPost(post api.Post) (api.PostForm, bool) {
	title, ok := t.prompt(fmt.Sprintf(
		"%s [%s]", t.printer.Sprintf("Enter a new title."), post.Title,
	))
	if !ok || title == "." {
		return api.PostForm{}, false
	}
	content, ok := t.prompt(fmt.Sprintf(
		"%s [%s]", t.printer.Sprintf("Enter new content."), post.Content,
	))
	if !ok || content == "." {
		return api.PostForm{}, false
	}
	return api.PostForm{Title: title, Content: content}, true
}

// Run reads and executes commands until input ends or quit command.
//
// Posts are loaded in background while first command is read.
func (t *Terminal) Run(ctx context.Context, c *Console) error {
	loaded := futures.Call(func() (struct{}, error) {
		return struct{}{}, c.Load(ctx)
	})
	defer func() { _, _ = loaded.Get(context.Background()) }()
	t.printHelp()
	for {
		line, ok := t.prompt("")
		if !ok {
			return t.input.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "list", "reload":
			err = c.Load(ctx)
		case "create":
			if !t.fillForm() {
				continue
			}
			err = c.Create(ctx)
		case "edit":
			if item, ok := t.findItem(fields); ok {
				err = item.Edit(ctx)
			}
		case "delete":
			if item, ok := t.findItem(fields); ok {
				err = item.Delete(ctx)
			}
		case "help":
			t.printHelp()
		case "quit", "exit":
			return nil
		default:
			t.println(t.printer.Sprintf("Unknown command."))
		}
		// Failures are already shown by console.
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// fillForm asks for title and content keeping previous values on empty
// answers.
func (t *Terminal) fillForm() bool {
	title, content := t.Values()
	newTitle, ok := t.prompt(fmt.Sprintf("%s [%s]", t.printer.Sprintf("Title"), title))
	if !ok {
		return false
	}
	if newTitle != "" {
		title = newTitle
	}
	newContent, ok := t.prompt(fmt.Sprintf("%s [%s]", t.printer.Sprintf("Content"), content))
	if !ok {
		return false
	}
	if newContent != "" {
		content = newContent
	}
	t.mutex.Lock()
	t.title, t.content = title, content
	t.mutex.Unlock()
	return true
}

func (t *Terminal) findItem(fields []string) (Item, bool) {
	items := t.Items()
	if len(fields) == 2 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 1 && n <= len(items) {
			return items[n-1], true
		}
	}
	t.println(t.printer.Sprintf("Invalid post number."))
	return Item{}, false
}

func (t *Terminal) printHelp() {
	t.println(t.printer.Sprintf("Commands: list, create, edit N, delete N, help, quit."))
}

func (t *Terminal) println(line string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	_, _ = fmt.Fprintln(t.output, line)
}

// prompt prints question and reads single line of answer.
//
// Returns false when input is over.
func (t *Terminal) prompt(question string) (string, bool) {
	t.mutex.Lock()
	if question != "" {
		_, _ = fmt.Fprintf(t.output, "%s: ", question)
	} else {
		_, _ = io.WriteString(t.output, "> ")
	}
	t.mutex.Unlock()
	if !t.input.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.input.Text()), true
}

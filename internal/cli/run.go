package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/BuzzLyutic/tasktrack/internal/model"
	"github.com/BuzzLyutic/tasktrack/internal/repo"
	"github.com/BuzzLyutic/tasktrack/internal/service"
)

const (
	ExitOK    = 0
	ExitError = 1
)

type App struct {
	service *service.TaskService
	stdout  io.Writer
	stderr  io.Writer
}

func NewApp(srv *service.TaskService, stdout, stderr io.Writer) *App {
	return &App{
		service: srv,
		stdout:  stdout,
		stderr:  stderr,
	}
}

const usage = `Usage: tasktrack <command> [flags]

Commands:
  create <title> [-d description]   Create a new task
  list [-status todo|in_progress|done]
                                    List tasks, optionally filtered by status
  status <id> <status>              Change the status of a task
  update <id> [-title t] [-d description]
                                    Update title and/or description
  delete <id>                       Delete a task
  serve                             Run the HTTP API

Environment:
  TASKS_FILE     Path to the JSON storage file (default: data/tasks.json)
  DATABASE_URL   Use PostgreSQL instead of the JSON file
  PORT           HTTP port for serve (default: 8080)
`

// Run выполняет одну команду и возвращает код завершения процесса
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return ExitError
	}

	switch args[0] {
	case "create":
		return a.runCreate(ctx, args[1:])
	case "list":
		return a.runList(ctx, args[1:])
	case "status":
		return a.runStatus(ctx, args[1:])
	case "update":
		return a.runUpdate(ctx, args[1:])
	case "delete":
		return a.runDelete(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return ExitOK
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", args[0])
		fmt.Fprint(a.stderr, usage)
		return ExitError
	}
}

func (a *App) runCreate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	description := fs.String("d", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(a.stderr, "create: missing task title")
		return ExitError
	}

	task, err := a.service.Create(ctx, strings.Join(fs.Args(), " "), *description)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "Created task with id=%d\n", task.ID)
	return ExitOK
}

func (a *App) runList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	rawStatus := fs.String("status", "", "filter by task status")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	var filter model.TaskFilter
	if *rawStatus != "" {
		status, err := model.ParseStatus(*rawStatus)
		if err != nil {
			fmt.Fprintf(a.stderr, "list: %v\n", err)
			return ExitError
		}
		filter.Status = &status
	}

	tasks, err := a.service.List(ctx, filter)
	if err != nil {
		return a.fail(err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No tasks found.")
		return ExitOK
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCREATED\tUPDATED")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status,
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	tw.Flush()
	return ExitOK
}

func (a *App) runStatus(ctx context.Context, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(a.stderr, "status: expected <id> <status>")
		return ExitError
	}

	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "status: %v\n", err)
		return ExitError
	}
	next, err := model.ParseStatus(args[1])
	if err != nil {
		fmt.Fprintf(a.stderr, "status: %v\n", err)
		return ExitError
	}

	task, err := a.service.ChangeStatus(ctx, id, next)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "Updated task id=%d to status %s\n", task.ID, task.Status)
	return ExitOK
}

func (a *App) runUpdate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	title := fs.String("title", "", "new title")
	description := fs.String("d", "", "new description")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "update: expected <id>")
		return ExitError
	}

	id, err := parseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.stderr, "update: %v\n", err)
		return ExitError
	}

	// Меняются только явно переданные поля
	var newTitle, newDescription *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			newTitle = title
		case "d":
			newDescription = description
		}
	})
	if newTitle == nil && newDescription == nil {
		fmt.Fprintln(a.stderr, "update: nothing to update, pass -title and/or -d")
		return ExitError
	}

	task, err := a.service.UpdateDetails(ctx, id, newTitle, newDescription)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "Updated task id=%d\n", task.ID)
	return ExitOK
}

func (a *App) runDelete(ctx context.Context, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "delete: expected <id>")
		return ExitError
	}

	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "delete: %v\n", err)
		return ExitError
	}

	if err := a.service.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "Deleted task with id=%d\n", id)
	return ExitOK
}

// fail печатает ошибку с префиксом ее вида
func (a *App) fail(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repo.ErrorInvalid):
		fmt.Fprintf(a.stderr, "Validation error: %v\n", err)
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	case errors.Is(err, repo.ErrorStorage):
		fmt.Fprintf(a.stderr, "Storage error: %v\n", err)
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return ExitError
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

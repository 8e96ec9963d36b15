package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/clock-tasks/internal/client"
	"github.com/BuzzLyutic/clock-tasks/internal/config"
)

func main() {
	once := flag.Bool("once", false, "print the time and task list, then exit")
	flag.Parse()

	cfg := config.LoadClient()

	// Терминал занят TUI, поэтому логи только в файл
	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	api := client.NewAPI(cfg.APIURL, cfg.FallbackURLs, nil, logger)

	if *once {
		if err := printOnce(ctx, api); err != nil {
			os.Exit(1)
		}
		return
	}

	poller := client.NewPoller(api, cfg.PollInterval, logger)
	if err := client.RunTUI(ctx, api, poller); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func printOnce(ctx context.Context, api *client.API) error {
	state := client.NewState()

	t, err := api.FetchTime(ctx)
	state.ApplyTime(client.TimeResult{Time: t, Err: err})

	tasks, err := api.ListTasks(ctx)
	state.SetTasks(tasks, err)

	fmt.Println(renderOnce(state))
	if state.TimeErr || state.TasksErr != "" {
		return errors.New("service unreachable")
	}
	return nil
}

var (
	boldStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderOnce(s *client.State) string {
	var out string
	if s.TimeErr {
		out += errStyle.Render("Couldn't connect to server") + "\n"
	} else {
		out += boldStyle.Render("Time: ") + s.Time.Local().Format(time.RFC3339) + "\n"
	}

	out += "\n" + boldStyle.Render("Tasks") + "\n"
	switch {
	case s.TasksErr != "":
		out += errStyle.Render("Error: " + s.TasksErr)
	case len(s.Tasks) == 0:
		out += faintStyle.Render("No tasks yet.")
	default:
		for i, t := range s.Tasks {
			mark := "[ ]"
			if t.IsDone {
				mark = "[x]"
			}
			if i > 0 {
				out += "\n"
			}
			out += fmt.Sprintf("%s #%d %s", mark, t.ID, t.Title)
		}
	}
	return boxStyle.Render(out)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"food-lens/api/internal/client"
	"food-lens/api/internal/deck"
	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/util"
)

func newSubmitCommand() *cobra.Command {
	var (
		server  string
		name    string
		desc    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit FILE...",
		Short: "Validate photos against a running server and submit the dish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ws := deck.NewWorkspace(client.New(server))
			return runSubmit(ctx, cmd.OutOrStdout(), ws, name, desc, images)
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:3000", "food-lens server base URL")
	cmd.Flags().StringVar(&name, "name", "", "Dish name")
	cmd.Flags().StringVar(&desc, "desc", "", "Dish description")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall deadline")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runSubmit(ctx context.Context, out io.Writer, ws *deck.Workspace, name, desc string, images []foodcheck.Image) error {
	ws.SetName(name)
	ws.SetDescription(desc)

	notices, err := ws.Upload(ctx, images)
	printNotices(out, notices)
	if err != nil {
		return err
	}

	draft := ws.Session.State().Draft
	if !draft.CanSubmit() {
		return fmt.Errorf("%w: %s", deck.ErrNotReady, draft.Status())
	}

	_, notices, err = ws.Submit(ctx)
	printNotices(out, notices)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderFeed(ws.Session.State().Feed))
	return nil
}

func readImages(paths []string) ([]foodcheck.Image, error) {
	out := make([]foodcheck.Image, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, foodcheck.Image{Name: filepath.Base(p), MIME: util.SniffMimeHTTP(data), Data: data})
	}
	return out, nil
}

func printNotices(out io.Writer, ns []deck.Notice) {
	for _, n := range ns {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(n.Level)), n.Text)
	}
}

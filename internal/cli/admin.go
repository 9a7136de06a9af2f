package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Creator console operations",
		Long:  "Aggregate statistics, the user directory and the official share URL. Requires the creator session.",
	}

	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminURLCmd())
	cmd.AddCommand(newAdminWatchCmd())

	return cmd
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats
			if err := client.Get(cmd.Context(), "/api/v1/admin/stats", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newAdminUsersCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the user directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/admin/users"
			if query != "" {
				path += "?q=" + url.QueryEscape(query)
			}
			var result UsersResult
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by username or email")

	return cmd
}

func newAdminURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Get or set the official share URL",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the official share URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OfficialURLResult
			if err := client.Get(cmd.Context(), "/api/v1/admin/config/official-url", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [url]",
		Short: "Set the official share URL; no argument restores the default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"url": ""}
			if len(args) == 1 {
				body["url"] = args[0]
			}
			var result OfficialURLResult
			if err := client.Put(cmd.Context(), "/api/v1/admin/config/official-url", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func newAdminWatchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live statistics",
		Long: `Connect to the stats stream and print each refresh as it arrives.

Events include:
  - connected: Stream opened
  - stats: Aggregate statistics snapshot
  - error: Creator access was lost; the stream ends

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchStats(ctx, output(cmd), count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many stats events (0 streams until interrupted)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func watchStats(ctx context.Context, out *Output, count int) error {
	streamURL := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/admin/stats/stream"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return &errResp.Error
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	seen := 0
	err = readEvents(resp.Body, func(event, data string) (bool, error) {
		switch event {
		case "error":
			var errResp ErrorResponse
			if err := json.Unmarshal([]byte(data), &errResp); err != nil {
				return false, fmt.Errorf("stream error: %s", data)
			}
			return false, &errResp.Error
		case "stats":
			seen++
			if out.format == "json" {
				out.printJSON(SSEEvent{Time: time.Now(), Event: event, Data: data})
			} else {
				var stats Stats
				if err := json.Unmarshal([]byte(data), &stats); err != nil {
					return false, fmt.Errorf("failed to parse stats: %w", err)
				}
				out.printf("[%s] visits=%d users=%d online=%d offline=%d elite=%d\n",
					time.Now().Format(time.DateTime), stats.TotalVisits, stats.TotalUsers,
					stats.OnlineUsers, stats.OfflineUsers, stats.EliteUsers)
			}
			return count == 0 || seen < count, nil
		default:
			if cfg.Verbose {
				out.printf("[%s] %s: %s\n", time.Now().Format(time.DateTime), event, data)
			}
			return true, nil
		}
	})
	if err != nil && ctx.Err() != nil {
		// Context cancellation is expected
		return nil
	}
	return err
}

// readEvents parses an SSE stream, calling fn per event until it returns false
func readEvents(r io.Reader, fn func(event, data string) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				more, err := fn(currentEvent, strings.Join(dataLines, "\n"))
				if err != nil || !more {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream error: %w", err)
	}
	return nil
}

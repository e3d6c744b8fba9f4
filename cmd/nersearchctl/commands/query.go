package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const queryTimeout = 30 * time.Second

type queryOptions struct {
	server  string
	apiKey  string
	size    int
	predict bool
}

func newQueryCommand() *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Send a free-text query to a running nersearch server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			body, err := opts.run(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "nersearch base URL")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", os.Getenv("NERSEARCH_API_KEY"), "Bearer token for the API")
	cmd.Flags().IntVar(&opts.size, "size", 0, "Number of results (default: server top_k)")
	cmd.Flags().BoolVar(&opts.predict, "predict", false, "Only show the extracted prediction")
	return cmd
}

// run calls /search or /predict and returns the indented response body.
func (o *queryOptions) run(ctx context.Context, text string) ([]byte, error) {
	path := "/search"
	if o.predict {
		path = "/predict"
	}

	params := url.Values{"query": {text}}
	if o.size > 0 && !o.predict {
		params.Set("size", strconv.Itoa(o.size))
	}
	target := strings.TrimRight(o.server, "/") + path + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/splitledger/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the splitledger HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) do(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

func apiError(status int, body []byte) error {
	var e struct {
		Error   string `json:"error"`
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Errorf("request failed (status %d): %s", status, strings.TrimSpace(string(body)))
	}
	if e.Field != "" {
		return fmt.Errorf("%s: %s: %s", e.Error, e.Field, e.Message)
	}
	return fmt.Errorf("%s (status %d): %s", e.Error, status, e.Message)
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "splitledger-cli",
		Short:         "Splitledger CLI tool",
		Long:          `A command line interface for splitting shared expenses, online through the splitledger API or offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the splitledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	client := func() *apiClient {
		return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
	}

	rootCmd.AddCommand(
		newSessionCmd(client),
		newEntryCmd(client),
		newResetCmd(client),
		newSplitCmd(client),
		newCalcCmd(),
	)

	return rootCmd
}

func newSessionCmd(client func() *apiClient) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Session operations",
	}

	var seed bool
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodPost, "/api/v1/sessions/", map[string]bool{"seed": seed})
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}
	createCmd.Flags().BoolVar(&seed, "seed", false, "Start with the default entries")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodGet, "/api/v1/sessions/"+args[0], nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client().do(http.MethodDelete, "/api/v1/sessions/"+args[0], nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", args[0])
			return nil
		},
	}

	sessionCmd.AddCommand(createCmd, showCmd, deleteCmd)
	return sessionCmd
}

func newEntryCmd(client func() *apiClient) *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Entry operations",
	}

	var name, cost string
	addCmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add an entry to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"name": name, "cost": cost}
			data, err := client().do(http.MethodPost, "/api/v1/sessions/"+args[0]+"/entries", body)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Entry name")
	addCmd.Flags().StringVar(&cost, "cost", "", "Entry cost")

	entryCmd.AddCommand(addCmd)
	return entryCmd
}

func newResetCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "reset ID",
		Short: "Remove all entries from a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodPost, "/api/v1/sessions/"+args[0]+"/reset", nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}
}

func newSplitCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "split ID COUNT",
		Short: "Store the headcount and show the per-person amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client()
			path := "/api/v1/sessions/" + args[0] + "/split"
			if _, err := api.do(http.MethodPut, path, map[string]string{"count": args[1]}); err != nil {
				return err
			}
			data, err := api.do(http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}
}

func newCalcCmd() *cobra.Command {
	var (
		items  []string
		people string
	)

	calcCmd := &cobra.Command{
		Use:     "calc",
		Short:   "Split expenses locally without a server",
		Example: `  splitledger-cli calc --item "Room rent=12000" --item "Maintenance=1200" --people 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := buildLedger(items)
			if err != nil {
				return err
			}
			printLedger(cmd.OutOrStdout(), ledger, domain.ParseSplitCount(people))
			return nil
		},
	}
	calcCmd.Flags().StringArrayVar(&items, "item", nil, `Entry as "Name=Cost" (repeatable)`)
	calcCmd.Flags().StringVar(&people, "people", "1", "Number of people to split across")

	return calcCmd
}

// parseItem splits "Name=Cost" at the last '=' so names may contain '='.
func parseItem(raw string) (domain.EntryCandidate, error) {
	i := strings.LastIndex(raw, "=")
	if i < 0 {
		return domain.EntryCandidate{}, fmt.Errorf("invalid item %q: want Name=Cost", raw)
	}
	return domain.NewEntryCandidate(raw[:i], raw[i+1:]), nil
}

func buildLedger(items []string) (domain.Ledger, error) {
	ledger := domain.NewLedger()
	for _, raw := range items {
		candidate, err := parseItem(raw)
		if err != nil {
			return ledger, err
		}
		ledger, err = ledger.AddEntry(candidate)
		if err != nil {
			return ledger, fmt.Errorf("item %q: %w", raw, err)
		}
	}
	return ledger, nil
}

func printLedger(out io.Writer, ledger domain.Ledger, splitCount int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, e := range ledger.Entries() {
		fmt.Fprintf(w, "%s\t%s\t\n", truncate(e.Name, 32), domain.FormatAmount(e.Cost))
	}
	fmt.Fprintf(w, "Total\t%s\t\n", domain.FormatAmount(ledger.TotalCost()))
	fmt.Fprintf(w, "Per person (%d)\t%s\t\n", splitCount, domain.FormatAmount(ledger.ComputeSplit(splitCount)))
	w.Flush()
}

func printRaw(out io.Writer, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	printJSON(out, v)
	return nil
}

func printJSON(out io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(out, string(data))
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

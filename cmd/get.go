package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/fetchr/requests"
)

var (
	getParams []string
	getMethod string
	getData   string
	getForm   bool
	getAuth   bool
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Send a request to a path of the service",
	Long: `Send a request to a path relative to api.base_url (or to an absolute URL)
and print the result. JSON responses are pretty printed, text responses are
printed as is, and attachments are saved to the download directory.`,
	Example: `  fetchr get people/1
  fetchr get people --param page=0 --param size=10 --auth
  fetchr get people --method POST --data '{"name":"Luke"}' --auth`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringArrayVarP(&getParams, "param", "p", nil, "query parameter as key=value (repeatable)")
	getCmd.Flags().StringVarP(&getMethod, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	getCmd.Flags().StringVarP(&getData, "data", "d", "", "request body as a JSON object")
	getCmd.Flags().BoolVar(&getForm, "form", false, "send the body form-urlencoded")
	getCmd.Flags().BoolVar(&getAuth, "auth", false, "attach the access token")
}

func runGet(cmd *cobra.Command, args []string) error {
	query, err := parseParams(getParams)
	if err != nil {
		return err
	}

	method, err := parseMethod(getMethod)
	if err != nil {
		return err
	}

	req := requests.Request{
		Method: method,
		Path:   args[0],
		Query:  query,
		AsForm: getForm,
	}

	if getData != "" {
		var body map[string]any
		if err := json.Unmarshal([]byte(getData), &body); err != nil {
			return fmt.Errorf("invalid --data, expected a JSON object: %w", err)
		}
		req.Body = body
	}

	ctx := context.Background()

	var result any
	if getAuth {
		result, err = requests.DoAuthenticated[any](ctx, requestClient, req)
	} else {
		result, err = requests.Do[any](ctx, requestClient, req)
	}
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result)
}

// parseParams turns key=value pairs into query parameters, keeping their order
func parseParams(pairs []string) (requests.QueryParams, error) {
	params := make(requests.QueryParams, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params = append(params, requests.Param(name, value))
	}
	return params, nil
}

func parseMethod(s string) (requests.Method, error) {
	m := requests.Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case requests.MethodGet, requests.MethodPost, requests.MethodPut, requests.MethodPatch, requests.MethodDelete:
		return m, nil
	}
	return "", fmt.Errorf("unsupported method: %s", s)
}

// printResult prints JSON values indented and text as is. A nil result
// means the body was an attachment handed to the sink.
func printResult(w io.Writer, result any) error {
	switch v := result.(type) {
	case nil:
		fmt.Fprintf(w, "Response saved to %s\n", sink.Dir())
		return nil
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		return printJSON(w, v)
	}
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

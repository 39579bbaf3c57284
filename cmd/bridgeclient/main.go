// bridgeclient is a CLI tool for poking a running shop agent bridge.
// Each command performs a single request, making it composable for scripts.
//
// Commands:
//
//	bridgeclient products -bridge URL [-search TEXT] [-category ID] [-query RAW]
//	bridgeclient categories -bridge URL
//	bridgeclient order -bridge URL -id <order-id>
//	bridgeclient say -bridge URL -intent NAME [-param key=value ...]
//
// Examples:
//
//	bridgeclient products -bridge http://localhost:4000 -search hoodie
//	bridgeclient order -bridge http://localhost:4000 -id 1042 -q
//	bridgeclient say -bridge http://localhost:4000 -intent FetchOrderStatus -param orderId=1042
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dunglas/httpsfv"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	bridgeURL string
	quiet     bool
	noColor   bool
	verbose   bool
	session   string // Agent-Session session id (empty = header not sent)
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorCyan, colorGray, colorBold = "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "products":
		runProducts(args)
	case "categories":
		runCategories(args)
	case "order":
		runOrder(args)
	case "say":
		runSay(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `bridgeclient - shop agent bridge test tool

Usage:
  bridgeclient <command> [options]

Commands:
  products    Search products (GET /products)
  categories  List product categories (GET /products/categories)
  order       Look up one order (GET /orders/{id})
  say         Send an agent webhook for an intent (POST /webhook)

Examples:
  # Newest products matching a search
  bridgeclient products -bridge http://localhost:4000 -search hoodie

  # Raw WooCommerce query passthrough
  bridgeclient products -bridge http://localhost:4000 -query 'per_page=5&orderby=price&order=asc'

  # Print only an order's status
  bridgeclient order -bridge http://localhost:4000 -id 1042 -q

  # Ask the bridge what the agent would answer
  bridgeclient say -bridge http://localhost:4000 -intent FetchProducts -param search=hoodie

Run 'bridgeclient <command> -h' for command-specific options.
`)
}

// commonFlags registers the flags every command accepts.
func commonFlags(fs *flag.FlagSet) {
	fs.StringVar(&bridgeURL, "bridge", "http://localhost:4000", "Bridge base URL")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output the result")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - show full request/response")
	fs.StringVar(&session, "session", "", "Send Agent-Session header with this session id")
}

func parseFlags(fs *flag.FlagSet, args []string) {
	fs.Parse(args)
	if noColor {
		disableColors()
	}
}

// =============================================================================
// PRODUCTS COMMAND
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	commonFlags(fs)
	var search, category, rawQuery string
	fs.StringVar(&search, "search", "", "Search text")
	fs.StringVar(&category, "category", "", "Category ID")
	fs.StringVar(&rawQuery, "query", "", "Raw query string, forwarded as-is (overrides -search/-category)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bridgeclient products [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	query := rawQuery
	if query == "" {
		q := url.Values{}
		if search != "" {
			q.Set("search", search)
		}
		if category != "" {
			q.Set("category", category)
		}
		query = q.Encode()
	}

	path := "/products"
	if query != "" {
		path += "?" + query
	}

	body, err := doRequest("GET", path, nil)
	if err != nil {
		fatal("Failed to fetch products: %v", err)
	}

	var products []map[string]interface{}
	if err := json.Unmarshal(body, &products); err != nil {
		fatal("Unexpected products response: %v", err)
	}

	if quiet {
		for _, p := range products {
			fmt.Printf("%v\t%v\n", formatID(p["id"]), p["name"])
		}
		return
	}

	printSuccess("%d products", len(products))
	for _, p := range products {
		fmt.Printf("  %s%s%s  %v %s%v%s\n",
			colorCyan, formatID(p["id"]), colorReset, p["name"], colorGray, p["price"], colorReset)
	}
}

// =============================================================================
// CATEGORIES COMMAND
// =============================================================================

func runCategories(args []string) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	commonFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bridgeclient categories [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	body, err := doRequest("GET", "/products/categories", nil)
	if err != nil {
		fatal("Failed to fetch categories: %v", err)
	}

	var categories []map[string]interface{}
	if err := json.Unmarshal(body, &categories); err != nil {
		fatal("Unexpected categories response: %v", err)
	}

	if quiet {
		for _, c := range categories {
			fmt.Printf("%v\t%v\n", formatID(c["id"]), c["slug"])
		}
		return
	}

	printSuccess("%d categories", len(categories))
	for _, c := range categories {
		fmt.Printf("  %s%s%s  %v %s(%v products)%s\n",
			colorCyan, formatID(c["id"]), colorReset, c["name"], colorGray, formatID(c["count"]), colorReset)
	}
}

// =============================================================================
// ORDER COMMAND
// =============================================================================

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	commonFlags(fs)
	var orderID string
	fs.StringVar(&orderID, "id", "", "Order ID (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bridgeclient order -id <order-id> [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	if orderID == "" {
		fs.Usage()
		os.Exit(1)
	}

	body, err := doRequest("GET", "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		fatal("Failed to fetch order: %v", err)
	}

	var order map[string]interface{}
	if err := json.Unmarshal(body, &order); err != nil {
		fatal("Unexpected order response: %v", err)
	}

	status, _ := order["status"].(string)
	if quiet {
		fmt.Println(status)
		return
	}

	printSuccess("Order retrieved")
	fmt.Printf("  Status: %s%s%s\n", colorCyan, status, colorReset)
	if total, ok := order["total"].(string); ok {
		currency, _ := order["currency"].(string)
		fmt.Printf("  Total: %s%s %s%s\n", colorGreen, total, currency, colorReset)
	}
}

// =============================================================================
// SAY COMMAND
// =============================================================================

// paramFlags collects repeated -param key=value flags.
type paramFlags map[string]interface{}

func (p paramFlags) String() string { return fmt.Sprint(map[string]interface{}(p)) }

// Set parses key=value. Numeric values are sent as JSON numbers, the way
// agent platforms send @sys.number parameters.
func (p paramFlags) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		p[key] = n
	} else {
		p[key] = value
	}
	return nil
}

func runSay(args []string) {
	fs := flag.NewFlagSet("say", flag.ExitOnError)
	commonFlags(fs)
	var intentName, text string
	params := paramFlags{}
	fs.StringVar(&intentName, "intent", "", "Intent display name, e.g. FetchProducts (required)")
	fs.StringVar(&text, "text", "", "User utterance to include as queryText")
	fs.Var(params, "param", "Intent parameter key=value (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bridgeclient say -intent NAME [-param key=value ...] [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	parseFlags(fs, args)

	if intentName == "" {
		fs.Usage()
		os.Exit(1)
	}

	reqBody := map[string]interface{}{
		"responseId": fmt.Sprintf("bridgeclient-%d", time.Now().UnixNano()),
		"session":    session,
		"queryResult": map[string]interface{}{
			"queryText":  text,
			"parameters": map[string]interface{}(params),
			"intent": map[string]interface{}{
				"displayName": intentName,
			},
			"languageCode": "en",
		},
	}

	body, err := doRequest("POST", "/webhook", reqBody)
	if err != nil {
		fatal("Webhook failed: %v", err)
	}

	var resp struct {
		FulfillmentText string `json:"fulfillmentText"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatal("Unexpected webhook response: %v", err)
	}

	if quiet {
		fmt.Println(resp.FulfillmentText)
		return
	}
	fmt.Printf("  %s%s%s\n", colorBold, resp.FulfillmentText, colorReset)
}

// =============================================================================
// HTTP HELPERS
// =============================================================================

// agentSessionHeader serializes the Agent-Session dictionary for session.
func agentSessionHeader(session string) (string, error) {
	dict := httpsfv.NewDictionary()
	dict.Add("platform", httpsfv.NewItem(httpsfv.Token("bridgeclient")))
	dict.Add("session", httpsfv.NewItem(session))
	return httpsfv.Marshal(dict)
}

func doRequest(method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		var err error
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	reqURL := strings.TrimRight(bridgeURL, "/") + path
	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if session != "" {
		h, err := agentSessionHeader(session)
		if err != nil {
			return nil, fmt.Errorf("encoding Agent-Session: %w", err)
		}
		req.Header.Set("Agent-Session", h)
	}

	if !quiet {
		printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if !quiet {
		printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printRequest(method, path string, body []byte) {
	fmt.Printf("\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		printJSON(body, "  ")
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Printf("\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	printJSON(body, "  ")
}

func printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Printf("%s%s\n", prefix, string(data))
		return
	}

	output := pretty.String()
	if !verbose {
		lines := strings.Split(output, "\n")
		if len(lines) > 30 {
			lines = append(lines[:25], fmt.Sprintf("%s  %s(%d more lines, use -v for full output)%s", prefix, colorGray, len(lines)-25, colorReset))
			output = strings.Join(lines, "\n")
		}
	}
	fmt.Println(output)
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

// formatID renders JSON numbers without a trailing ".0".
func formatID(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}

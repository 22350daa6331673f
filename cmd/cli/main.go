package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sarrafbook-cli",
		Short: "Sarrafbook CLI tool",
		Long:  `A command line interface for interacting with the Sarrafbook ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Sarrafbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(entityCmd(), transferCmd(), transactionCmd(), currencyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func entityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Party operations",
	}

	var name, category, phone, address string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new party",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/entities", map[string]any{
				"name":     name,
				"category": category,
				"phone":    phone,
				"address":  address,
			})
		},
	}
	registerCmd.Flags().StringVar(&name, "name", "", "Party name")
	registerCmd.Flags().StringVar(&category, "category", "customer", "Party category (customer, middleman, supplier)")
	registerCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	registerCmd.Flags().StringVar(&address, "address", "", "Address")
	registerCmd.MarkFlagRequired("name")

	balancesCmd := &cobra.Command{
		Use:   "balances [id]",
		Short: "Show a party's per-currency balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/entities/" + args[0] + "/balances")
		},
	}

	cmd.AddCommand(registerCmd, balancesCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var giver, taker, amount, currency, note string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a simple transfer",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/transfers", map[string]any{
				"giver_id": giver,
				"taker_id": taker,
				"amount":   amount,
				"currency": currency,
				"note":     note,
			})
		},
	}
	createCmd.Flags().StringVar(&giver, "giver", "", "Giver ID (or 'myself')")
	createCmd.Flags().StringVar(&taker, "taker", "", "Taker ID (or 'myself')")
	createCmd.Flags().StringVar(&amount, "amount", "", "Amount")
	createCmd.Flags().StringVar(&currency, "currency", "", "Currency code")
	createCmd.Flags().StringVar(&note, "note", "", "Note")
	createCmd.MarkFlagRequired("giver")
	createCmd.MarkFlagRequired("taker")
	createCmd.MarkFlagRequired("amount")
	createCmd.MarkFlagRequired("currency")

	var giving, receiving, rate string
	exchangeCmd := &cobra.Command{
		Use:   "exchange",
		Short: "Create a currency-exchange transfer",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/transfers/exchange", map[string]any{
				"giver_id":           giver,
				"taker_id":           taker,
				"amount":             amount,
				"giving_currency":    giving,
				"receiving_currency": receiving,
				"custom_rate":        rate,
				"note":               note,
			})
		},
	}
	exchangeCmd.Flags().StringVar(&giver, "giver", "", "Giver ID (or 'myself')")
	exchangeCmd.Flags().StringVar(&taker, "taker", "", "Taker ID (or 'myself')")
	exchangeCmd.Flags().StringVar(&amount, "amount", "", "Amount in the giving currency")
	exchangeCmd.Flags().StringVar(&giving, "giving", "", "Giving currency code")
	exchangeCmd.Flags().StringVar(&receiving, "receiving", "", "Receiving currency code")
	exchangeCmd.Flags().StringVar(&rate, "rate", "", "Custom agreed rate")
	exchangeCmd.Flags().StringVar(&note, "note", "", "Note")
	exchangeCmd.MarkFlagRequired("giver")
	exchangeCmd.MarkFlagRequired("taker")
	exchangeCmd.MarkFlagRequired("amount")
	exchangeCmd.MarkFlagRequired("giving")
	exchangeCmd.MarkFlagRequired("receiving")
	exchangeCmd.MarkFlagRequired("rate")

	cmd.AddCommand(createCmd, exchangeCmd)
	return cmd
}

func transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	var entity string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/transactions"
			if entity != "" {
				path += "?entity=" + entity
			}
			getJSON(path)
		},
	}
	listCmd.Flags().StringVar(&entity, "entity", "", "Scope to one party")

	reverseCmd := &cobra.Command{
		Use:   "reverse [id]",
		Short: "Reverse a transaction and delete its record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteRequest("/api/v1/transactions/" + args[0])
		},
	}

	cmd.AddCommand(listCmd, reverseCmd)
	return cmd
}

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Currency and rate operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered currencies",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/currencies")
		},
	}

	var from, to, rate string
	directRateCmd := &cobra.Command{
		Use:   "set-direct-rate",
		Short: "Store a direct market rate for a currency pair",
		Run: func(cmd *cobra.Command, args []string) {
			putJSON("/api/v1/rates/direct", map[string]any{
				"from_currency": from,
				"to_currency":   to,
				"rate":          rate,
			})
		},
	}
	directRateCmd.Flags().StringVar(&from, "from", "", "From currency code")
	directRateCmd.Flags().StringVar(&to, "to", "", "To currency code")
	directRateCmd.Flags().StringVar(&rate, "rate", "", "Market rate")
	directRateCmd.MarkFlagRequired("from")
	directRateCmd.MarkFlagRequired("to")
	directRateCmd.MarkFlagRequired("rate")

	cmd.AddCommand(listCmd, directRateCmd)
	return cmd
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func postJSON(path string, payload map[string]any) {
	doWithBody(http.MethodPost, path, payload)
}

func putJSON(path string, payload map[string]any) {
	doWithBody(http.MethodPut, path, payload)
}

func doWithBody(method, path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding payload: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func deleteRequest(path string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\n%s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if len(body) == 0 {
		fmt.Printf("OK (Status: %d)\n", resp.StatusCode)
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

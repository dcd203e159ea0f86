// Package main provides a CLI tool for minting timed tokens for manual calls
// against the content API. Tokens use the dev secret unless one is given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"paraiso/internal/token"
)

const (
	// Dev secret - matches config.go when TOKEN_SECRET is not set
	devTokenSecret = "dev-token-secret-change-in-production"

	defaultInterval = 5 * time.Minute
	defaultAPIURL   = "http://localhost:8000/api"
)

type tokenOutput struct {
	Token      string            `json:"token"`
	Header     string            `json:"header"`
	ValidUntil string            `json:"valid_until"`
	Usage      map[string]string `json:"usage"`
}

func main() {
	issueCmd := flag.NewFlagSet("issue", flag.ExitOnError)
	issueSecret := issueCmd.String("secret", "", "Signing secret. Defaults to $TOKEN_SECRET, then the dev secret.")
	issueInterval := issueCmd.Duration("interval", defaultInterval, "Token interval (must match the API's TOKEN_INTERVAL)")
	issueAPI := issueCmd.String("api", defaultAPIURL, "API base URL used in the usage example")
	issueJSON := issueCmd.Bool("json", false, "Output as JSON")

	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	verifySecret := verifyCmd.String("secret", "", "Signing secret. Defaults to $TOKEN_SECRET, then the dev secret.")
	verifyInterval := verifyCmd.Duration("interval", defaultInterval, "Token interval (must match the API's TOKEN_INTERVAL)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "issue":
		if err := issueCmd.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}
		issue(resolveSecret(*issueSecret), *issueInterval, *issueAPI, *issueJSON)
	case "verify":
		if err := verifyCmd.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}
		if verifyCmd.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Error: verify takes exactly one token argument")
			os.Exit(1)
		}
		verify(resolveSecret(*verifySecret), *verifyInterval, verifyCmd.Arg(0))
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - mint timed tokens for the Paraíso content API

Usage:
  tokengen <command> [flags]

Commands:
  issue     Print a token valid for the current interval
  verify    Check whether a token is accepted right now

Examples:
  # Token signed with the dev secret
  tokengen issue

  # Token for an API running with a custom interval
  tokengen issue -interval 1m

  # Output as JSON
  tokengen issue -json

  # Check a token
  tokengen verify eyJhbGciOi...

Use "tokengen <command> -h" for more information about a command.`)
}

func resolveSecret(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("TOKEN_SECRET"); env != "" {
		return env
	}
	return devTokenSecret
}

func issue(secret string, interval time.Duration, apiURL string, jsonOutput bool) {
	svc, err := token.NewService(secret, interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tok, err := svc.Issue(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	// Accepted through the end of the interval after the current one.
	step := int64(interval / time.Second)
	validUntil := time.Unix((time.Now().Unix()/step+2)*step, 0)
	curl := fmt.Sprintf("curl -H \"%s: <token>\" %s/blog", token.Header, apiURL)

	if jsonOutput {
		printJSON(tokenOutput{
			Token:      tok,
			Header:     token.Header,
			ValidUntil: validUntil.Format(time.RFC3339),
			Usage:      map[string]string{"curl": curl},
		})
		return
	}

	fmt.Println("Timed Token")
	fmt.Println("===========")
	fmt.Printf("Interval:    %s\n", interval)
	fmt.Printf("Valid Until: %s\n", validUntil.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(tok)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  " + curl)
}

func verify(secret string, interval time.Duration, tok string) {
	svc, err := token.NewService(secret, interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Verify(tok); err != nil {
		fmt.Println("invalid:", err)
		os.Exit(2)
	}
	fmt.Println("valid")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

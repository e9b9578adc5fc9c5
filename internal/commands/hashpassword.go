// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package commands

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/milantonight/StaseraMilano/internal/auth"
)

// HashPassword creates the admin auth file from an interactive prompt.
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hashpassword", flag.ExitOnError)
	authFile := fs.String("auth-file", "auth.secret", "path to the auth file to create")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing auth file without asking")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hashpassword [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates the admin auth file (argon2id hashed password).\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if _, err := os.Stat(*authFile); err == nil {
		if !*overwrite && !confirmOverwrite(*authFile) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
		// 0400 files must be removed before rewriting
		if err := os.Remove(*authFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Print("Enter username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil || username == "" {
		fmt.Fprintln(os.Stderr, "username cannot be empty")
		os.Exit(1)
	}

	password := readPassword("Enter password:   ")
	passwordConfirm := readPassword("Confirm password: ")

	if password == "" {
		fmt.Fprintln(os.Stderr, "password cannot be empty")
		os.Exit(1)
	}
	if password != passwordConfirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	if err := auth.CreateAuthFile(*authFile, username, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("auth file created: %s (user: %s)\n", *authFile, username)
}

func confirmOverwrite(filename string) bool {
	fmt.Printf("Auth file already exists: %s\n", filename)
	fmt.Print("Overwrite? (y/N): ")
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// readPassword reads a line without echoing it to the terminal.
func readPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}

// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/config"
	"github.com/observatoire/plaintes/internal/redact"
)

var loginNoVerify bool

// loginCmd stores the backend API token.
var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store the backend API token",
	Long: `Store the backend API token in the credentials file
(~/.config/plaintes/credentials.yaml, mode 0600). Without an argument the
token is read from stdin. The token is checked against the backend first
unless --no-verify is set.

PLAINTES_TOKEN, when set, takes precedence over the stored token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd removes the stored token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.ClearToken(); err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginNoVerify, "no-verify", false, "store the token without checking it")
}

func runLogin(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return exitError(ExitInvalidArgs, "plaintes: no token given")
		}
		token = line
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return exitError(ExitInvalidArgs, "plaintes: no token given")
	}
	redact.Register(token)

	if !loginNoVerify {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		e.cfg.Token = token
		client, err := e.client()
		if err != nil {
			return err
		}
		if _, err := client.ListComplaints(cmd.Context(), api.ListParams{Size: 1}); err != nil {
			return classify(err)
		}
	}

	if err := config.SaveToken(token); err != nil {
		return exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", config.CredentialsPath())
	return nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govindup63/Ghstmail.me/internal/client"
	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/session"
	"github.com/govindup63/Ghstmail.me/internal/tui"
)

func newRootCmd() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:   "ghstmail",
		Short: "Manage disposable email aliases from the terminal",
		Long: "ghstmail is the terminal client for the Ghstmail alias service.\n" +
			"Run it without arguments to open the interactive alias view.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(resolveAPIURL(apiURL))
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "alias service base URL (overrides configuration)")

	root.AddCommand(newLoginCmd(&apiURL))
	root.AddCommand(newRegisterCmd(&apiURL))
	root.AddCommand(newLogoutCmd())
	return root
}

func newLoginCmd(apiURL *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := promptCredentials(email, password)
			if err != nil {
				return err
			}

			api := client.New(resolveAPIURL(*apiURL), "")
			creds, err := api.Login(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := saveSession(creds); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(apiURL *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := promptCredentials(email, password)
			if err != nil {
				return err
			}

			api := client.New(resolveAPIURL(*apiURL), "")
			creds, err := api.Register(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			if err := saveSession(creds); err != nil {
				return err
			}
			fmt.Printf("Account created, signed in as %s\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewStore()
			if err != nil {
				return err
			}
			if err := store.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func resolveAPIURL(override string) string {
	if override != "" {
		return override
	}
	cfg, err := config.LoadClient()
	if err != nil || cfg.Client.APIBaseURL == "" {
		return "http://localhost:8080"
	}
	return cfg.Client.APIBaseURL
}

func promptCredentials(email, password string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		password = strings.TrimSpace(line)
	}
	return email, password, nil
}

func saveSession(creds *client.Credentials) error {
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	return store.Save(&session.Session{
		Email:        creds.Email,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
}

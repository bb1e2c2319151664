package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/aandrx/portfolio/config"
	"github.com/aandrx/portfolio/forms"
	"github.com/aandrx/portfolio/httpserve"
	"github.com/aandrx/portfolio/permission"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenScopes  []string
	tokenTTL     time.Duration
)

// tokenCmd mints an admin jwt signed with the configured secret
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the form apis",
	Long: `Mint a JWT for the admin apis, signed with the configured JWT secret.

Scopes:
  ` + forms.PermContactList + `    list contact submissions
  ` + forms.PermContactUpdate + `  change a submission status
  ` + forms.PermRSVPList + `        list the RSVPs of an event
  *               all of the above`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return err
		}
		claims := map[string]interface{}{
			"sub":   tokenSubject,
			"scope": strings.Join(tokenScopes, " "),
			"iat":   time.Now().Unix(),
		}
		if tokenTTL > 0 {
			claims["exp"] = time.Now().Add(tokenTTL).Unix()
		}
		tok, err := httpserve.ConvertMapToJwtString(claims, config.Current().Jwt.Secret)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

// switchOffCmd denies an admin operation to every token
var switchOffCmd = &cobra.Command{
	Use:   "switch-off <operation>",
	Short: "Deny an admin operation to all tokens",
	Long: `Deny an admin operation, i.g. contact:list, to all tokens. Running servers
pick the change up within a minute. switch-on lifts it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return err
		}
		rc := defaultRedis()
		if rc == nil {
			return fmt.Errorf("switch-off needs the default redis")
		}
		return permission.SwitchOff(cmd.Context(), rc, args[0])
	},
}

// switchOnCmd lifts a switch-off
var switchOnCmd = &cobra.Command{
	Use:   "switch-on <operation>",
	Short: "Allow a switched off admin operation again",
	Long: `Remove the switch of an operation from the redis hash ` + permission.PermissionKey + `.
Running servers pick the change up within a minute.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return err
		}
		rc := defaultRedis()
		if rc == nil {
			return fmt.Errorf("switch-on needs the default redis")
		}
		return permission.SwitchOn(cmd.Context(), rc, args[0])
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "admin", "Subject of the token")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", []string{"*"}, "Granted operations")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Lifetime of the token, 0 for no expiry")
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/timecapsule/capsule/internal/model"
)

func loginCmd(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session credential",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			pw, err := passwordFromFlagOrInput(cmd, password, "Password: ")
			if err != nil {
				return err
			}
			if err := a.auth.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			a.out.notice("Logged in as %s", args[0])
			return nil
		}),
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func registerCmd(opts *rootOptions) *cobra.Command {
	var (
		reg         model.Registration
		personality string
	)

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			pw, err := passwordFromFlagOrInput(cmd, reg.Password, "Password: ")
			if err != nil {
				return err
			}
			reg.Email = args[0]
			reg.Password = pw
			if personality != "" {
				reg.PersonalityData = model.ParseJSONBlob(personality)
			}

			profile, err := a.auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			a.out.notice("Registered %s", profile.Email)
			return a.out.profile(*profile)
		}),
	}

	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "password (read from stdin when omitted)")
	cmd.Flags().StringVar(&reg.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&personality, "personality", "", "personality data as JSON")
	return cmd
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session credential",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.out.notice("Logged out")
			return nil
		}),
	}
}

type statusReport struct {
	APIURL        string `json:"api_url" yaml:"api_url"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Session       string `json:"session" yaml:"session"`
}

func statusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API endpoint and whether a session is stored",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			report := statusReport{
				APIURL:        a.cfg.APIURL,
				Authenticated: a.auth.Authenticated(),
				Session:       a.session.String(),
			}
			return a.out.print(report, func(w io.Writer) {
				fmt.Fprintf(w, "API:\t%s\n", report.APIURL)
				fmt.Fprintf(w, "Logged in:\t%t\n", report.Authenticated)
				if report.Authenticated {
					fmt.Fprintf(w, "Session:\t%s\n", report.Session)
				}
			})
		}),
	}
}

// passwordFromFlagOrInput returns flag when set, otherwise prompts for it.
func passwordFromFlagOrInput(cmd *cobra.Command, flag, prompt string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return newSecretReader(cmd).read(prompt)
}

// secretReader prompts on stderr and reads secrets from the command's input.
// A terminal is read without echo. Piped input is read one line per secret.
type secretReader struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newSecretReader(cmd *cobra.Command) *secretReader {
	return &secretReader{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

func (s *secretReader) read(prompt string) (string, error) {
	fmt.Fprint(s.cmd.ErrOrStderr(), prompt)
	if f, ok := s.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	return readLine(s.in)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/NMHx2005/lms-frontend-sub000/authapi"
	"github.com/NMHx2005/lms-frontend-sub000/internal/config"
	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/NMHx2005/lms-frontend-sub000/token"
)

var errUsage = errors.New("usage")

const usage = `usage: lmsclient <command> [flags]

commands:
  login    -email <email> [-password <password>] [-scope admin|client]
  logout   [-scope admin|client]
  me       [-scope admin|client]
  request  [-X method] [-d json] [-H "Key: Value"] [-quiet] <path>
  token    print the stored access token
  status   show the stored session
`

type app struct {
	cfg    config.Config
	client *apiclient.Client
	store  session.Store
	out    io.Writer
}

type command func(ctx context.Context, args []string) error

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":   a.login,
		"logout":  a.logout,
		"me":      a.me,
		"request": a.request,
		"token":   a.token,
		"status":  a.status,
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}
	cmd, ok := a.commands()[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
	return cmd(ctx, args[1:])
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// scopeFlag registers -scope and returns the path scope it selects.
func scopeFlag(fs *flag.FlagSet) func() (string, error) {
	scope := fs.String("scope", "admin", "API scope: admin or client")
	return func() (string, error) {
		switch *scope {
		case "admin":
			return authapi.ScopeAdmin, nil
		case "client":
			return authapi.ScopeClient, nil
		}
		return "", fmt.Errorf("%w: unknown scope %q", errUsage, *scope)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (default $LMS_PASSWORD)")
	scope := scopeFlag(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("LMS_PASSWORD")
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return errUsage
	}
	s, err := scope()
	if err != nil {
		return err
	}

	res, err := authapi.New(a.client, s).Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.printJSON(res.User)
}

func (a *app) logout(ctx context.Context, args []string) error {
	fs := newFlagSet("logout")
	scope := scopeFlag(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := scope()
	if err != nil {
		return err
	}
	if err := authapi.New(a.client, s).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) me(ctx context.Context, args []string) error {
	fs := newFlagSet("me")
	scope := scopeFlag(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := scope()
	if err != nil {
		return err
	}
	user, err := authapi.New(a.client, s).Me(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(user)
}

type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, ", ") }

func (h *headerFlags) Set(v string) error {
	if !strings.Contains(v, ":") {
		return fmt.Errorf("header %q is not Key: Value", v)
	}
	*h = append(*h, v)
	return nil
}

func (a *app) request(ctx context.Context, args []string) error {
	fs := newFlagSet("request")
	method := fs.String("X", "GET", "HTTP method")
	data := fs.String("d", "", "JSON request body")
	quiet := fs.Bool("quiet", false, "do not notify failures")
	var headers headerFlags
	fs.Var(&headers, "H", "extra header, repeatable")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	req := apiclient.NewRequest(strings.ToUpper(*method), fs.Arg(0))
	for _, h := range headers {
		k, v, _ := strings.Cut(h, ":")
		req = req.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	if *data != "" {
		if !json.Valid([]byte(*data)) {
			return fmt.Errorf("%w: -d is not valid JSON", errUsage)
		}
		req = req.WithBody(apiclient.Raw("application/json", []byte(*data)))
	}
	if *quiet {
		req = req.Quiet()
	}

	resp, err := a.client.Send(ctx, req)
	if err != nil {
		return err
	}
	return a.printJSON(resp.Body)
}

func (a *app) token(ctx context.Context, args []string) error {
	if err := parseFlags(newFlagSet("token"), args); err != nil {
		return err
	}
	t, err := session.TokenSource(ctx, a.store).Token()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, t.AccessToken)
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	if err := parseFlags(newFlagSet("status"), args); err != nil {
		return err
	}

	cfg := a.client.Config()
	rows := map[string]string{
		"api":          cfg.BaseURL(),
		"session":      a.cfg.GetSessionStore(),
		"credentials":  "bearer",
		"access token": "none",
		"refresh":      "none",
	}
	if cfg.WithCredentials {
		rows["credentials"] = "cookies"
	}

	accessToken, err := session.AccessToken(ctx, a.store)
	if err != nil {
		return err
	}
	refreshToken, err := session.RefreshToken(ctx, a.store)
	if err != nil {
		return err
	}
	if refreshToken != "" {
		rows["refresh"] = "present"
	}
	if accessToken != "" {
		rows["access token"] = describeToken(accessToken)
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "%-13s %s\n", k+":", rows[k])
	}
	return nil
}

func describeToken(raw string) string {
	claims, err := token.Inspect(raw)
	if apperrors.Is(err, apperrors.ErrInvalidToken) {
		return "opaque"
	}
	var parts []string
	if claims.Subject != "" {
		parts = append(parts, "subject="+claims.Subject)
	}
	if claims.Role != "" {
		parts = append(parts, "role="+claims.Role)
	}
	switch {
	case claims.ExpiresAt.IsZero():
		parts = append(parts, "no expiry")
	case claims.Expired():
		parts = append(parts, "expired "+claims.ExpiresAt.Format(time.RFC3339))
	default:
		parts = append(parts, "expires in "+claims.ExpiresIn().Round(time.Second).String())
	}
	return strings.Join(parts, " ")
}

// printJSON indents JSON bodies and prints anything else as it is.
func (a *app) printJSON(body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = fmt.Fprintln(a.out, string(body))
		return err
	}
	_, err := fmt.Fprintln(a.out, buf.String())
	return err
}

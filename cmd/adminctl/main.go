package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-admin/pkg/adminclient"
	"github.com/angelmondragon/storefront-admin/pkg/env"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

const usage = `usage: adminctl [-api URL] <command> [flags]

commands:
  login   -email E -password P
  logout
  me
  banners list    [-page N] [-per-page N] [-keyword K]
  banners add     -title T [-link L] [-inactive] (-file PATH | -url URL) [-image-inactive]
  banners edit    -id N [-title T] [-link L] [-inactive] [-file PATH | -url URL] [-image-inactive]
  banners delete  -id N [-yes]
  banners trash
  banners restore -id N
  banners force   -id N [-yes]
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

// cli carries what every command needs.
type cli struct {
	client *adminclient.Client
	in     io.Reader
	out    io.Writer
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	api := fs.String("api", env.First("http://localhost:8080", "ADMIN_API_URL", "STOREFRONT_APP_PUBLIC_URL"), "backend base url")
	tokenPath := fs.String("token-file", env.Get("ADMIN_TOKEN_FILE", ""), "token file (default ~/.storefront-admin/token)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	if *tokenPath == "" {
		p, err := adminclient.DefaultTokenPath()
		if err != nil {
			return err
		}
		*tokenPath = p
	}
	client, err := adminclient.New(*api, adminclient.WithTokenStore(adminclient.NewFileTokenStore(*tokenPath)))
	if err != nil {
		return err
	}
	c := &cli{client: client, in: in, out: out}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		if err := c.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out")
		return nil
	case "me":
		u, err := c.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		return nil
	case "banners":
		return c.banners(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.out)
	email := fs.String("email", env.Get("ADMIN_EMAIL", ""), "account email")
	password := fs.String("password", env.Get("ADMIN_PASSWORD", ""), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login needs -email and -password")
	}
	sess, err := c.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	name := *email
	if sess.User != nil && sess.User.Name != "" {
		name = sess.User.Name
	}
	fmt.Fprintf(c.out, "Logged in as %s\n", name)
	return nil
}

// describe prints API failures by their message only.
func describe(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			return typed.Message() + " (run adminctl login)"
		}
		return typed.Message()
	}
	return err.Error()
}

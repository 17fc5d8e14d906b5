// Package cli implements ottoctl, the operator command line: schema
// migrations, admin bootstrap, image uploads and a catalog listing that
// reveals banknotes a page at a time.
package cli

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/spf13/cobra"
)

// Deps are the pieces commands work with. They are opened lazily so that
// --help works without a database.
type Deps struct {
	DB        *sql.DB
	Repos     repomanager.RepositoryManager
	Users     *services.UserService
	Banknotes *services.BanknoteService
	Images    *services.ImageService
	// PublicURL maps an object key to the URL it is served from.
	PublicURL func(key string) string
	// HTTPClient performs presigned uploads; nil means http.DefaultClient.
	HTTPClient *http.Client
	Clock      clock.Clock
	PageSize   int
	PageDelay  time.Duration
	Log        logging.Logger
	Close      func() error
}

// Opener builds Deps for a command invocation.
type Opener func(ctx context.Context) (*Deps, error)

type app struct {
	open Opener
	out  io.Writer
}

// NewRootCommand assembles the ottoctl command tree.
func NewRootCommand(open Opener, out io.Writer) *cobra.Command {
	a := &app{open: open, out: out}

	root := &cobra.Command{
		Use:           "ottoctl",
		Short:         "Operate an OttoCollect deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	// read again by the config loader; declared so cobra accepts it
	root.PersistentFlags().StringP("config", "c", "", "path to JSON config file")

	root.AddCommand(
		a.migrateCommand(),
		a.createAdminCommand(),
		a.uploadImageCommand(),
		a.listBanknotesCommand(),
	)
	return root
}

// with opens Deps, runs fn and releases them.
func (a *app) with(cmd *cobra.Command, fn func(ctx context.Context, d *Deps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	if d.Close != nil {
		defer d.Close()
	}
	return fn(ctx, d)
}

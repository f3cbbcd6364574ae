package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/blobstore"
	"github.com/yanqian/surf-forecast/pkg/util"
)

type composeOptions struct {
	dir         string
	seed        string
	id          int64
	coast       int64
	surf        bool
	orientation int
	label       string
	name        string
	path        string
	start       string
	days        int
}

func newComposeCmd() *cobra.Command {
	opts := composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a forecast from raw files in a local directory",
		Long: `compose reads the atmospheric and oceanic files of one location from a
directory laid out like the forecast bucket and prints the composed forecast.
With --seed the location is looked up by --id, by --path
(country/state/city[/spot]) or by --name. Without it the location is built
from the flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd.Context(), cmd.OutOrStdout(), opts, cmdLogger(cmd))
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.dir, "dir", "", "directory holding the raw forecast files")
	flags.StringVar(&opts.seed, "seed", "", "resolve the location from this seed file")
	flags.Int64Var(&opts.id, "id", 0, "location id")
	flags.Int64Var(&opts.coast, "coast", 0, "coastal cell keying the raw files (defaults to --id)")
	flags.BoolVar(&opts.surf, "surf", false, "treat the location as a surf spot")
	flags.IntVar(&opts.orientation, "orientation", -1, "spot orientation in degrees")
	flags.StringVar(&opts.label, "label", "", "location name to report (without --seed)")
	flags.StringVar(&opts.name, "name", "", "look the location up by name (needs --seed)")
	flags.StringVar(&opts.path, "path", "", "look the location up by country/state/city[/spot] (needs --seed)")
	flags.StringVar(&opts.start, "start", "", "first day (YYYY-MM-DD, default today)")
	flags.IntVar(&opts.days, "days", 0, "number of days (default from the service)")
	_ = cmd.MarkFlagRequired("dir")
	cmd.MarkFlagsMutuallyExclusive("id", "name", "path")
	return cmd
}

func runCompose(ctx context.Context, out io.Writer, opts composeOptions, logger *slog.Logger) error {
	if err := opts.validate(); err != nil {
		return err
	}
	blobs, err := blobstore.NewDirStorage(opts.dir)
	if err != nil {
		return err
	}

	id := opts.id
	var resolver forecast.LocationResolver = staticResolver{loc: opts.location()}
	if opts.seed != "" {
		svc, err := loadSeedService(ctx, opts.seed, logger)
		if err != nil {
			return err
		}
		loc, err := opts.resolve(ctx, svc)
		if err != nil {
			return err
		}
		id, resolver = loc.ID, svc
	}

	cfg := forecast.Config{Keys: forecast.DefaultKeyLayout()}
	reader := forecast.NewReader(blobs, cfg.Keys, 0, nil, logger)
	svc := forecast.NewService(cfg, resolver, reader, nil, logger)

	req, err := opts.request(id)
	if err != nil {
		return err
	}
	resp, err := svc.Compose(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

func (o composeOptions) validate() error {
	if o.seed == "" {
		if o.name != "" || o.path != "" {
			return errors.New("--name and --path need --seed")
		}
		if o.id <= 0 {
			return errors.New("--id must be positive")
		}
		return nil
	}
	if o.id <= 0 && o.name == "" && o.path == "" {
		return errors.New("one of --id, --name or --path is required")
	}
	return nil
}

func (o composeOptions) resolve(ctx context.Context, svc location.Service) (location.Location, error) {
	switch {
	case o.path != "":
		return svc.ResolvePath(ctx, strings.Split(strings.Trim(o.path, "/"), "/"))
	case o.name != "":
		return svc.ResolveName(ctx, o.name)
	default:
		return svc.Get(ctx, o.id)
	}
}

func (o composeOptions) location() location.Location {
	loc := location.Location{ID: o.id, Name: o.label, Kind: location.KindCity, CoastID: o.coast}
	if o.surf {
		loc.Kind = location.KindSpot
	}
	if o.orientation >= 0 {
		orientation := o.orientation
		loc.Orientation = &orientation
	}
	return loc
}

func (o composeOptions) request(id int64) (forecast.Request, error) {
	req := forecast.Request{LocationID: id}
	start, err := util.ParseDate(o.start)
	if err != nil {
		return req, err
	}
	if o.days > 0 && start.IsZero() {
		start = util.TodayUTC()
	}
	req.Start = start
	if o.days > 0 {
		req.End = start.AddDate(0, 0, o.days-1)
	}
	return req, nil
}

type staticResolver struct {
	loc location.Location
}

func (r staticResolver) Get(context.Context, int64) (location.Location, error) {
	return r.loc, nil
}

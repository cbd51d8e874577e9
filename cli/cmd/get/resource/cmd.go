package resource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	clictx "ocm.software/datapackage/cli/internal/context"
	"ocm.software/datapackage/cli/internal/flags/enum"
	"ocm.software/datapackage/descriptor"
	"ocm.software/datapackage/fetch"
	dpresource "ocm.software/datapackage/resource"
)

const (
	FlagBase             = "base"
	FlagOutput           = "output"
	FlagColumns          = "columns"
	FlagConcurrencyLimit = "concurrency-limit"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource {descriptor-file}...",
		Aliases: []string{"resources", "res", "r"},
		Short:   "Load the resources described by data resource descriptor files",
		Args:    cobra.MinimumNArgs(1),
		Long: `Load the resources described by data resource descriptor files.

Every file holds a single descriptor in JSON or YAML. The content is taken from the first source
the descriptor names, in the order "data", "path", "url". A "path" that is not a local file is
requested as url, which allows descriptors to live next to remote data.

Relative paths are resolved against the "base" of the descriptor, or, if it has none, against the
directory of the descriptor file. The --base flag replaces the directory of the descriptor file.

Tabular content (a JSON array or CSV with a header row) is printed as table, any other content as is.`,
		Example: strings.TrimSpace(`
Printing a CSV resource as table:

get resource ./datapackage/cities.yaml

Printing only some columns of several resources:

get resources a.yaml b.yaml --columns "{name,population}"

Resolving paths against a remote location:

get resource cities.yaml --base https://example.com/data -o json
`),
		RunE:              GetResource,
		DisableAutoGenTag: true,
	}

	cmd.Flags().String(FlagBase, "", "base path for relative resource paths of descriptors without a base (default: directory of the descriptor file)")
	enum.VarP(cmd.Flags(), FlagOutput, "o", []string{"table", "yaml", "json"}, "output format of the resources")
	cmd.Flags().String(FlagColumns, "*", "glob pattern selecting the table columns to print")
	cmd.Flags().Int(FlagConcurrencyLimit, 4, "maximum amount of resources loaded in parallel")

	return cmd
}

// loaded is a resource loaded from a descriptor file.
type loaded struct {
	file     string
	resource dpresource.ReadOnlyResource
	// data is the content, as rows for tabular resources.
	data any
}

func GetResource(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	base, err := cmd.Flags().GetString(FlagBase)
	if err != nil {
		return fmt.Errorf("getting base flag failed: %w", err)
	}
	pattern, err := cmd.Flags().GetString(FlagColumns)
	if err != nil {
		return fmt.Errorf("getting columns flag failed: %w", err)
	}
	columns, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid columns pattern %q: %w", pattern, err)
	}
	concurrencyLimit, err := cmd.Flags().GetInt(FlagConcurrencyLimit)
	if err != nil {
		return fmt.Errorf("getting concurrency-limit flag failed: %w", err)
	}
	if concurrencyLimit < 1 {
		return fmt.Errorf("invalid %s %d: must be at least 1", FlagConcurrencyLimit, concurrencyLimit)
	}

	fetcher := clictx.FromContext(cmd.Context()).Fetcher()
	if fetcher == nil {
		fetcher = fetch.New()
	}

	results := make([]*loaded, len(args))
	eg, egctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(concurrencyLimit)
	for i, file := range args {
		eg.Go(func() error {
			result, err := load(egctx, file, base, fetcher)
			if err != nil {
				return fmt.Errorf("loading resource from %q failed: %w", file, err)
			}
			results[i] = result
			return nil
		})
		if egctx.Err() != nil {
			break
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	reader, size, err := encodeResources(output, columns, results)
	if err != nil {
		return fmt.Errorf("generating output failed: %w", err)
	}
	if _, err := io.CopyN(cmd.OutOrStdout(), reader, size); err != nil {
		return fmt.Errorf("writing resources failed: %w", err)
	}
	return nil
}

func load(ctx context.Context, file, base string, fetcher *fetch.Fetcher) (*loaded, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	d, err := descriptor.Decode(raw)
	if err != nil {
		return nil, err
	}
	if base == "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		base = filepath.Dir(abs)
	}

	res, err := dpresource.Load(ctx, d, base, dpresource.WithFetcher(fetcher))
	if err != nil {
		return nil, err
	}
	result := &loaded{file: file, resource: res}
	if tabular, ok := res.(*dpresource.TabularResource); ok {
		result.data, err = tabular.Rows(ctx)
	} else {
		result.data, err = res.Data(ctx)
	}
	if err != nil {
		return nil, err
	}

	slogcontext.FromCtx(ctx).With(slog.String("realm", "cli")).Log(ctx, slog.LevelInfo, "loaded resource",
		slog.String("file", file),
		slog.String("resource", d.String()),
		slog.Bool("tabular", res.IsTabular()),
		slog.String("mediaType", res.MediaType()),
		slog.String("digest", res.Digest().String()),
	)
	return result, nil
}

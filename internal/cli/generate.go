package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// generateCommand creates the generate command, which writes a dataset as
// JSON for later use with "build --input".
func (c *CLI) generateCommand() *cobra.Command {
	var (
		dims    dimensionFlags
		output  string
		name    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset and write it as JSON",
		Long: `Generate a width x depth dataset with one of the built-in generators:

  palette  random colours, affinity from perceptual colour distance
  bands    a colour gradient per column, affinity falls off with row distance
  random   uniform affinities in [-1, 1)

The JSON can be edited and fed back with "tessera build --input".`,
		Example: `  tessera generate -W 8 -D 12 -o data.json
  tessera generate -g bands -s 7 > bands.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.dimensionOptions(cmd, &dims)
			return c.runGenerate(cmd.Context(), opts, name, output, noCache)
		},
	}

	dims.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&name, "name", "", "dataset name stored in the JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerFlagCompletions(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, name, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	d, _, cached, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	if name != "" {
		d.Name = name
	}

	if output == "" {
		return dataset.WriteJSON(d, os.Stdout)
	}
	if err := dataset.ExportJSON(d, output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d elements", d.Len()))

	s := d.Summarize()
	printSuccess("Dataset written")
	printFile(output)
	printKeyValue("generator", d.Generator)
	printKeyValue("size", fmt.Sprintf("%d x %d", d.Width, d.Depth))
	printKeyValue("affinity", fmt.Sprintf("min %.3f  max %.3f  mean %.3f  sd %.3f", s.Min, s.Max, s.Mean, s.StdDev))
	if cached {
		printDetail("from cache")
	}
	printNextStep("Place it", "tessera build --input "+output)
	return nil
}

package watcher

import (
	"fmt"
	"path/filepath"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/bozoyan/asrtools/internal/logging"
)

// Converter rewrites subtitle files into one target format.
type Converter struct {
	Format    asrdata.Format
	Policy    asrdata.TimingPolicy
	OutputDir string // empty writes next to the input
	Logger    *logging.Logger
}

// Handle converts path unless it is already in the target format.
func (c *Converter) Handle(path string) error {
	from, err := asrdata.FormatFromPath(path)
	if err != nil {
		return err
	}
	if from == c.Format {
		return nil
	}

	_, err = c.Convert(path, c.outputPath(path))
	return err
}

// Convert reads input and writes it to output in c.Format, returning the
// number of segments written.
func (c *Converter) Convert(input, output string) (int, error) {
	track, from, err := asrdata.Load(input, asrdata.WithTimingPolicy(c.Policy))
	if err != nil {
		return 0, err
	}
	if err := asrdata.Save(track, c.Format, output); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", output, err)
	}

	logging.OrNop(c.Logger).Infow("Converted subtitle file",
		"input", input,
		"output", output,
		"from", from,
		"to", c.Format,
		"segments", track.Len(),
	)
	return track.Len(), nil
}

func (c *Converter) outputPath(input string) string {
	out := asrdata.OutputPath(input, c.Format)
	if c.OutputDir == "" {
		return out
	}
	return filepath.Join(c.OutputDir, filepath.Base(out))
}

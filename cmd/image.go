package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/backup"
	"github.com/arcanaland/cardrom/internal/config"
	"github.com/arcanaland/cardrom/internal/labels"
	"github.com/arcanaland/cardrom/internal/rom"
)

// openImage loads the image at path with the configured layout and labels.
func openImage(path string) (*rom.Session, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	kinds, err := labels.Load(cfg.LabelsDir)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading image: %w", err)
	}

	s, err := rom.Load(data,
		rom.WithLayout(cfg.ImageLayout()),
		rom.WithLabels(kinds),
		rom.WithLogger(logger.With("image", path)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading image %s: %w", path, err)
	}
	return s, cfg, nil
}

// parseIndex parses a record index argument.
func parseIndex(arg string, count int, kind rom.RecordKind) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s index: %s", kind, arg)
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%s index %d out of range (0-%d)", kind, i, count-1)
	}
	return i, nil
}

// applyFields applies field=value assignments to one record.
func applyFields(s *rom.Session, ref rom.RecordRef, assignments []string) error {
	for _, a := range assignments {
		field, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("invalid assignment %q, expected field=value", a)
		}
		if err := s.SetField(ref, strings.TrimSpace(field), value); err != nil {
			return err
		}
	}
	return nil
}

// saveImage serializes the session and writes it to the --output flag, or
// back to path. Overwriting keeps a compressed backup when enabled.
func saveImage(cmd *cobra.Command, s *rom.Session, cfg *config.Config, path string) error {
	data, err := s.Save()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = path
	}

	if cfg.Backup {
		bak, err := backup.Write(out)
		if err != nil {
			return err
		}
		if bak != "" {
			logger.Info("wrote backup", "path", bak)
		}
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("error writing image: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", out)
	return nil
}

// editCommand builds the "set" subcommand shared by every record kind.
func editCommand(kind rom.RecordKind, count func(*rom.Session) int, fields string) *cobra.Command {
	c := &cobra.Command{
		Use:   fmt.Sprintf("set [image] [%s_index] [field=value]...", kind),
		Short: fmt.Sprintf("Change fields of a %s and save the image", kind),
		Long: fmt.Sprintf(`Set assigns one or more fields of a %s and writes the image back, relocating
text and list data when it no longer fits its slot. Nothing is written if any
record fails to fit.

Fields: %s`, kind, fields),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openImage(args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex(args[1], count(s), kind)
			if err != nil {
				return err
			}
			if err := applyFields(s, rom.RecordRef{Kind: kind, Index: idx}, args[2:]); err != nil {
				return err
			}
			return saveImage(cmd, s, cfg, args[0])
		},
	}
	c.Flags().StringP("output", "o", "", "Write the edited image here instead of overwriting it")
	return c
}

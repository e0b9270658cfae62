package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"merchmagic/internal/catalog"
	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
	"merchmagic/internal/infra"
	"merchmagic/internal/session"
	"merchmagic/internal/storage"
)

type generateOptions struct {
	logo     string
	template string
	edits    []string
	out      string
}

func newGenerateCmd(factory generatorFactory) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a mockup, apply edits in order and export it as PNG",
		Example: `  mockup generate --logo logo.png --template hoodie
  mockup generate --logo logo.png --edit "Make it look like a vintage photo" --out ./exports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, factory, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.logo, "logo", "", "Path to the logo image")
	f.StringVar(&opts.template, "template", catalog.Default().ID, "Product template id")
	f.StringArrayVar(&opts.edits, "edit", nil, "Edit instruction applied after generation (repeatable)")
	f.StringVar(&opts.out, "out", ".", "Directory to write the exported PNG into")
	_ = cmd.MarkFlagRequired("logo")
	return cmd
}

func runGenerate(cmd *cobra.Command, factory generatorFactory, opts *generateOptions) error {
	ctx := cmd.Context()
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := infra.NopLogger()
	if verbose {
		l := infra.NewLogger("cli")
		logger = &l
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	gen, err := factory(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", domain.MessageInitFailed, err)
	}

	f, err := os.Open(opts.logo)
	if err != nil {
		return fmt.Errorf("open logo: %w", err)
	}
	logo, err := imagecodec.Read(f, "")
	f.Close()
	if err != nil {
		return fmt.Errorf("read logo %s: %w", filepath.Base(opts.logo), err)
	}

	files, err := storage.NewFileStore(opts.out)
	if err != nil {
		return err
	}

	coord := session.NewCoordinator(session.Deps{
		Store:     session.NewMemoryStore(time.Hour),
		Generator: gen,
		Logger:    logger,
	})
	s, err := coord.Create(ctx, opts.template)
	if err != nil {
		return err
	}
	if _, err := coord.UploadLogo(ctx, s.ID, logo); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %s mockup...\n", s.Template().Name)
	if s, err = coord.Generate(ctx, s.ID); err != nil {
		return userFacing(s, err)
	}
	for _, edit := range opts.edits {
		if strings.TrimSpace(edit) == "" {
			continue
		}
		fmt.Fprintf(out, "Applying edit: %s\n", edit)
		if s, err = coord.EditWithInstruction(ctx, s.ID, edit); err != nil {
			return userFacing(s, err)
		}
	}

	data, name, err := coord.Export(ctx, s.ID)
	if err != nil {
		return err
	}
	path, err := files.Write(ctx, name, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

// userFacing swaps a generation failure for the message the session carries.
func userFacing(s *session.Session, err error) error {
	var genErr *domain.GenerationError
	if s != nil && s.ErrorMessage != "" && errors.As(err, &genErr) {
		return fmt.Errorf("%s (%w)", s.ErrorMessage, err)
	}
	return err
}

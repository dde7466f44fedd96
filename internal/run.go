package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/distill"
	"github.com/starford/muninn/internal/graph"
	"github.com/starford/muninn/internal/pack"
	"github.com/starford/muninn/internal/scaffold"
	"github.com/starford/muninn/internal/storage"
	"github.com/starford/muninn/internal/vault"
)

// NewLogger builds the text logger used by the one-shot commands. Logs go
// to stderr so command output stays clean on stdout.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func vaultStore(cfg *Config) (storage.Provider, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault storage: %w", err)
	}
	return store, nil
}

// RunPack loads the vault, assembles a context pack, and writes it to the
// output directory. It returns the written file path.
func RunPack(cfg *Config, logger *slog.Logger, opts pack.Options, out io.Writer) (string, error) {
	store, err := vaultStore(cfg)
	if err != nil {
		return "", err
	}
	set, err := vault.Load(store, logger)
	if err != nil {
		return "", err
	}
	g := graph.Build(set.Notes)

	now := time.Now()
	p, err := pack.Assemble(set, g, opts, now)
	if err != nil {
		return "", err
	}
	doc := pack.Render(p)

	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outFS, err := storage.NewFS(cfg.Output.Path)
	if err != nil {
		return "", fmt.Errorf("init output storage: %w", err)
	}
	name := pack.Filename(now, opts.Query)
	if err := outFS.Write(name, []byte(doc)); err != nil {
		return "", err
	}

	path := filepath.Join(cfg.Output.Path, name)
	fmt.Fprintf(out, "wrote %s\n", path)
	fmt.Fprintf(out, "  included: %d notes, ~%d tokens\n", len(p.Entries), p.TotalTokens)
	if len(p.Drops) > 0 {
		fmt.Fprintf(out, "  omitted:  %d notes (see the Omitted section)\n", len(p.Drops))
	}
	return path, nil
}

// RunNew scaffolds a new note from its type template.
func RunNew(cfg *Config, noteType, title, slugOverride string, force bool, out io.Writer) error {
	store, err := vaultStore(cfg)
	if err != nil {
		return err
	}
	sc := scaffold.New(store, cfg.Templates.Path)
	res, err := sc.Create(noteType, title, slugOverride, force, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s\n  id: %s\n", filepath.Join(cfg.Vault.Path, res.Path), res.ID)
	return nil
}

// RunDistill writes a distillation log note. With interactive set, the
// input is collected from stdin instead of flags.
func RunDistill(cfg *Config, in distill.Input, interactive bool, stdin io.Reader, out io.Writer, force bool) error {
	if interactive {
		var err error
		in, err = distill.Prompt(stdin, out)
		if err != nil {
			return err
		}
	}
	res, err := distill.Build(in, time.Now())
	if err != nil {
		return err
	}
	store, err := vaultStore(cfg)
	if err != nil {
		return err
	}
	if !force {
		if _, err := store.Read(res.Path); err == nil {
			return fmt.Errorf("note %s: %w (use --force to overwrite)", res.Path, apperr.ErrAlreadyExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := store.Write(res.Path, res.Content); err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s\n  id: %s\n", filepath.Join(cfg.Vault.Path, res.Path), res.ID)
	return nil
}

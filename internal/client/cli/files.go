package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/client/picker"
	"github.com/dmitrijs2005/pinvault/internal/client/query"
	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("wrong arguments")

// Import describes each path with the picker and imports all of them in one
// batch. Paths that cannot be read are reported and skipped.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: import <path>...")
		return errUsage
	}

	var failed []error
	sources, err := picker.FromPaths(args)
	if err != nil {
		failed = append(failed, err)
	}

	var imported []models.VaultFile
	if len(sources) > 0 {
		imported, err = a.vaultService.Import(ctx, sources...)
		if err != nil {
			failed = append(failed, err)
		}
	}

	for _, f := range imported {
		fmt.Fprintf(a.out, "Imported %s as %s (%s, %s)\n", f.Name, f.ID, f.Kind, humanize.Bytes(f.Size))
	}
	return errors.Join(failed...)
}

// List prints the catalog. The first argument is taken as a category when it
// names one; the remaining words form the search term.
func (a *App) List(ctx context.Context, args []string) error {
	category := query.All
	if len(args) > 0 {
		if c, err := query.ParseCategory(args[0]); err == nil {
			category = c
			args = args[1:]
		}
	}
	term := strings.Join(args, " ")

	files, err := a.vaultService.List(ctx, category, term)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tIMPORTED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Kind, humanize.Bytes(f.Size), humanize.Time(f.UploadDate))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return errUsage
	}

	f, st, err := a.vaultService.Inspect(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:      %s\n", f.Name)
	fmt.Fprintf(a.out, "ID:        %s\n", f.ID)
	fmt.Fprintf(a.out, "Type:      %s (%s)\n", f.Kind, f.MimeType)
	fmt.Fprintf(a.out, "Size:      %s\n", humanize.Bytes(f.Size))
	fmt.Fprintf(a.out, "Imported:  %s (%s)\n", f.UploadDate.Local().Format("2006-01-02 15:04:05"), humanize.Time(f.UploadDate))
	fmt.Fprintf(a.out, "Stored at: %s\n", f.URI)

	switch {
	case !st.Exists:
		fmt.Fprintln(a.out, "Status:    missing from vault storage")
	case !st.SizeMatches:
		fmt.Fprintf(a.out, "Status:    size differs, %s on disk\n", humanize.Bytes(uint64(st.ActualSize)))
	default:
		fmt.Fprintln(a.out, "Status:    ok")
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return errUsage
	}

	f, err := a.vaultService.Get(ctx, args[0])
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %q? This cannot be undone.", f.Name), a.out)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}

	if err := a.vaultService.Delete(ctx, f.ID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted %s.\n", f.Name)
	return nil
}

// Info prints storage usage and per-category counts.
func (a *App) Info(ctx context.Context) error {
	u, err := a.vaultService.Usage(ctx)
	if err != nil {
		return err
	}
	counts, err := a.vaultService.Counts(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Location: %s\n", a.vaultDir)
	fmt.Fprintf(a.out, "Files:    %s\n", humanize.Comma(int64(u.FileCount)))
	fmt.Fprintf(a.out, "Size:     %s\n", humanize.Bytes(u.ReportedSize))
	fmt.Fprintf(a.out, "On disk:  %s\n", humanize.Bytes(u.StoredSize))
	if u.Missing > 0 {
		fmt.Fprintf(a.out, "Missing:  %d\n", u.Missing)
	}

	parts := make([]string, 0, len(counts))
	for _, c := range query.Categories() {
		if c == query.All {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", c, counts[c]))
	}
	fmt.Fprintf(a.out, "By type:  %s\n", strings.Join(parts, ", "))
	return nil
}

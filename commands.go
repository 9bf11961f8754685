package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"studio/internal/config"
	"studio/internal/state"
)

func newDocument(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	a, err := env.OpenApp()
	if err != nil {
		return err
	}

	name := cmd.Args().First()
	if tmpl := cmd.String("template"); tmpl != "" {
		if _, err := a.Templates.LoadAll(ctx); err != nil {
			return fmt.Errorf("unable to load templates: %w", err)
		}
		doc, err := a.Docs.CreateFromTemplate(ctx, tmpl, name)
		if err != nil {
			return fmt.Errorf("unable to create document from template '%s': %w", tmpl, err)
		}
		env.Log.Info("Document created", zap.String("id", doc.ID), zap.String("name", doc.Name), zap.String("template", tmpl))
		fmt.Println(doc.ID)
		return nil
	}

	doc, err := a.Docs.Create(ctx, name, cmd.String("client"))
	if err != nil {
		return fmt.Errorf("unable to create document: %w", err)
	}
	env.Log.Info("Document created", zap.String("id", doc.ID), zap.String("name", doc.Name))
	fmt.Println(doc.ID)
	return nil
}

func listDocuments(ctx context.Context, _ *cli.Command) error {
	a, err := state.EnvFromContext(ctx).OpenApp()
	if err != nil {
		return err
	}
	list, err := a.Docs.List()
	if err != nil {
		return fmt.Errorf("unable to list documents: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPAGES\tUPDATED")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.PageCount, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func listTemplates(ctx context.Context, _ *cli.Command) error {
	a, err := state.EnvFromContext(ctx).OpenApp()
	if err != nil {
		return err
	}
	list, err := a.ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("unable to list templates: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPAGES")
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\n", t.ID, t.Name, len(t.Document.Pages))
	}
	return w.Flush()
}

func listRevisions(ctx context.Context, cmd *cli.Command) error {
	docID, err := requireArg(cmd, 0, "DOCUMENT")
	if err != nil {
		return err
	}
	a, err := state.EnvFromContext(ctx).OpenApp()
	if err != nil {
		return err
	}
	revs, err := a.Docs.Revisions(docID)
	if err != nil {
		return fmt.Errorf("unable to list revisions of '%s': %w", docID, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tCREATED")
	for _, r := range revs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Label, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func restoreRevision(ctx context.Context, cmd *cli.Command) error {
	docID, err := requireArg(cmd, 0, "DOCUMENT")
	if err != nil {
		return err
	}
	revID, err := requireArg(cmd, 1, "REVISION")
	if err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	if _, err := a.Docs.Restore(ctx, docID, revID); err != nil {
		return fmt.Errorf("unable to restore '%s': %w", docID, err)
	}
	env.Log.Info("Document restored", zap.String("id", docID), zap.String("revision", revID))
	return nil
}

func deleteDocument(ctx context.Context, cmd *cli.Command) error {
	docID, err := requireArg(cmd, 0, "DOCUMENT")
	if err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	if err := a.Docs.Delete(docID); err != nil {
		return fmt.Errorf("unable to delete '%s': %w", docID, err)
	}
	env.Log.Info("Document deleted", zap.String("id", docID))
	return nil
}

func exportDocument(ctx context.Context, cmd *cli.Command) error {
	docID, err := requireArg(cmd, 0, "DOCUMENT")
	if err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	res, err := a.Export(ctx, docID)
	if err != nil {
		return fmt.Errorf("unable to export '%s': %w", docID, err)
	}
	env.Log.Info("Document exported", zap.String("file", res.Path), zap.Int("pages", res.Pages), zap.Int("bytes", res.Bytes))
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	a, err := state.EnvFromContext(ctx).OpenApp()
	if err != nil {
		return err
	}
	return a.ServeMCP(ctx, cmd.String("document"), version)
}

func requireArg(cmd *cli.Command, n int, name string) (string, error) {
	if v := cmd.Args().Get(n); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s argument is required", name)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Dump(config.Default())
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

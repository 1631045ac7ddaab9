package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/model"
	"github.com/ppiankov/storybook/internal/store"
)

var (
	dbPath       string
	docOutput    string
	storiesCount int
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage stored book documents",
	Long: `Store finished book files (e.g. .docx) in the local document database.

Example:
  storybook docs save book.docx --title "Cuentos" --author "Ana" --language es --stories 12
  storybook docs list
  storybook docs get 3f0c... -o book.docx
  storybook docs delete 3f0c...`,
}

var docsSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsSave,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Write a document to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsGet,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsSaveCmd, docsListCmd, docsGetCmd, docsDeleteCmd)

	docsCmd.PersistentFlags().StringVar(&dbPath, "db", "", "document database path (default: store.path)")

	addBookFlags(docsSaveCmd)
	docsSaveCmd.Flags().IntVar(&storiesCount, "stories", 0, "number of stories in the document")

	docsGetCmd.Flags().StringVarP(&docOutput, "output", "o", "", "output path (default: stored filename)")
}

// openStore opens the configured document database
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	cfg := commandConfig(cmd)
	path := cfg.Store.Path
	if dbPath != "" {
		path = dbPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return st, nil
}

func runDocsSave(cmd *cobra.Command, args []string) (err error) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	meta := bookMetadata()
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	id, err := st.Save(cmd.Context(), &model.Document{
		Filename:     filepath.Base(args[0]),
		Title:        meta.Title,
		Language:     meta.Language,
		Author:       meta.Author,
		StoriesCount: storiesCount,
		Metadata:     rawMeta,
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), id)
	fmt.Fprintf(os.Stderr, "✓ Saved %s (%d bytes)\n", filepath.Base(args[0]), len(data))
	return nil
}

func runDocsList(cmd *cobra.Command, args []string) (err error) {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	docs, err := st.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents stored.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-19s  %7s  %-4s  %s\n", "ID", "CREATED", "STORIES", "LANG", "TITLE")
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = d.Filename
		}
		fmt.Fprintf(out, "%-36s  %-19s  %7d  %-4s  %s\n",
			d.ID, d.CreatedAt.Local().Format("2006-01-02 15:04:05"), d.StoriesCount, d.Language, title)
	}
	return nil
}

func runDocsGet(cmd *cobra.Command, args []string) (err error) {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	doc, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return docError(args[0], err)
	}

	path := docOutput
	if path == "" {
		path = filepath.Base(doc.Filename)
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %s (%d bytes)\n", path, len(doc.Data))
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) (err error) {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return docError(args[0], err)
	}

	fmt.Fprintf(os.Stderr, "✓ Deleted %s\n", args[0])
	return nil
}

func docError(id string, err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return fmt.Errorf("invalid document ID: %s", id)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("document not found: %s", id)
	default:
		return err
	}
}

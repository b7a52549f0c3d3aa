package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/spf13/cobra"
)

// NewFilesCommand creates the files command group.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file", "media"},
		Short:   "Manage media library files",
		Long:    "List, get, upload, update and delete files of the upload plugin",
	}

	cmd.AddCommand(newFilesListCommand())
	cmd.AddCommand(newFilesGetCommand())
	cmd.AddCommand(newFilesUploadCommand())
	cmd.AddCommand(newFilesUpdateCommand())
	cmd.AddCommand(newFilesDeleteCommand())

	return cmd
}

func newFilesListCommand() *cobra.Command {
	var query queryFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "find"},
		Short:   "List files",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			files, err := cli.Files().Find(cmd.Context(), params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), files, func(table *tableBuilder) {
				fillFilesTable(table, files)
			})
		},
	}

	query.register(cmd)

	return cmd
}

func newFilesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE_ID",
		Short: "Get a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			file, err := cli.Files().FindOne(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), file, func(table *tableBuilder) {
				fillFileTable(table, file)
			})
		},
	}
}

func newFilesUploadCommand() *cobra.Command {
	var info fileInfoFlags

	cmd := &cobra.Command{
		Use:   "upload PATH...",
		Short: "Upload files",
		Long:  "Upload one or more local files in a single request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads := make([]strapi.UploadFile, 0, len(args))

			for _, path := range args {
				upload, closeFile, err := openUpload(path)
				if err != nil {
					return err
				}

				defer closeFile()

				uploads = append(uploads, upload)
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			files, err := cli.Files().Upload(cmd.Context(), uploads, info.build(cmd))
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), files, func(table *tableBuilder) {
				fillFilesTable(table, files)
			})
		},
	}

	info.register(cmd)

	return cmd
}

func newFilesUpdateCommand() *cobra.Command {
	var info fileInfoFlags

	cmd := &cobra.Command{
		Use:   "update FILE_ID",
		Short: "Update file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			fileInfo := info.build(cmd)
			if fileInfo == nil {
				fileInfo = &strapi.FileInfo{}
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			file, err := cli.Files().Update(cmd.Context(), id, *fileInfo)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), file, func(table *tableBuilder) {
				fillFileTable(table, file)
			})
		},
	}

	info.register(cmd)

	return cmd
}

func newFilesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete FILE_ID",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			if !force {
				err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete file %d?", id))
				if err != nil {
					return err
				}
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			file, err := cli.Files().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %d (%s)\n", file.ID, file.Name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")

	return cmd
}

// fileInfoFlags holds the editable metadata flags of a file.
type fileInfoFlags struct {
	name            string
	alternativeText string
	caption         string
}

func (f *fileInfoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "file name")
	cmd.Flags().StringVar(&f.alternativeText, "alt", "", "alternative text")
	cmd.Flags().StringVar(&f.caption, "caption", "", "caption")
}

// build returns nil when no metadata flag was given.
func (f *fileInfoFlags) build(cmd *cobra.Command) *strapi.FileInfo {
	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("alt") && !cmd.Flags().Changed("caption") {
		return nil
	}

	return &strapi.FileInfo{
		Name:            f.name,
		AlternativeText: f.alternativeText,
		Caption:         f.caption,
	}
}

func parseFileID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", constants.ErrInvalidFileID, value)
	}

	return id, nil
}

// openUpload opens path for upload. The returned func closes the file.
func openUpload(path string) (strapi.UploadFile, func(), error) {
	if strings.Contains(filepath.ToSlash(path), "../") {
		return strapi.UploadFile{}, nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return strapi.UploadFile{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return strapi.UploadFile{}, nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
	}

	// #nosec G304 -- path is supplied by the user running the CLI
	file, err := os.Open(path)
	if err != nil {
		return strapi.UploadFile{}, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	upload := strapi.UploadFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     file,
	}

	return upload, func() { _ = file.Close() }, nil
}

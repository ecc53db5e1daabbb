package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/r2storage/pkg/health"
	"github.com/dmitrymomot/r2storage/pkg/logger"
	"github.com/dmitrymomot/r2storage/pkg/storage"
)

// app holds the dependencies shared by subcommands.
type app struct {
	store   *storage.R2Storage
	log     *slog.Logger
	envFile string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "r2ctl",
		Short:         "r2ctl manages files in an R2 or S3-compatible bucket",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.envFile)
			if err != nil {
				return err
			}

			a.log = logger.New(cfg.Log, logger.ContextAttrs)
			a.store, err = storage.New(cfg.Storage, storage.WithLogger(a.log))
			if err != nil {
				return err
			}

			cmd.SetContext(logger.WithAttrs(cmd.Context(), slog.String("command", cmd.Name())))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		a.uploadCmd(),
		a.deleteCmd(),
		a.downloadCmd(),
		a.presignCmd(),
		a.streamCmd(),
		a.healthCmd(),
	)

	return root
}

func (a *app) uploadCmd() *cobra.Command {
	var (
		private     bool
		name        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Upload a local file and print its key and URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := storage.File{
				Path:         args[0],
				OriginalName: name,
				ContentType:  contentType,
			}

			upload := a.store.Upload
			if private {
				upload = a.store.UploadProtected
			}

			res, err := upload(cmd.Context(), f)
			if err != nil {
				return err
			}

			a.log.InfoContext(cmd.Context(), "file uploaded",
				slog.String("key", res.Key),
				slog.Bool("private", private),
			)
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "upload with private ACL")
	cmd.Flags().StringVar(&name, "name", "", "original file name used for the key (default: base name of PATH)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type (default: detected)")

	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "file deleted", slog.String("key", args[0]))
			return nil
		},
	}
}

func (a *app) downloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download KEY",
		Short: "Stream an object to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.store.GetDownloadStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			var dst io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}

			n, err := io.Copy(dst, rc)
			if err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "file downloaded",
				slog.String("key", args[0]),
				slog.Int64("bytes", n),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (a *app) presignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presign KEY",
		Short: "Print a presigned download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.store.GetPresignedDownloadURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
}

func (a *app) streamCmd() *cobra.Command {
	var (
		public      bool
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "stream NAME EXT",
		Short: "Upload stdin as NAME.EXT through a streaming upload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []storage.StreamOption{storage.WithContentType(contentType)}
			if public {
				opts = append(opts, storage.WithACL(storage.ACLPublicRead))
			}

			desc, err := a.store.GetUploadStreamDescriptor(cmd.Context(), args[0], args[1], opts...)
			if err != nil {
				return err
			}

			n, err := io.Copy(desc.Writer, cmd.InOrStdin())
			if err != nil {
				desc.Writer.CloseWithError(err)
				return errors.Join(err, desc.Completion.Wait(cmd.Context()))
			}
			if err := desc.Writer.Close(); err != nil {
				return err
			}
			if err := desc.Completion.Wait(cmd.Context()); err != nil {
				return err
			}

			a.log.InfoContext(cmd.Context(), "stream uploaded",
				slog.String("key", desc.Key),
				slog.Int64("bytes", n),
			)
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"key": desc.Key,
				"url": desc.URL,
			})
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "upload with public-read ACL (default: private)")
	cmd.Flags().StringVar(&contentType, "content-type", storage.MIMEOctetStream, "content type")

	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the bucket is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := health.Run(cmd.Context(), health.Checks{
				"r2": storage.Healthcheck(a.store),
			}, health.WithTimeout(timeout), health.WithLogger(a.log))

			if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			return resp.Err()
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall check timeout")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

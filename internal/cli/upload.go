package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ottocollect/ottocollect/internal/netx"
	"github.com/spf13/cobra"
)

const catalogPrefix = "catalog"

func (a *app) uploadImageCommand() *cobra.Command {
	var file, prefix string

	cmd := &cobra.Command{
		Use:   "upload-image",
		Short: "Upload a picture straight to the bucket and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			return a.with(cmd, func(ctx context.Context, d *Deps) error {
				up, err := d.Images.PresignUpload(ctx, prefix, filepath.Ext(file))
				if err != nil {
					return fmt.Errorf("presign: %w", err)
				}
				if err := netx.UploadToPresignedURL(ctx, d.HTTPClient, up.URL, up.ContentType, data); err != nil {
					return err
				}
				d.Log.Info(ctx, "image uploaded", "key", up.Key, "size", len(data))
				fmt.Fprintln(a.out, d.PublicURL(up.Key))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "image file to upload")
	cmd.Flags().StringVar(&prefix, "prefix", catalogPrefix, "key prefix inside the bucket")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

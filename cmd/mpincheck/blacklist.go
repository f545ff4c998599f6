package main

import (
	"context"
	"fmt"
	"os"

	"mpin_backend/internal/blacklist"
	"mpin_backend/internal/mpin/domain"
	"mpin_backend/platform/config"
	"mpin_backend/platform/objectstore"
	"mpin_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

const (
	blacklistContentType = "application/yaml"
	tagMPINLength        = "mpinlength"
)

// objectWriter is the subset of the object store used by publish.
type objectWriter interface {
	WriteObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// newObjectWriter is replaced in tests.
var newObjectWriter = func(cfg *config.Config) (objectWriter, error) {
	return objectstore.NewMinIOStore(cfg)
}

// lengthValidator returns a validator that knows the mpinlength tag.
func lengthValidator() (*validator.Validator, error) {
	val := validator.New()
	err := val.RegisterValidation(tagMPINLength, func(fl playground.FieldLevel) bool {
		n := fl.Field().Int()
		return n == domain.ShortLength || n == domain.LongLength
	})
	return val, err
}

func newBlacklistCmd(root *rootOptions) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Print the commonly-used MPIN blacklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := lengthValidator()
			if err != nil {
				return err
			}
			if err := val.Var(length, "omitempty,"+tagMPINLength); err != nil {
				return fmt.Errorf("--length must be %d or %d", domain.ShortLength, domain.LongLength)
			}

			list, err := root.loadBlacklist(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# version %s\n", list.Version())
			for _, l := range []int{domain.ShortLength, domain.LongLength} {
				if length != 0 && length != l {
					continue
				}
				fmt.Fprintf(out, "# %d-digit (%d)\n", l, list.Len(l))
				for _, code := range list.Codes(l) {
					fmt.Fprintln(out, code)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "only print codes of this length (4 or 6)")
	cmd.AddCommand(newPublishCmd(root))
	return cmd
}

func newPublishCmd(root *rootOptions) *cobra.Command {
	var bucket, object string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the blacklist document to MinIO",
		Long: `Upload the blacklist document to object storage so that servers running
with BLACKLIST_SOURCE=minio load it on startup. The embedded list is
uploaded unless --blacklist names a file. MinIO settings are read from the
environment (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if bucket == "" {
				bucket = cfg.GetBlacklistBucket()
			}
			if object == "" {
				object = cfg.GetBlacklistObject()
			}

			data := blacklist.DefaultYAML()
			if root.blacklistPath != "" {
				if data, err = os.ReadFile(root.blacklistPath); err != nil {
					return fmt.Errorf("read blacklist file: %w", err)
				}
			}
			set, err := blacklist.Parse(data)
			if err != nil {
				return fmt.Errorf("refusing to publish invalid blacklist: %w", err)
			}

			store, err := newObjectWriter(cfg)
			if err != nil {
				return err
			}
			if err := store.WriteObject(cmd.Context(), bucket, object, blacklistContentType, data); err != nil {
				return err
			}

			root.log.Info("blacklist published", "bucket", bucket, "object", object, "version", set.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "published blacklist %s to %s/%s\n", set.Version(), bucket, object)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "target bucket (default: BLACKLIST_BUCKET)")
	cmd.Flags().StringVar(&object, "object", "", "target object key (default: BLACKLIST_OBJECT)")
	return cmd
}

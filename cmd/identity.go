package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/identity"
	"github.com/kozaktomas/face-auth/internal/logging"
	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage enrolled identities",
}

var identityShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show an enrolled identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityShow,
}

var identityRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Permanently delete an identity and its face template",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityRemove,
}

var identityEnrollCmd = &cobra.Command{
	Use:   "enroll <name>",
	Short: "Enroll an identity with a password and a face photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityEnroll,
}

var identityCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a password-only identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityCreate,
}

func init() {
	rootCmd.AddCommand(identityCmd)
	identityCmd.AddCommand(identityShowCmd, identityRemoveCmd, identityEnrollCmd, identityCreateCmd)

	identityShowCmd.Flags().Bool("json", false, "Output as JSON")

	identityEnrollCmd.Flags().String("password", "", "Password for the identity")
	identityEnrollCmd.Flags().String("image", "", "Path to a photo with exactly one face")
	identityEnrollCmd.MarkFlagRequired("password")
	identityEnrollCmd.MarkFlagRequired("image")

	identityCreateCmd.Flags().String("password", "", "Password for the identity")
	identityCreateCmd.MarkFlagRequired("password")
}

// withService loads config, builds the service and closes the store afterwards.
// CLI logs go to stderr so stdout stays clean for output.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *identity.Service) error) error {
	cfg := config.Load()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
	return withServiceConfig(cmd.Context(), cfg, logger, fn)
}

func withServiceConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	fn func(ctx context.Context, svc *identity.Service) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, store, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, svc)
}

func runIdentityShow(cmd *cobra.Command, args []string) error {
	asJSON := mustGetBool(cmd, "json")
	return withService(cmd, func(ctx context.Context, svc *identity.Service) error {
		found, err := svc.GetIdentity(ctx, args[0])
		if err != nil {
			return fmt.Errorf("identity %q: %w", args[0], err)
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"id":       found.ID,
				"username": found.Name,
				"has_face": found.HasTemplate,
			})
		}
		fmt.Fprintf(out, "ID:       %d\n", found.ID)
		fmt.Fprintf(out, "Username: %s\n", found.Name)
		fmt.Fprintf(out, "Has face: %t\n", found.HasTemplate)
		return nil
	})
}

func runIdentityRemove(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc *identity.Service) error {
		name, err := svc.RemoveIdentity(ctx, args[0])
		if err != nil {
			return fmt.Errorf("identity %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
		return nil
	})
}

func runIdentityEnroll(cmd *cobra.Command, args []string) error {
	password := mustGetString(cmd, "password")
	imagePath := mustGetString(cmd, "image")

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	return withService(cmd, func(ctx context.Context, svc *identity.Service) error {
		result, err := svc.Enroll(ctx, identity.EnrollRequest{Name: args[0], Password: password, Image: image})
		if err != nil {
			return fmt.Errorf("enrolling %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s (id %d)\n", result.Name, result.ID)
		return nil
	})
}

func runIdentityCreate(cmd *cobra.Command, args []string) error {
	password := mustGetString(cmd, "password")
	return withService(cmd, func(ctx context.Context, svc *identity.Service) error {
		result, err := svc.EnrollPasswordOnly(ctx, args[0], password)
		if err != nil {
			return fmt.Errorf("creating %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (id %d, password only)\n", result.Name, result.ID)
		return nil
	})
}

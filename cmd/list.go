package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered identities",
	Long: `List registered identities in registration order.

--name matches case- and accent-insensitively, dashes count as spaces:
  facereg list --name jan-novak   matches "Jan Novák"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("name", "", "Only identities with this name")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}

// ListedIdentity is an identity without its descriptor
type ListedIdentity struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	PhotoPath string `json:"photo_path"`
	CreatedAt string `json:"created_at"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var identities []database.Identity
	if name := mustGetString(cmd, "name"); name != "" {
		identities, err = store.FindByName(ctx, name)
	} else {
		identities, err = store.ListAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list identities: %w", err)
	}

	listed := make([]ListedIdentity, 0, len(identities))
	for _, identity := range identities {
		listed = append(listed, ListedIdentity{
			ID:        identity.ID,
			Name:      identity.Name,
			Dimension: identity.Dim,
			PhotoPath: identity.PhotoPath,
			CreatedAt: identity.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(listed)
	}

	if len(listed) == 0 {
		fmt.Println("No identities found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIM\tPHOTO\tREGISTERED")
	fmt.Fprintln(w, "--\t----\t---\t-----\t----------")
	for _, identity := range listed {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", identity.ID, identity.Name, identity.Dimension, identity.PhotoPath, identity.CreatedAt)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d identities\n", len(listed))
	return nil
}

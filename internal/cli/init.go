package cli

import (
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/roster-api/internal/storage/schema"
	"github.com/aanand-mishra/roster-api/internal/types"
)

func (c *CLI) newInitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database from the schema script",
		Long: `Create the SQLite database and run the creation script in it.

An existing database file is left untouched; delete it to start over.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res, err := schema.Init(ctx, schema.Options{
				StoragePath: c.cfg.StoragePath,
				ScriptPath:  c.cfg.SchemaPath,
			})
			if err != nil {
				return err
			}

			if !res.Created {
				c.log.Warn().Str("path", res.Path).Msg("database already exists, remove it for a fresh database")
				return nil
			}
			c.log.Info().Str("path", res.Path).Msg("database initialized")

			if !seed {
				return nil
			}

			store, err := c.openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddStudents(ctx, SampleRoster()); err != nil {
				return err
			}
			c.log.Info().Int("count", len(SampleRoster())).Msg("sample roster inserted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert a small sample roster after creating the database")
	return cmd
}

// SampleRoster is the data inserted by init --seed.
func SampleRoster() []types.NewStudent {
	return []types.NewStudent{
		{Name: "Alice Johnson", Major: strPtr("Computer Science"), GPA: floatPtr(3.8)},
		{Name: "Bob Smith", Major: strPtr("Mathematics"), GPA: floatPtr(3.2)},
		{Name: "Carmen Diaz", Major: strPtr("Biology"), GPA: floatPtr(3.6)},
		{Name: "Deepak Rao", Major: strPtr("Physics"), GPA: floatPtr(2.9)},
		{Name: "Emma Brown", Major: strPtr("History"), GPA: floatPtr(3.95)},
	}
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

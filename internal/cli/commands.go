package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssuji15/pokecli/internal/service/logger"
)

func (a *app) pokemonCommand() *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "pokemon <name-or-id>",
		Short: "Get information about a Pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			log.Info().Str("pokemon", args[0]).Bool("detailed", detailed).Msg("fetching pokemon")
			p, err := a.client.GetPokemon(ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(a.formatter.FormatPokemon(p))
		},
	}
	// accepted for compatibility; the table already shows every section
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "show detailed information")
	return cmd
}

func (a *app) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <name-or-id>",
		Short: "Get information about a move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			log.Info().Str("move", args[0]).Msg("fetching move")
			m, err := a.client.GetMove(ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(a.formatter.FormatMove(m))
		},
	}
}

func (a *app) itemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "item <name-or-id>",
		Short: "Get information about an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			log.Info().Str("item", args[0]).Msg("fetching item")
			i, err := a.client.GetItem(ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(a.formatter.FormatItem(i))
		},
	}
}

func (a *app) clearCacheCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear the response cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cache == nil {
				_, err := fmt.Fprintln(a.stdout, "Cache is disabled; nothing to clear")
				return err
			}
			if err := a.client.ClearCache(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			_, err := fmt.Fprintln(a.stdout, "Cache cleared")
			return err
		},
	}
}

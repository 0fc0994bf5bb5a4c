package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/oncekit/pkg/oncekit/storage"
)

func newStoreCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect instances persisted by cluster singletons",
	}
	cmd.PersistentFlags().StringVar(&db, "db", "", "SQLite database (default $ONCEKIT_DB)")

	open := func() (*storage.SQLiteStore, error) {
		path := db
		if path == "" {
			path = a.env.DB
		}
		return storage.NewSQLiteStore(path)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(a.out, "no stored instances")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tSIZE\tUPDATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", info.Name, info.Version, info.Size, info.UpdatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the stored bytes of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(a.out, string(data))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.logger.Info("instance deleted", "name", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

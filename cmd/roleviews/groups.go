package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

// groupsOpener abre el repositorio de grupos del runtime (breaker + cache incluidos)
// y retorna la función de cierre.
type groupsOpener func(ctx context.Context) (repository.GroupRepository, func() error, error)

// newGroupsCmd arma `groups list|add|remove`. Las escrituras pasan por el repositorio
// del runtime para que invaliden la cache de membresías.
func newGroupsCmd(open groupsOpener) *cobra.Command {
	var user, group string

	withRepo := func(cmd *cobra.Command, fn func(repository.GroupRepository) error) error {
		repo, closeFn, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(repo)
	}

	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Administra grupos y membresías de usuarios",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista todos los grupos, o los del usuario con --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, func(repo repository.GroupRepository) error {
				return listGroups(cmd.Context(), repo, cmd.OutOrStdout(), user)
			})
		},
	}
	listCmd.Flags().StringVar(&user, "user", "", "ID del usuario")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Agrega el usuario a un grupo (lo crea si no existe)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMembershipFlags(user, group); err != nil {
				return err
			}
			return withRepo(cmd, func(repo repository.GroupRepository) error {
				if err := repo.AddMember(cmd.Context(), user, group); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", user, group)
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Quita el usuario de un grupo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMembershipFlags(user, group); err != nil {
				return err
			}
			return withRepo(cmd, func(repo repository.GroupRepository) error {
				if err := repo.RemoveMember(cmd.Context(), user, group); err != nil {
					if repository.IsNotFound(err) {
						return fmt.Errorf("%s is not a member of %s", user, group)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", user, group)
				return nil
			})
		},
	}

	for _, c := range []*cobra.Command{addCmd, removeCmd} {
		c.Flags().StringVar(&user, "user", "", "ID del usuario")
		c.Flags().StringVar(&group, "group", "", "Nombre del grupo")
	}

	groupsCmd.AddCommand(listCmd, addCmd, removeCmd)
	return groupsCmd
}

func requireMembershipFlags(user, group string) error {
	if strings.TrimSpace(user) == "" || strings.TrimSpace(group) == "" {
		return fmt.Errorf("--user y --group son requeridos")
	}
	return nil
}

func listGroups(ctx context.Context, repo repository.GroupRepository, out io.Writer, userID string) error {
	var (
		groups []repository.Group
		err    error
	)
	if userID == "" {
		groups, err = repo.ListGroups(ctx)
	} else {
		groups, err = repo.UserGroups(ctx, userID)
	}
	if err != nil {
		return err
	}
	for _, name := range repository.GroupNames(groups) {
		fmt.Fprintln(out, name)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"appliance-manager/internal/auth"
	"appliance-manager/internal/db"
	"appliance-manager/internal/model"
	"appliance-manager/internal/store"
)

func userCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage landlord accounts",
	}
	cmd.AddCommand(userCreateCmd(load), userAssignCmd(load))
	return cmd
}

func openStore(load loader) (store.Store, func(), error) {
	cfg, log, err := load()
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return store.NewGormStore(gormDB), func() { _ = log.Sync() }, nil
}

func userCreateCmd(load loader) *cobra.Command {
	var (
		email, firstName, lastName string
		staff                      bool
	)

	cmd := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openStore(load)
			if err != nil {
				return err
			}
			defer done()

			hash, err := auth.HashPassword(args[1])
			if err != nil {
				return err
			}
			user := model.User{
				Username:     args[0],
				Email:        email,
				FirstName:    firstName,
				LastName:     lastName,
				PasswordHash: hash,
				IsStaff:      staff,
				IsActive:     true,
			}
			if err := s.CreateUser(cmd.Context(), &user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant staff access")
	return cmd
}

func userAssignCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <username> <property-id>",
		Short: "Assign a property to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property id %q", args[1])
			}

			s, done, err := openStore(load)
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			user, err := s.GetUserByUsername(ctx, args[0])
			if err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}
			property, err := s.GetProperty(ctx, propertyID)
			if err != nil {
				return fmt.Errorf("property %d: %w", propertyID, err)
			}

			up, err := s.AssignProperty(ctx, user.ID, property.ID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s (id %d)\n", property.Name, user.Username, up.ID)
			return nil
		},
	}
}

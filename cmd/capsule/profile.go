package main

import (
	"context"

	"github.com/spf13/cobra"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/form"
	"github.com/timecapsule/capsule/internal/model"
)

func profileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update your account",
	}

	cmd.AddCommand(profileShowCmd(opts))
	cmd.AddCommand(profileEditCmd(opts))
	cmd.AddCommand(profilePersonalityCmd(opts))
	cmd.AddCommand(profilePasswordCmd(opts))

	return cmd
}

func profileShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			profile, err := a.profile.FetchSelf(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.profile(*profile)
		}),
	}
}

func profileEditCmd(opts *rootOptions) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change email, full_name or personality_data",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			changes, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				return apperrors.ValidationFailed("nothing to change: pass --set field=value")
			}

			current, err := a.profile.FetchSelf(cmd.Context())
			if err != nil {
				return err
			}

			f := form.NewProfileForm(*current, func(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
				updated, err := a.profile.UpdateSelf(ctx, p.Update())
				if err != nil {
					return p, err
				}
				return *updated, nil
			})

			if _, err := f.Dispatch(form.BeginEdit{}); err != nil {
				return err
			}
			for _, c := range changes {
				if _, err := f.Dispatch(form.FieldChange{Field: c.field, Value: c.value}); err != nil {
					return apperrors.ValidationFailed(err.Error())
				}
			}

			state, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.out.notice("Profile updated")
			return a.out.profile(state.Entity)
		}),
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field, as field=value (repeatable)")
	return cmd
}

func profilePersonalityCmd(opts *rootOptions) *cobra.Command {
	var clearData bool

	cmd := &cobra.Command{
		Use:   "personality [json]",
		Short: "Replace or clear your personality data",
		Long: "Replace your personality data. Values that are not JSON are stored as a string.\n" +
			"With --clear the stored data is removed.",
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			var value string
			switch {
			case clearData && len(args) > 0:
				return apperrors.ValidationFailed("pass either a value or --clear")
			case clearData:
			case len(args) == 1 && args[0] != "":
				value = args[0]
			default:
				return apperrors.ValidationFailed("nothing to change: pass a value or --clear")
			}

			edit, err := model.ProfileEdit{}.With("personality_data", value)
			if err != nil {
				return apperrors.ValidationFailed(err.Error())
			}
			profile, err := a.profile.PatchSelf(cmd.Context(), edit)
			if err != nil {
				return err
			}
			a.out.notice("Personality data updated")
			return a.out.profile(*profile)
		}),
	}

	cmd.Flags().BoolVar(&clearData, "clear", false, "remove the stored personality data")
	return cmd
}

func profilePasswordCmd(opts *rootOptions) *cobra.Command {
	var current, next, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Long: "Change your password. Values not given as flags are prompted for. A terminal is read without echo;\n" +
			"piped input is read one value per line.",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			secrets := newSecretReader(cmd)
			for _, p := range []struct {
				value  *string
				prompt string
			}{
				{&current, "Current password: "},
				{&next, "New password: "},
				{&confirm, "Confirm new password: "},
			} {
				if *p.value != "" {
					continue
				}
				line, err := secrets.read(p.prompt)
				if err != nil {
					return err
				}
				*p.value = line
			}

			if err := a.profile.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			a.out.notice("Password changed")
			return nil
		}),
	}

	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again")
	return cmd
}

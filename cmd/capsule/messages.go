package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/form"
	"github.com/timecapsule/capsule/internal/model"
)

func messagesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"message", "msg"},
		Short:   "Manage scheduled messages",
	}

	cmd.AddCommand(messagesListCmd(opts))
	cmd.AddCommand(messagesGetCmd(opts))
	cmd.AddCommand(messagesCreateCmd(opts))
	cmd.AddCommand(messagesEditCmd(opts))
	cmd.AddCommand(messagesRescheduleCmd(opts))
	cmd.AddCommand(messagesDeleteCmd(opts))
	cmd.AddCommand(messagesFieldsCmd(opts))

	return cmd
}

func messagesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your messages",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			msgs, err := a.messages.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.messages(msgs)
		}),
	}
}

func messagesGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one message",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.messages.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.out.message(*msg)
		}),
	}
}

func messagesCreateCmd(opts *rootOptions) *cobra.Command {
	var sets []string
	shorthand := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new message",
		Long: "Schedule a new message. Delivery defaults to email with warm, medium, personal generation settings.\n" +
			"Any field can also be given with --set field=value; see `capsule messages fields`.",
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			changes := make([]fieldChange, 0, len(shorthand)+len(sets))
			for _, field := range model.MessageFields {
				if v, ok := shorthand[field]; ok && cmd.Flags().Changed(flagName(field)) {
					changes = append(changes, fieldChange{field: field, value: *v})
				}
			}
			extra, err := parseSets(sets)
			if err != nil {
				return err
			}
			changes = append(changes, extra...)

			f := form.NewMessageForm(model.NewDraft().Message(), func(ctx context.Context, m model.Message) (model.Message, error) {
				created, err := a.messages.Create(ctx, m.Draft())
				if err != nil {
					return m, err
				}
				return *created, nil
			})

			msg, err := submitMessageForm(cmd.Context(), f, changes)
			if err != nil {
				return err
			}
			a.out.notice("Scheduled message %d for %s", msg.ID, msg.DeliveryDate)
			return a.out.message(*msg)
		}),
	}

	for _, field := range []string{"title", "content", "delivery_date", "delivery_method", "recipient_email", "recipient_phone"} {
		shorthand[field] = cmd.Flags().String(flagName(field), "", "message "+strings.ReplaceAll(field, "_", " "))
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field, as field=value (repeatable)")

	return cmd
}

func messagesEditCmd(opts *rootOptions) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a pending message",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			changes, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				return apperrors.ValidationFailed("nothing to change: pass --set field=value")
			}

			current, err := a.messages.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current.IsDelivered {
				return apperrors.AlreadyDelivered()
			}

			f := form.NewMessageForm(*current, func(ctx context.Context, m model.Message) (model.Message, error) {
				updated, err := a.messages.Update(ctx, id, m)
				if err != nil {
					return m, err
				}
				return *updated, nil
			})

			msg, err := submitMessageForm(cmd.Context(), f, changes)
			if err != nil {
				return err
			}
			a.out.notice("Updated message %d", msg.ID)
			return a.out.message(*msg)
		}),
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field, as field=value (repeatable)")
	return cmd
}

func messagesRescheduleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <delivery-date> <id>...",
		Short: "Move pending messages to a new delivery date",
		Long:  "Move pending messages to a new delivery date and print the updated message list.",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			edit, err := model.MessageEdit{}.With("delivery_date", args[0])
			if err != nil {
				return apperrors.ValidationFailed(err.Error())
			}
			if !edit.DeliveryDate.After(time.Now()) {
				return apperrors.ValidationFailed("delivery_date: must be in the future")
			}
			ids := make([]int64, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			msgs, err := a.messages.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				updated, err := a.messages.Patch(cmd.Context(), id, edit)
				if err != nil {
					return fmt.Errorf("reschedule message %d: %w", id, err)
				}
				msgs = model.ReplaceMessage(msgs, *updated)
				a.out.notice("Rescheduled message %d for %s", id, updated.DeliveryDate)
			}
			return a.out.messages(msgs)
		}),
	}
}

func messagesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete pending messages",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			msgs, err := a.messages.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				msg, ok := findMessage(msgs, id)
				if !ok {
					a.out.notice("Message %d is already gone", id)
					continue
				}
				if err := a.messages.DeleteMessage(cmd.Context(), msg); err != nil {
					return fmt.Errorf("delete message %d: %w", id, err)
				}
				msgs = model.RemoveMessage(msgs, id)
				a.out.notice("Deleted message %d", id)
			}
			return nil
		}),
	}
}

func findMessage(msgs []model.Message, id int64) (model.Message, bool) {
	for _, m := range msgs {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}

type fieldInfo struct {
	Field  string   `json:"field" yaml:"field"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

func messagesFieldsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields accepted by --set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed := map[string][]string{
				"delivery_method":           model.DeliveryMethods,
				"generation_settings.tone":   model.Tones,
				"generation_settings.length": model.Lengths,
				"generation_settings.style":  model.Styles,
			}
			fields := make([]fieldInfo, 0, len(model.MessageFields))
			for _, f := range model.MessageFields {
				fields = append(fields, fieldInfo{Field: f, Values: allowed[f]})
			}

			return opts.printer(cmd.OutOrStdout()).print(fields, func(w io.Writer) {
				fmt.Fprintln(w, "FIELD\tVALUES")
				for _, f := range fields {
					fmt.Fprintf(w, "%s\t%s\n", f.Field, strings.Join(f.Values, ", "))
				}
			})
		},
	}
}

type fieldChange struct {
	field string
	value string
}

func parseSets(sets []string) ([]fieldChange, error) {
	changes := make([]fieldChange, 0, len(sets))
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, apperrors.ValidationFailed(fmt.Sprintf("invalid --set %q: want field=value", s))
		}
		changes = append(changes, fieldChange{field: strings.TrimSpace(field), value: value})
	}
	return changes, nil
}

// submitMessageForm applies changes to a fresh edit and commits it. The
// candidate is validated before anything is sent; failures list the fields
// the candidate requires.
func submitMessageForm(ctx context.Context, f *form.MessageForm, changes []fieldChange) (*model.Message, error) {
	if _, err := f.Dispatch(form.BeginEdit{}); err != nil {
		return nil, err
	}
	for _, c := range changes {
		if _, err := f.Dispatch(form.FieldChange{Field: c.field, Value: c.value}); err != nil {
			return nil, apperrors.ValidationFailed(err.Error())
		}
	}

	if violations := form.MessageViolations(f.State()); len(violations) > 0 {
		appErr, _ := apperrors.AsAppError(model.ViolationError(violations))
		appErr.Message += " (required: " + strings.Join(form.MessageRequiredFields(f.State()), ", ") + ")"
		return nil, appErr
	}

	state, err := f.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return &state.Entity, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationFailed(fmt.Sprintf("invalid message id %q", s))
	}
	return id, nil
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

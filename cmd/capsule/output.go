package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/timecapsule/capsule/internal/model"
)

type printer struct {
	w      io.Writer
	format string
}

// print writes v as JSON or YAML, or calls table for the default format.
func (p *printer) print(v any, table func(w io.Writer)) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// notice prints a one line confirmation. Structured formats stay silent
// so their output remains parseable.
func (p *printer) notice(format string, args ...any) {
	if p.format != "table" {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) messages(msgs []model.Message) error {
	return p.print(msgs, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tTITLE\tMETHOD\tDELIVERY DATE\tSTATUS")
		for _, m := range msgs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, truncate(m.Title, 40), m.DeliveryMethod, m.DeliveryDate, m.Status())
		}
	})
}

func (p *printer) message(m model.Message) error {
	return p.print(m, func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", m.ID)
		fmt.Fprintf(w, "Title:\t%s\n", m.Title)
		fmt.Fprintf(w, "Status:\t%s\n", m.Status())
		fmt.Fprintf(w, "Delivery date:\t%s\n", m.DeliveryDate)
		fmt.Fprintf(w, "Delivery method:\t%s\n", m.DeliveryMethod)
		fmt.Fprintf(w, "Recipient email:\t%s\n", m.RecipientEmail)
		if m.RecipientPhone != "" {
			fmt.Fprintf(w, "Recipient phone:\t%s\n", m.RecipientPhone)
		}
		if len(m.MediaURLs) > 0 {
			fmt.Fprintf(w, "Media:\t%s\n", strings.Join(m.MediaURLs, ", "))
		}
		gs := m.GenerationSettings
		fmt.Fprintf(w, "Generation:\t%s, %s, %s\n", gs.Tone, gs.Length, gs.Style)
		fmt.Fprintf(w, "Content:\t%s\n", m.Content)
	})
}

func (p *printer) profile(u model.UserProfile) error {
	return p.print(u, func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", u.ID)
		fmt.Fprintf(w, "Email:\t%s\n", u.Email)
		fmt.Fprintf(w, "Full name:\t%s\n", u.FullName)
		fmt.Fprintf(w, "Active:\t%t\n", u.IsActive)
		if len(u.PersonalityData) > 0 {
			fmt.Fprintf(w, "Personality data:\t%s\n", string(u.PersonalityData))
		}
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

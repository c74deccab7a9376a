package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/wikigames/internal/state"
	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// textField binds one text column of a record to a command-line flag.
type textField[T any] struct {
	flag  string
	usage string
	ptr   func(*T) *string
}

// recordKind describes how the CLI drives one record type through the
// controller.
type recordKind[T any] struct {
	noun   string
	plural string
	fields []textField[T]
	image  func(*T) **string
	id     func(T) int64

	coll   func(*state.Controller) *state.Collection[T]
	find   func(*state.Controller, int64) (T, bool)
	add    func(*state.Controller, T) (*state.Task, error)
	update func(*state.Controller, T) (*state.Task, error)
	remove func(*state.Controller, T) *state.Task

	header []string
	row    func(T) []string
}

func newRecordCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   k.plural,
		Short: fmt.Sprintf("List and edit %s", k.plural),
	}
	cmd.AddCommand(
		newListCmd(a, k),
		newShowCmd(a, k),
		newAddCmd(a, k),
		newUpdateCmd(a, k),
		newDeleteCmd(a, k),
	)
	return cmd
}

func newListCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List every %s in store order", k.noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			rows := k.coll(ctrl).Snapshot()
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeTable(cmd.OutOrStdout(), k.header, rows, k.row)
		},
	}
}

func newShowCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s", k.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := lookup(a, cmd, k, args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			return writeTable(cmd.OutOrStdout(), k.header, []T{rec}, k.row)
		},
	}
}

func newAddCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	var (
		rec   T
		image string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", k.noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			*k.image(&rec) = types.ImageRef(image)
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			task, err := k.add(ctrl, rec)
			if err != nil {
				return userError(err)
			}
			if err := task.Wait(cmd.Context()); err != nil {
				return sysError(err)
			}
			added := k.coll(ctrl).Snapshot()
			return report(a, cmd, k, "added", latest(added, k.id))
		},
	}
	bindFields(cmd.Flags(), k, &rec, &image)
	return cmd
}

func newUpdateCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	var (
		patch T
		image string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Change fields of a %s", k.noun),
		Long:  "Only the flags given are changed; the other fields keep their stored values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := lookup(a, cmd, k, args[0])
			if err != nil {
				return err
			}
			for _, f := range k.fields {
				if cmd.Flags().Changed(f.flag) {
					*f.ptr(&rec) = *f.ptr(&patch)
				}
			}
			if cmd.Flags().Changed("image") {
				*k.image(&rec) = types.ImageRef(image)
			}

			task, err := k.update(a.ctrl, rec)
			if err != nil {
				return userError(err)
			}
			if err := task.Wait(cmd.Context()); err != nil {
				return sysError(err)
			}
			return report(a, cmd, k, "updated", rec)
		},
	}
	bindFields(cmd.Flags(), k, &patch, &image)
	return cmd
}

func newDeleteCmd[T any](a *app, k recordKind[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", k.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := lookup(a, cmd, k, args[0])
			if err != nil {
				return err
			}
			if err := k.remove(a.ctrl, rec).Wait(cmd.Context()); err != nil {
				return sysError(err)
			}
			return report(a, cmd, k, "deleted", rec)
		},
	}
}

func bindFields[T any](fs *pflag.FlagSet, k recordKind[T], rec *T, image *string) {
	for _, f := range k.fields {
		fs.StringVar(f.ptr(rec), f.flag, "", f.usage)
	}
	fs.StringVar(image, "image", "", "image reference (URI)")
}

// lookup loads the catalog and finds the record named by arg.
func lookup[T any](a *app, cmd *cobra.Command, k recordKind[T], arg string) (T, error) {
	var zero T
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return zero, userError(fmt.Errorf("invalid %s id %q", k.noun, arg))
	}
	ctrl, err := a.controller(cmd)
	if err != nil {
		return zero, err
	}
	rec, ok := k.find(ctrl, id)
	if !ok {
		return zero, userError(fmt.Errorf("%s %d not found", k.noun, id))
	}
	return rec, nil
}

// latest returns the record with the highest id, which is the one the
// store assigned last.
func latest[T any](rows []T, id func(T) int64) T {
	var best T
	for i, r := range rows {
		if i == 0 || id(r) > id(best) {
			best = r
		}
	}
	return best
}

func report[T any](a *app, cmd *cobra.Command, k recordKind[T], verb string, rec T) error {
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d\n", verb, k.noun, k.id(rec))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable[T any](w io.Writer, header []string, rows []T, row func(T) []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(row(r), "\t"))
	}
	return tw.Flush()
}

func imageText(ref *string) string {
	if ref == nil {
		return "-"
	}
	return *ref
}

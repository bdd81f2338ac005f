package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Limit int
	Op    string
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recorded operations",
		Long: `List the operations recorded in the journal, newest first.

Every command that touches a game is recorded, including calls that
changed nothing (APPLIED "no"). Each entry carries the digest of the
state right after the call.

Only the sqlite backend keeps a journal.

Examples:
  tally journal
  tally journal --limit 5 --op round`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&opts.Op, "op", "", "show only this operation (create, round, undo, reset)")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	return withSession(opts.RootOptions, cmd, func(ctx context.Context, s *session) error {
		if s.journal == nil {
			return NewExitError(ExitFailure, fmt.Sprintf("the %s backend keeps no journal", s.cfg.Backend)).WithCode(ErrCodeJournalUnsupported)
		}

		entries, err := s.journal.ReadJournal(ctx, store.JournalQuery{Op: opts.Op, Limit: opts.Limit})
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read journal", err).WithCode(ErrCodeStorage)
		}

		view := journalView{Entries: make([]journalRow, 0, len(entries))}
		for _, e := range entries {
			args, err := model.MarshalCanonical(e.Args)
			if err != nil {
				return WrapExitError(ExitFailure, fmt.Sprintf("journal entry %d", e.Seq), err).WithCode(ErrCodeStorage)
			}
			view.Entries = append(view.Entries, journalRow{
				Seq:        e.Seq,
				Op:         e.Op,
				Applied:    e.Applied,
				Args:       string(args),
				Digest:     e.Digest,
				RecordedAt: e.RecordedAt,
			})
		}
		return s.out.Success(view)
	})
}

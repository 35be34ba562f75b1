package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEntryType(t *testing.T) {
	cases := []struct {
		in   string
		want EntryType
	}{
		{"Credit", EntryCredit},
		{"credit", EntryCredit},
		{"CREDIT", EntryCredit},
		{"Debit", EntryDebit},
		{"debit", EntryDebit},
		{" debit ", EntryDebit},
	}
	for _, c := range cases {
		got, err := ParseEntryType(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestParseEntryTypeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "transfer", "credit card", "debits"} {
		_, err := ParseEntryType(in)
		require.Error(t, err, in)
	}
}
